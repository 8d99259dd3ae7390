package api

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/service"
	"github.com/prapeller/readadvance.backend/internal/service/auth"
)

// mockUserService is an in-memory service.UserService for handler tests.
type mockUserService struct {
	usersByEmail map[string]*domain.User
	usersByID    map[uuid.UUID]*domain.User
	createErr    error
}

func newMockUserService() *mockUserService {
	return &mockUserService{
		usersByEmail: make(map[string]*domain.User),
		usersByID:    make(map[uuid.UUID]*domain.User),
	}
}

func (m *mockUserService) GetUser(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	user, ok := m.usersByID[userID]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserService) CreateUser(_ context.Context, email, password string) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := strings.ToLower(email)
	if _, exists := m.usersByEmail[key]; exists {
		return nil, service.ErrEmailTaken
	}
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = "hashed:" + password
	user.Password = ""
	m.usersByEmail[key] = user
	m.usersByID[user.ID] = user
	return user, nil
}

// mockJWTService returns a fixed token.
type mockJWTService struct {
	token       string
	generateErr error
	validateErr error
	claims      *auth.Claims
}

func (m *mockJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.token, nil
}

func (m *mockJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

// mockPasswordVerifier accepts any password whose hash is "hashed:"+password.
type mockPasswordVerifier struct{}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return auth.ErrInvalidToken
}

// mockWordService is a canned service.WordService.
type mockWordService struct {
	words       map[uuid.UUID]*domain.Word
	getOrCreate func(characters string, language domain.Language) (bool, *domain.Word, error)
	createErr   error
	listErr     error
}

func newMockWordService() *mockWordService {
	return &mockWordService{words: make(map[uuid.UUID]*domain.Word)}
}

func (m *mockWordService) GetOrCreate(
	_ context.Context, characters string, language domain.Language,
) (bool, *domain.Word, error) {
	if m.getOrCreate != nil {
		return m.getOrCreate(characters, language)
	}
	word, err := domain.NewWord(characters, language)
	if err != nil {
		return false, nil, err
	}
	m.words[word.ID] = word
	return true, word, nil
}

func (m *mockWordService) Create(
	_ context.Context, characters string, language domain.Language,
) (*domain.Word, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	word, err := domain.NewWord(characters, language)
	if err != nil {
		return nil, err
	}
	m.words[word.ID] = word
	return word, nil
}

func (m *mockWordService) GetWord(_ context.Context, wordID uuid.UUID) (*domain.Word, error) {
	word, ok := m.words[wordID]
	if !ok {
		return nil, service.ErrWordNotFound
	}
	return word, nil
}

func (m *mockWordService) ListWords(
	_ context.Context, language domain.Language, _, _ int,
) ([]*domain.Word, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.Word
	for _, word := range m.words {
		if word.Language == language {
			result = append(result, word)
		}
	}
	return result, nil
}

// mockTextService is a canned service.TextService.
type mockTextService struct {
	texts     map[uuid.UUID]*domain.Text
	byDigest  map[string]*domain.Text
	createErr error
}

func newMockTextService() *mockTextService {
	return &mockTextService{
		texts:    make(map[uuid.UUID]*domain.Text),
		byDigest: make(map[string]*domain.Text),
	}
}

func (m *mockTextService) Create(_ context.Context, content string) (*domain.Text, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	text, err := domain.NewText(content)
	if err != nil {
		return nil, err
	}
	if _, exists := m.byDigest[text.ContentDigest]; exists {
		return nil, service.ErrTextExists
	}
	m.texts[text.ID] = text
	m.byDigest[text.ContentDigest] = text
	return text, nil
}

func (m *mockTextService) GetText(_ context.Context, textID uuid.UUID) (*domain.Text, error) {
	text, ok := m.texts[textID]
	if !ok {
		return nil, service.ErrTextNotFound
	}
	return text, nil
}

func (m *mockTextService) ListTexts(_ context.Context, _, _ int) ([]*domain.Text, error) {
	var result []*domain.Text
	for _, text := range m.texts {
		result = append(result, text)
	}
	return result, nil
}

// mockTranslationService returns canned translations.
type mockTranslationService struct {
	textResult string
	textErr    error
	wordResult *service.WordContextTranslation
	wordErr    error
}

func (m *mockTranslationService) TranslateText(
	_ context.Context, _ string, _, _ domain.Language,
) (string, error) {
	if m.textErr != nil {
		return "", m.textErr
	}
	return m.textResult, nil
}

func (m *mockTranslationService) TranslateWordInContext(
	_ context.Context, _, _, _ string, _, _ domain.Language,
) (*service.WordContextTranslation, error) {
	if m.wordErr != nil {
		return nil, m.wordErr
	}
	return m.wordResult, nil
}
