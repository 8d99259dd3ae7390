package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/platform/nlp"
	"github.com/prapeller/readadvance.backend/internal/store"
	"github.com/prapeller/readadvance.backend/internal/task"
)

// mockWordStore is an in-memory store.WordStore for service tests.
type mockWordStore struct {
	mu      sync.Mutex
	words   map[uuid.UUID]*domain.Word
	byKey   map[string]uuid.UUID
	getErr  error
	saveErr error

	// missFirstLookup makes the first GetByCharacters miss even when the
	// word exists, simulating a concurrent insert racing the lookup.
	missFirstLookup bool
}

func newMockWordStore() *mockWordStore {
	return &mockWordStore{
		words: make(map[uuid.UUID]*domain.Word),
		byKey: make(map[string]uuid.UUID),
	}
}

func wordKey(characters string, language domain.Language) string {
	return characters + "|" + string(language)
}

func (m *mockWordStore) Create(ctx context.Context, word *domain.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	key := wordKey(word.Characters, word.Language)
	if _, exists := m.byKey[key]; exists {
		return store.ErrWordExists
	}
	copied := *word
	m.words[word.ID] = &copied
	m.byKey[key] = word.ID
	return nil
}

func (m *mockWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	word, ok := m.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	copied := *word
	return &copied, nil
}

func (m *mockWordStore) GetByCharacters(
	ctx context.Context,
	characters string,
	language domain.Language,
) (*domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.missFirstLookup {
		m.missFirstLookup = false
		return nil, store.ErrWordNotFound
	}
	id, ok := m.byKey[wordKey(characters, language)]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	copied := *m.words[id]
	return &copied, nil
}

func (m *mockWordStore) UpdateAnalysis(ctx context.Context, id uuid.UUID, lemma, partOfSpeech string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	word, ok := m.words[id]
	if !ok {
		return store.ErrWordNotFound
	}
	word.Lemma = &lemma
	word.PartOfSpeech = &partOfSpeech
	return nil
}

func (m *mockWordStore) UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	word, ok := m.words[id]
	if !ok {
		return store.ErrWordNotFound
	}
	word.Level = &level
	return nil
}

func (m *mockWordStore) List(
	ctx context.Context,
	language domain.Language,
	limit, offset int,
) ([]*domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	words := make([]*domain.Word, 0)
	for _, word := range m.words {
		if word.Language == language {
			copied := *word
			words = append(words, &copied)
		}
	}
	return words, nil
}

func (m *mockWordStore) WithTx(tx *sql.Tx) store.WordStore { return m }

// mockTextStore is an in-memory store.TextStore for service tests.
type mockTextStore struct {
	mu       sync.Mutex
	texts    map[uuid.UUID]*domain.Text
	byDigest map[string]uuid.UUID
	getErr   error
}

func newMockTextStore() *mockTextStore {
	return &mockTextStore{
		texts:    make(map[uuid.UUID]*domain.Text),
		byDigest: make(map[string]uuid.UUID),
	}
}

func (m *mockTextStore) Create(ctx context.Context, text *domain.Text) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byDigest[text.ContentDigest]; exists {
		return store.ErrTextExists
	}
	copied := *text
	m.texts[text.ID] = &copied
	m.byDigest[text.ContentDigest] = text.ID
	return nil
}

func (m *mockTextStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Text, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	text, ok := m.texts[id]
	if !ok {
		return nil, store.ErrTextNotFound
	}
	copied := *text
	return &copied, nil
}

func (m *mockTextStore) UpdateLanguage(ctx context.Context, id uuid.UUID, language domain.Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.texts[id]
	if !ok {
		return store.ErrTextNotFound
	}
	text.Language = &language
	return nil
}

func (m *mockTextStore) UpdateLevel(ctx context.Context, id uuid.UUID, level domain.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.texts[id]
	if !ok {
		return store.ErrTextNotFound
	}
	text.Level = &level
	return nil
}

func (m *mockTextStore) List(ctx context.Context, limit, offset int) ([]*domain.Text, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]*domain.Text, 0, len(m.texts))
	for _, text := range m.texts {
		copied := *text
		texts = append(texts, &copied)
	}
	return texts, nil
}

func (m *mockTextStore) WithTx(tx *sql.Tx) store.TextStore { return m }

// mockAnalyzer returns canned analysis results.
type mockAnalyzer struct {
	tokens []nlp.TokenAnalysis
	err    error
	calls  int
}

func (m *mockAnalyzer) Analyze(
	ctx context.Context,
	content string,
	language domain.Language,
) ([]nlp.TokenAnalysis, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.tokens, nil
}

// mockTaskRunner records submitted tasks.
type mockTaskRunner struct {
	mu        sync.Mutex
	submitted []task.Task
	err       error
}

func (m *mockTaskRunner) Submit(ctx context.Context, t task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.submitted = append(m.submitted, t)
	return nil
}

func (m *mockTaskRunner) submittedTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.submitted))
	for _, t := range m.submitted {
		types = append(types, t.Type())
	}
	return types
}

// mockClassifier returns canned classification results.
type mockClassifier struct {
	language      domain.Language
	textLevel     domain.Level
	wordLevel     domain.Level
	err           error
	languageCalls int
	textLvlCalls  int
	wordLvlCalls  int
}

func (m *mockClassifier) IdentifyLanguage(ctx context.Context, text string) (domain.Language, error) {
	m.languageCalls++
	if m.err != nil {
		return "", m.err
	}
	return m.language, nil
}

func (m *mockClassifier) IdentifyTextLevel(ctx context.Context, text string) (domain.Level, error) {
	m.textLvlCalls++
	if m.err != nil {
		return "", m.err
	}
	return m.textLevel, nil
}

func (m *mockClassifier) IdentifyWordLevel(
	ctx context.Context,
	word string,
	language domain.Language,
) (domain.Level, error) {
	m.wordLvlCalls++
	if m.err != nil {
		return "", m.err
	}
	return m.wordLevel, nil
}
