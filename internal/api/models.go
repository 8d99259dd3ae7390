package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateWordRequest defines the payload for word intake.
type CreateWordRequest struct {
	Characters string `json:"characters" validate:"required,min=1,max=100"`
	Language   string `json:"language"   validate:"required,oneof=RU EN DE FR IT ES PT"`
}

// WordResponse represents a stored word, including any enrichment
// results available so far.
type WordResponse struct {
	ID           uuid.UUID `json:"id"`
	Characters   string    `json:"characters"`
	Language     string    `json:"language"`
	Lemma        *string   `json:"lemma,omitempty"`
	PartOfSpeech *string   `json:"part_of_speech,omitempty"`
	Level        *string   `json:"level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WordListResponse is a page of words.
type WordListResponse struct {
	Words  []WordResponse `json:"words"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CreateTextRequest defines the payload for text intake.
type CreateTextRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// TextResponse represents a stored text. Language and level appear only
// once background identification has completed.
type TextResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Language  *string   `json:"language,omitempty"`
	Level     *string   `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TextListResponse is a page of texts.
type TextListResponse struct {
	Texts  []TextResponse `json:"texts"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TranslateTextRequest defines the payload for whole-text translation.
type TranslateTextRequest struct {
	Text         string `json:"text"          validate:"required,min=1"`
	FromLanguage string `json:"from_language" validate:"required,oneof=RU EN DE FR IT ES PT"`
	ToLanguage   string `json:"to_language"   validate:"required,oneof=RU EN DE FR IT ES PT"`
}

// TranslateTextResponse carries the translated text.
type TranslateTextResponse struct {
	TranslatedText string `json:"translated_text"`
	FromLanguage   string `json:"from_language"`
	ToLanguage     string `json:"to_language"`
}

// TranslateWordRequest defines the payload for word-in-context translation.
// Translator selects the backend: "model" (default) or "llm".
type TranslateWordRequest struct {
	Word         string `json:"word"                 validate:"required,min=1,max=100"`
	Context      string `json:"context,omitempty"`
	Translator   string `json:"translator,omitempty" validate:"omitempty,oneof=model llm"`
	FromLanguage string `json:"from_language"        validate:"required,oneof=RU EN DE FR IT ES PT"`
	ToLanguage   string `json:"to_language"          validate:"required,oneof=RU EN DE FR IT ES PT"`
}

// TranslateWordResponse carries the word translation. PartOfSpeech is
// only populated by the llm translator.
type TranslateWordResponse struct {
	TranslatedWord    string `json:"translated_word"`
	PartOfSpeech      string `json:"part_of_speech,omitempty"`
	TranslatedContext string `json:"translated_context,omitempty"`
}

// wordToResponse converts a domain.Word to its API representation.
func wordToResponse(word *domain.Word) WordResponse {
	resp := WordResponse{
		ID:           word.ID,
		Characters:   word.Characters,
		Language:     string(word.Language),
		Lemma:        word.Lemma,
		PartOfSpeech: word.PartOfSpeech,
		CreatedAt:    word.CreatedAt,
		UpdatedAt:    word.UpdatedAt,
	}
	if word.Level != nil {
		level := string(*word.Level)
		resp.Level = &level
	}
	return resp
}

// textToResponse converts a domain.Text to its API representation.
func textToResponse(text *domain.Text) TextResponse {
	resp := TextResponse{
		ID:        text.ID,
		Content:   text.Content,
		CreatedAt: text.CreatedAt,
		UpdatedAt: text.UpdatedAt,
	}
	if text.Language != nil {
		lang := string(*text.Language)
		resp.Language = &lang
	}
	if text.Level != nil {
		level := string(*text.Level)
		resp.Level = &level
	}
	return resp
}
