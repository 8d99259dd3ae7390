// Package gemini implements a structured-output classifier on top of the
// Gemini API. Each classification kind constrains the model to a closed
// output set (ISO language codes, CEFR level codes) or a fixed-shape JSON
// record, and validates the raw model output before anything downstream
// sees it.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/prapeller/readadvance.backend/internal/config"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/retry"
)

// maxInputLength bounds the text sent to the model; longer inputs carry no
// extra classification signal and only add cost and latency.
const maxInputLength = 1000

// Fixed system instructions per classification kind. The closed valid sets
// are appended at prompt-build time.
const (
	languagePromptPrefix = "You are a text language identifier. " +
		"Your reply must consist of exactly one language ISO2 code, " +
		"without any additional information."

	levelPromptPrefix = "You are a proficiency level identifier. " +
		"Your reply must consist of exactly one CEFR level code, " +
		"without any additional information."

	wordTranslationPrompt = "You are a translator. " +
		"Your reply must be a single JSON object exactly of the form " +
		`{"translated_word": "...", "part_of_speech": "...", "translated_context": "..."} ` +
		"with no additional text. Keep punctuation and capitalization as in the input."
)

// WordTranslation is the fixed-shape result of a word-in-context
// translation.
type WordTranslation struct {
	TranslatedWord    string `json:"translated_word"`
	PartOfSpeech      string `json:"part_of_speech"`
	TranslatedContext string `json:"translated_context"`
}

// generateFunc matches the call surface of the genai Models service.
// Injectable so output validation can be exercised without the live API.
type generateFunc func(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error)

// Classifier performs language identification, CEFR level classification
// and word-in-context translation against the Gemini API.
type Classifier struct {
	logger          *slog.Logger
	generateContent generateFunc
	model           string
	limiter         *rate.Limiter
	retryPolicy     retry.Policy
}

// NewClassifier creates a Classifier with the provided configuration.
// The rate limiter bounds outbound request rate process-wide; the retry
// policy covers transport failures only.
func NewClassifier(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Classifier, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Classifier{
		logger:          logger.With(slog.String("component", "gemini_classifier")),
		generateContent: client.Models.GenerateContent,
		model:           cfg.ModelName,
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		retryPolicy:     retry.Exponential(cfg.MaxRetries+1, time.Duration(cfg.RetryDelaySeconds)*time.Second),
	}, nil
}

// WithRetryPolicy returns a copy of the classifier using the given policy.
func (c *Classifier) WithRetryPolicy(policy retry.Policy) *Classifier {
	clone := *c
	clone.retryPolicy = policy
	return &clone
}

// IdentifyLanguage classifies the language of the given text.
// Returns ErrInvalidClassification if the model output is outside the
// supported language set; that error is not retried, since the same
// prompt would likely reproduce the same invalid output.
func (c *Classifier) IdentifyLanguage(ctx context.Context, text string) (domain.Language, error) {
	if text == "" {
		return "", ErrEmptyInput
	}

	codes := make([]string, 0, len(domain.Languages()))
	for _, lang := range domain.Languages() {
		codes = append(codes, string(lang))
	}

	prompt := fmt.Sprintf("%s Valid codes: %s. Provide the language code of '%s'.",
		languagePromptPrefix, strings.Join(codes, ", "), truncate(text))

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	lang := domain.Language(strings.ToUpper(strings.TrimSpace(raw)))
	if !domain.IsValidLanguage(lang) {
		return "", fmt.Errorf("%w: language code %q", ErrInvalidClassification, raw)
	}

	return lang, nil
}

// IdentifyTextLevel classifies the CEFR level of the given text.
func (c *Classifier) IdentifyTextLevel(ctx context.Context, text string) (domain.Level, error) {
	if text == "" {
		return "", ErrEmptyInput
	}

	prompt := fmt.Sprintf("%s Valid levels: %s. Provide the level of '%s'.",
		levelPromptPrefix, levelCodes(), truncate(text))

	return c.identifyLevel(ctx, prompt)
}

// IdentifyWordLevel classifies the CEFR level of a single word in the
// given language.
func (c *Classifier) IdentifyWordLevel(ctx context.Context, word string, language domain.Language) (domain.Level, error) {
	if word == "" {
		return "", ErrEmptyInput
	}

	prompt := fmt.Sprintf("%s Valid levels: %s. Provide the level of '%s' (in %s).",
		levelPromptPrefix, levelCodes(), truncate(word), language)

	return c.identifyLevel(ctx, prompt)
}

func (c *Classifier) identifyLevel(ctx context.Context, prompt string) (domain.Level, error) {
	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	level := domain.Level(strings.ToUpper(strings.TrimSpace(raw)))
	if !domain.IsValidLevel(level) {
		return "", fmt.Errorf("%w: level code %q", ErrInvalidClassification, raw)
	}

	return level, nil
}

// TranslateWordInContext translates a single word together with its
// surrounding context sentence. Returns ErrInvalidClassification if the
// model output does not match the expected JSON shape.
func (c *Classifier) TranslateWordInContext(
	ctx context.Context,
	word, contextSentence string,
	from, to domain.Language,
) (*WordTranslation, error) {
	if word == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf("%s Translate the word '%s' from %s to %s as it is used in: '%s'.",
		wordTranslationPrompt, truncate(word), from, to, truncate(contextSentence))

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result WordTranslation
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed word translation: %v", ErrInvalidClassification, err)
	}

	if result.TranslatedWord == "" {
		return nil, fmt.Errorf("%w: empty translated_word", ErrInvalidClassification)
	}

	return &result, nil
}

// generate sends the prompt and returns the raw text of the first
// candidate. Only transport failures are retried; response-shape problems
// surface immediately as ErrInvalidResponse.
func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	var text string
	err := retry.Do(ctx, c.retryPolicy, IsTransient, func(ctx context.Context) error {
		resp, err := c.generateContent(ctx, c.model, genai.Text(prompt), nil)
		if err != nil {
			c.logger.Warn("Gemini API call failed", slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", ErrTransientFailure, err)
		}

		extracted, err := extractText(resp)
		if err != nil {
			return err
		}

		text = extracted
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

// extractText pulls the text parts out of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", ErrInvalidResponse)
	}

	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filters", ErrContentBlocked)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("%w: no text parts in response", ErrInvalidResponse)
	}

	return text, nil
}

// truncate bounds input text to maxInputLength runes.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputLength {
		return text
	}
	return string(runes[:maxInputLength])
}

// stripCodeFence removes a surrounding markdown code fence, which the
// model sometimes adds around JSON despite the instruction.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// levelCodes renders the closed CEFR set for prompt building.
func levelCodes() string {
	codes := make([]string, 0, len(domain.Levels()))
	for _, level := range domain.Levels() {
		codes = append(codes, string(level))
	}
	return strings.Join(codes, ", ")
}
