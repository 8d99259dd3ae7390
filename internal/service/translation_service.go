package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/platform/gemini"
	"github.com/prapeller/readadvance.backend/internal/translation"
)

// Translator selectors accepted by the word-in-context endpoint. The
// model backend translates word and context independently; the LLM
// backend translates the word as used in the context.
const (
	TranslatorModel = "model"
	TranslatorLLM   = "llm"
)

// TextTranslator performs whole-text translation between two languages.
// Implemented by the translation engine.
type TextTranslator interface {
	Translate(ctx context.Context, req translation.Request) (translation.Result, error)
}

// WordContextTranslator translates a word as it is used in a context
// sentence. Implemented by the Gemini classifier.
type WordContextTranslator interface {
	TranslateWordInContext(
		ctx context.Context,
		word, contextSentence string,
		from, to domain.Language,
	) (*gemini.WordTranslation, error)
}

// WordContextTranslation is the result of a word-in-context translation.
type WordContextTranslation struct {
	TranslatedWord    string `json:"translated_word"`
	PartOfSpeech      string `json:"part_of_speech,omitempty"`
	TranslatedContext string `json:"translated_context"`
}

// TranslationService provides the public translation operations.
type TranslationService interface {
	// TranslateText translates whole text between two supported languages
	TranslateText(ctx context.Context, text string, from, to domain.Language) (string, error)

	// TranslateWordInContext translates a single word together with its
	// context sentence using the selected translator backend
	TranslateWordInContext(
		ctx context.Context,
		translator, word, contextSentence string,
		from, to domain.Language,
	) (*WordContextTranslation, error)
}

// translationServiceImpl implements the TranslationService interface
type translationServiceImpl struct {
	engine  TextTranslator
	wordCtx WordContextTranslator
	logger  *slog.Logger
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(
	engine TextTranslator,
	wordCtx WordContextTranslator,
	logger *slog.Logger,
) (TranslationService, error) {
	if engine == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "engine cannot be nil"}
	}
	if wordCtx == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "wordCtx cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &translationServiceImpl{
		engine:  engine,
		wordCtx: wordCtx,
		logger:  logger.With("component", "translation_service"),
	}, nil
}

// TranslateText translates whole text between two supported languages.
func (s *translationServiceImpl) TranslateText(
	ctx context.Context,
	text string,
	from, to domain.Language,
) (string, error) {
	result, err := s.engine.Translate(ctx, translation.Request{
		Text:       text,
		SourceLang: from,
		TargetLang: to,
	})
	if err != nil {
		return "", NewServiceError("translate_text", "translation failed", err)
	}
	return result.Text, nil
}

// TranslateWordInContext dispatches to the selected translator backend.
func (s *translationServiceImpl) TranslateWordInContext(
	ctx context.Context,
	translator, word, contextSentence string,
	from, to domain.Language,
) (*WordContextTranslation, error) {
	switch translator {
	case TranslatorLLM:
		return s.translateWordWithLLM(ctx, word, contextSentence, from, to)
	case TranslatorModel, "":
		return s.translateWordWithModel(ctx, word, contextSentence, from, to)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTranslator, translator)
	}
}

// translateWordWithLLM translates the word as used in its context in a
// single structured call.
func (s *translationServiceImpl) translateWordWithLLM(
	ctx context.Context,
	word, contextSentence string,
	from, to domain.Language,
) (*WordContextTranslation, error) {
	result, err := s.wordCtx.TranslateWordInContext(ctx, word, contextSentence, from, to)
	if err != nil {
		return nil, NewServiceError(
			"translate_word_in_context", "word-in-context translation failed", err)
	}

	return &WordContextTranslation{
		TranslatedWord:    result.TranslatedWord,
		PartOfSpeech:      result.PartOfSpeech,
		TranslatedContext: result.TranslatedContext,
	}, nil
}

// translateWordWithModel translates the word and its context as two
// independent model calls. The word translation loses contextual
// disambiguation but needs no LLM.
func (s *translationServiceImpl) translateWordWithModel(
	ctx context.Context,
	word, contextSentence string,
	from, to domain.Language,
) (*WordContextTranslation, error) {
	wordResult, err := s.engine.Translate(ctx, translation.Request{
		Text:       word,
		SourceLang: from,
		TargetLang: to,
	})
	if err != nil {
		return nil, NewServiceError(
			"translate_word_in_context", "word translation failed", err)
	}

	out := &WordContextTranslation{
		TranslatedWord: wordResult.Text,
	}

	if contextSentence != "" {
		contextResult, err := s.engine.Translate(ctx, translation.Request{
			Text:       contextSentence,
			SourceLang: from,
			TargetLang: to,
		})
		if err != nil {
			return nil, NewServiceError(
				"translate_word_in_context", "context translation failed", err)
		}
		out.TranslatedContext = contextResult.Text
	}

	return out, nil
}
