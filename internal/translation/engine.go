// Package translation composes direct-model translation calls into a
// pivot-chained engine. Every supported language has a direct model to and
// from English, so any pair resolves in at most two hops through the hub.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prapeller/readadvance.backend/internal/domain"
)

// ErrUnsupportedLanguage is returned when either side of a translation
// request is outside the supported language set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Backend performs a single direct-model translation call.
// Implemented by the NLP client.
type Backend interface {
	Translate(ctx context.Context, text string, from, to domain.Language) (string, error)
}

// Request is an immutable translation request.
type Request struct {
	Text       string
	SourceLang domain.Language
	TargetLang domain.Language
}

// Result carries the translated text together with the original pair.
type Result struct {
	Text       string
	SourceLang domain.Language
	TargetLang domain.Language
}

// Engine translates between any two supported languages, chaining through
// the pivot language when neither side of the pair is English.
type Engine struct {
	backend Backend
	logger  *slog.Logger
}

// NewEngine creates a translation engine over the given backend.
func NewEngine(backend Backend, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		backend: backend,
		logger:  logger.With(slog.String("component", "translation_engine")),
	}
}

// Translate resolves the request in at most two backend calls.
//
// Identical source and target is a no-op returning the input unchanged.
// Pairs with the pivot language on either side have a direct model and
// take one call. All remaining pairs hop source->EN then EN->target;
// the chain never grows past one pivot hop because the intermediate
// result is always in the pivot language. A failure on any hop aborts
// the whole translation; no partial output is ever returned.
func (e *Engine) Translate(ctx context.Context, req Request) (Result, error) {
	if !domain.IsValidLanguage(req.SourceLang) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, req.SourceLang)
	}
	if !domain.IsValidLanguage(req.TargetLang) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, req.TargetLang)
	}

	if req.SourceLang == req.TargetLang {
		return Result{Text: req.Text, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
	}

	if req.SourceLang == domain.PivotLanguage || req.TargetLang == domain.PivotLanguage {
		translated, err := e.backend.Translate(ctx, req.Text, req.SourceLang, req.TargetLang)
		if err != nil {
			return Result{}, fmt.Errorf("translation failed at hop %s->%s: %w",
				req.SourceLang, req.TargetLang, err)
		}
		return Result{Text: translated, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
	}

	e.logger.Debug("pivoting translation through hub",
		slog.String("source", string(req.SourceLang)),
		slog.String("target", string(req.TargetLang)))

	intermediate, err := e.backend.Translate(ctx, req.Text, req.SourceLang, domain.PivotLanguage)
	if err != nil {
		return Result{}, fmt.Errorf("translation failed at hop %s->%s: %w",
			req.SourceLang, domain.PivotLanguage, err)
	}

	translated, err := e.backend.Translate(ctx, intermediate, domain.PivotLanguage, req.TargetLang)
	if err != nil {
		return Result{}, fmt.Errorf("translation failed at hop %s->%s: %w",
			domain.PivotLanguage, req.TargetLang, err)
	}

	return Result{Text: translated, SourceLang: req.SourceLang, TargetLang: req.TargetLang}, nil
}
