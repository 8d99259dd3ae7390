package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prapeller/readadvance.backend/internal/api/shared"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/service"
)

// TranslationHandler handles translation HTTP requests.
type TranslationHandler struct {
	translationService service.TranslationService
	validator          *validator.Validate
}

// NewTranslationHandler creates a new TranslationHandler.
func NewTranslationHandler(translationService service.TranslationService) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
		validator:          validator.New(),
	}
}

// TranslateText handles POST /translations/text requests.
func (h *TranslationHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	var req TranslateTextRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	translated, err := h.translationService.TranslateText(
		r.Context(), req.Text,
		domain.Language(req.FromLanguage), domain.Language(req.ToLanguage))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to translate text")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TranslateTextResponse{
		TranslatedText: translated,
		FromLanguage:   req.FromLanguage,
		ToLanguage:     req.ToLanguage,
	})
}

// TranslateWord handles POST /translations/word requests. The translator
// field selects the backend; it defaults to the translation model when
// empty.
func (h *TranslationHandler) TranslateWord(w http.ResponseWriter, r *http.Request) {
	var req TranslateWordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.translationService.TranslateWordInContext(
		r.Context(), req.Translator, req.Word, req.Context,
		domain.Language(req.FromLanguage), domain.Language(req.ToLanguage))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to translate word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TranslateWordResponse{
		TranslatedWord:    result.TranslatedWord,
		PartOfSpeech:      result.PartOfSpeech,
		TranslatedContext: result.TranslatedContext,
	})
}
