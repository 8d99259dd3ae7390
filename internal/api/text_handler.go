package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prapeller/readadvance.backend/internal/api/shared"
	"github.com/prapeller/readadvance.backend/internal/service"
)

// TextHandler handles text-related HTTP requests.
type TextHandler struct {
	textService service.TextService
	validator   *validator.Validate
}

// NewTextHandler creates a new TextHandler.
func NewTextHandler(textService service.TextService) *TextHandler {
	return &TextHandler{
		textService: textService,
		validator:   validator.New(),
	}
}

// CreateText handles POST /texts requests. Language and level
// identification run asynchronously, so the response is 202 Accepted
// with those fields still unset.
func (h *TextHandler) CreateText(w http.ResponseWriter, r *http.Request) {
	var req CreateTextRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	text, err := h.textService.Create(r.Context(), req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create text")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, textToResponse(text))
}

// GetText handles GET /texts/{id} requests.
func (h *TextHandler) GetText(w http.ResponseWriter, r *http.Request) {
	textID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	text, err := h.textService.GetText(r.Context(), textID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get text")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, textToResponse(text))
}

// ListTexts handles GET /texts requests.
func (h *TextHandler) ListTexts(w http.ResponseWriter, r *http.Request) {
	limit, offset := getPaginationParams(r, defaultPageSize)

	texts, err := h.textService.ListTexts(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list texts")
		return
	}

	resp := TextListResponse{
		Texts:  make([]TextResponse, 0, len(texts)),
		Limit:  limit,
		Offset: offset,
	}
	for _, text := range texts {
		resp.Texts = append(resp.Texts, textToResponse(text))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
