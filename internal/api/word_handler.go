package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prapeller/readadvance.backend/internal/api/shared"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/service"
)

const defaultPageSize = 50

// WordHandler handles word-related HTTP requests.
type WordHandler struct {
	wordService service.WordService
	validator   *validator.Validate
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(wordService service.WordService) *WordHandler {
	return &WordHandler{
		wordService: wordService,
		validator:   validator.New(),
	}
}

// CreateWord handles POST /words on the public surface. Creation is
// strict: submitting a word that already exists is a 409 conflict,
// matching the texts endpoint. Enrichment runs in the background.
func (h *WordHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWordRequest(w, r)
	if !ok {
		return
	}

	word, err := h.wordService.Create(
		r.Context(), req.Characters, domain.Language(req.Language))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, wordToResponse(word))
}

// GetOrCreateWord handles POST /words on the internal surface. Sibling
// services submit words idempotently: an existing word comes back with
// 200 OK, a genuinely new one with 201 Created.
func (h *WordHandler) GetOrCreateWord(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeWordRequest(w, r)
	if !ok {
		return
	}

	created, word, err := h.wordService.GetOrCreate(
		r.Context(), req.Characters, domain.Language(req.Language))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create word")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, wordToResponse(word))
}

func (h *WordHandler) decodeWordRequest(w http.ResponseWriter, r *http.Request) (CreateWordRequest, bool) {
	var req CreateWordRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return req, false
	}

	return req, true
}

// GetWord handles GET /words/{id} requests.
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	wordID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	word, err := h.wordService.GetWord(r.Context(), wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, wordToResponse(word))
}

// ListWords handles GET /words requests. The language query parameter
// is required; limit and offset are optional.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	language := domain.Language(r.URL.Query().Get("language"))
	if !domain.IsValidLanguage(language) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing language parameter")
		return
	}

	limit, offset := getPaginationParams(r, defaultPageSize)

	words, err := h.wordService.ListWords(r.Context(), language, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list words")
		return
	}

	resp := WordListResponse{
		Words:  make([]WordResponse, 0, len(words)),
		Limit:  limit,
		Offset: offset,
	}
	for _, word := range words {
		resp.Words = append(resp.Words, wordToResponse(word))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
