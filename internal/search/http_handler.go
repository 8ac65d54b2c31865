package search

import (
	"net/http"
	"strings"

	"estante/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /search?q=...&mode=general|author&all_languages=true.
// A blank query is not an error; it returns an empty result set.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	mode := r.URL.Query().Get("mode")
	opts := Options{
		AllLanguages: r.URL.Query().Get("all_languages") == "true",
	}

	if strings.TrimSpace(query) == "" {
		httpx.JSONSuccess(w, r, []Book{}, map[string]interface{}{"total": 0})
		return
	}

	var books []Book
	switch mode {
	case "author":
		books = h.service.SearchByAuthor(r.Context(), query, opts)
	case "", "general":
		books = h.service.SearchGeneral(r.Context(), query, opts)
	default:
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "mode must be 'general' or 'author'", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{
		"total": len(books),
		"query": query,
	})
}
