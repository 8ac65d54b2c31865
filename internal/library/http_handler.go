package library

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"estante/internal/httpx"
	"estante/internal/search"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type addReq struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	Cover         string   `json:"cover"`
	Description   string   `json:"description"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	PageCount     int      `json:"page_count" validate:"min=0"`
	Categories    []string `json:"categories"`
	ISBN          string   `json:"isbn" validate:"omitempty,isbn_shape"`
	Source        string   `json:"source"`
	Status        string   `json:"status"`
}

// Add handles POST /library: copies a selected search result into the
// caller's shelf.
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req addReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid fields", details)
		return
	}

	book := search.Book{
		Title:         req.Title,
		Author:        req.Author,
		Cover:         req.Cover,
		Description:   req.Description,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Categories:    req.Categories,
		ISBN:          req.ISBN,
		Source:        search.Source(req.Source),
	}

	item, err := h.service.Add(r.Context(), userID, book, strings.ToUpper(req.Status))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, item)
}

// List handles GET /library?status=...&limit=...&offset=...
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	status := strings.ToUpper(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, total, err := h.service.List(r.Context(), userID, status, limit, offset)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if items == nil {
		items = []Item{}
	}

	httpx.JSONSuccess(w, r, items, map[string]interface{}{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type progressReq struct {
	CurrentPage int `json:"current_page" validate:"min=0"`
	PageCount   int `json:"page_count" validate:"min=0"`
}

// UpdateProgress handles PATCH /library/{id}/progress.
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id := r.PathValue("id")

	var req progressReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	item, err := h.service.UpdateProgress(r.Context(), userID, id, req.CurrentPage, req.PageCount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /library/{id}/status.
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id := r.PathValue("id")

	var req statusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	item, err := h.service.SetStatus(r.Context(), userID, id, strings.ToUpper(req.Status))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

type ratingReq struct {
	Rating int `json:"rating" validate:"min=0,max=5"`
}

// UpdateRating handles PATCH /library/{id}/rating.
func (h *HTTPHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id := r.PathValue("id")

	var req ratingReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	item, err := h.service.SetRating(r.Context(), userID, id, req.Rating)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

type reviewReq struct {
	Review string `json:"review" validate:"max=10000"`
}

// UpdateReview handles PATCH /library/{id}/review.
func (h *HTTPHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id := r.PathValue("id")

	var req reviewReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	item, err := h.service.SetReview(r.Context(), userID, id, req.Review)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, item, nil)
}

// Remove handles DELETE /library/{id}.
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	id := r.PathValue("id")

	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Library item not found", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}
