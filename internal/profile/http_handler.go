package profile

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"estante/internal/httpx"
	"estante/internal/library"
	"estante/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Own handles GET /me/profile.
func (h *HTTPHandler) Own(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	p, err := h.service.GetOwnProfile(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Profile lookup failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, p, nil)
}

// Public handles GET /users/{username}.
func (h *HTTPHandler) Public(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	p, err := h.service.GetPublicProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Profile lookup failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, p, nil)
}

// PublicLibrary handles GET /users/{username}/library.
func (h *HTTPHandler) PublicLibrary(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	status := strings.ToUpper(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, total, err := h.service.GetPublicLibrary(r.Context(), username, status, limit, offset)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if items == nil {
		items = []library.Item{}
	}

	httpx.JSONSuccess(w, r, items, map[string]interface{}{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
