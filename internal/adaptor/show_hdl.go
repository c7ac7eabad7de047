package adaptor

import (
	"encoding/json"
	"net/http"

	"quickshow/internal/dto/request"
	"quickshow/internal/usecase"
	"quickshow/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowHandler struct {
	service usecase.ShowService
	log     *zap.Logger
}

func NewShowHandler(service usecase.ShowService, log *zap.Logger) *ShowHandler {
	return &ShowHandler{
		service: service,
		log:     log.With(zap.String("handler", "show")),
	}
}

// ListShows handles GET /api/shows (public)
func (h *ShowHandler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.service.ListShows(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list shows")
		return
	}

	utils.ResponseSuccess(w, "success", shows)
}

// GetShow handles GET /api/shows/{id} (public)
func (h *ShowHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "id")
	if showID == "" {
		utils.ResponseBadRequest(w, "Show ID is required", nil)
		return
	}

	show, err := h.service.GetShow(r.Context(), showID)
	if err != nil {
		handleServiceError(w, h.log, err, "get show")
		return
	}

	utils.ResponseSuccess(w, "success", show)
}

// ==================== ADMIN METHODS ====================

// AddShows handles POST /api/admin/shows (admin only)
func (h *ShowHandler) AddShows(w http.ResponseWriter, r *http.Request) {
	var req request.AddShowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	shows, err := h.service.AddShows(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add shows")
		return
	}

	utils.ResponseCreated(w, "success", shows)
}

// DeleteShow handles DELETE /api/admin/shows/{id} (admin only)
func (h *ShowHandler) DeleteShow(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "id")
	if showID == "" {
		utils.ResponseBadRequest(w, "Show ID is required", nil)
		return
	}

	if err := h.service.DeleteShow(r.Context(), showID); err != nil {
		handleServiceError(w, h.log, err, "delete show")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
