package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lmezg/triptab/pkg/middleware"
	"github.com/lmezg/triptab/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/complete", h.Complete)
	r.Patch("/{id}/method", h.UpdateMethod)
	r.Delete("/{id}", h.Delete)

	// Trip-scoped operations
	r.Get("/trips/{tripId}", h.ListByTrip)
	r.Post("/trips/{tripId}/proposals", h.Propose)

	return r
}

// Create handles POST /settlements
// @Summary      Record a manual settlement
// @Description  Record a payment from the authenticated user to another trip member
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement creation request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.CreateSettlement(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrCannotSettleSelf) || errors.Is(err, ErrInvalidAmount) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create settlement")
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// Propose handles POST /settlements/trips/{tripId}/proposals
// @Summary      Propose settlements for a trip
// @Description  Run debt simplification over the trip's net balances and persist the minimal transfer set as pending settlements
// @Tags         settlements
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      201 {object} response.APIResponse{data=ProposalResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/trips/{tripId}/proposals [post]
func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	proposal, err := h.service.ProposeSettlements(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrAlreadySettled) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to propose settlements")
		return
	}

	response.JSON(w, http.StatusCreated, proposal)
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSettlementNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// ListMine handles GET /settlements
// @Summary      List the authenticated user's settlements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	settlements, total, err := h.service.ListByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	h.writeList(w, settlements, page, perPage, total)
}

// ListByTrip handles GET /settlements/trips/{tripId}
// @Summary      List settlements by trip
// @Tags         settlements
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/trips/{tripId} [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	settlements, total, err := h.service.ListByTripID(r.Context(), tripID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	h.writeList(w, settlements, page, perPage, total)
}

// Complete handles POST /settlements/{id}/complete
// @Summary      Mark a settlement as completed
// @Description  Either party confirms the money moved; the settlement starts counting toward balances
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/{id}/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.MarkCompleted(r.Context(), id, userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// UpdateMethod handles PATCH /settlements/{id}/method
// @Summary      Change the payment method of a pending settlement
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Param        request body UpdateMethodRequest true "Method update request"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Router       /settlements/{id}/method [patch]
func (h *Handler) UpdateMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	var req UpdateMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.UpdateMethod(r.Context(), id, userID, req.Method)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Delete handles DELETE /settlements/{id}
// @Summary      Cancel a pending settlement
// @Tags         settlements
// @Param        id path int true "Settlement ID"
// @Success      204 "No Content"
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeList(w http.ResponseWriter, settlements []*Settlement, page, perPage, total int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	resp := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		resp[i] = s.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSettlementNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Settlement operation failed")
	}
}
