package balance

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lmezg/triptab/pkg/response"
)

// Handler handles HTTP requests for balance queries
type Handler struct {
	aggregator Aggregator
}

// NewHandler creates a new balance handler
func NewHandler(aggregator Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/trips/{tripId}", h.GetTripBalances)

	return r
}

// GetTripBalances handles GET /balances/trips/{tripId}
// @Summary      Get net balances for a trip
// @Description  Net signed balance per trip member across all expenses and completed settlements
// @Tags         balances
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]UserBalance}
// @Failure      400 {object} response.APIResponse
// @Router       /balances/trips/{tripId} [get]
func (h *Handler) GetTripBalances(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	balances, err := h.aggregator.TripBalances(r.Context(), tripID)
	if err != nil {
		response.InternalError(w, "Failed to compute balances")
		return
	}

	if balances == nil {
		balances = []UserBalance{}
	}

	response.JSON(w, http.StatusOK, balances)
}
