package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
	"github.com/texlink-oficial/texlink-scheduler/internal/services"
	"github.com/texlink-oficial/texlink-scheduler/internal/utils"

	"go.uber.org/zap"
)

// OrderHandler serves order acceptance and history.
type OrderHandler struct {
	Service *services.AcceptanceService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.AcceptanceService, logger *zap.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// AcceptOrder handles POST /api/orders/{orderId}/accept.
func (h *OrderHandler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	orderId := r.PathValue("orderId")
	logger := requestLogger(h.Logger, r, id).With(zap.String("order_id", orderId))

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.AcceptOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := utils.ParseDate(req.PlannedStartDate)
	if err != nil {
		utils.WriteError(w, logger, err, "invalid plannedStartDate")
		return
	}

	order, err := h.Service.AcceptOrder(ctx, id.SupplierID, id.UserID, orderId, req.AvgTimePerPiece, startDate)
	if err != nil {
		utils.WriteError(w, logger, err, "failed to accept order")
		return
	}

	utils.SendJSON(w, logger, http.StatusOK, order)
}

// GetOrderHistory handles GET /api/orders/{orderId}/history.
func (h *OrderHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	orderId := r.PathValue("orderId")
	logger := requestLogger(h.Logger, r, id).With(zap.String("order_id", orderId))

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	history, err := h.Service.GetOrderHistory(ctx, id.SupplierID, orderId)
	if err != nil {
		utils.WriteError(w, logger, err, "failed to fetch order history")
		return
	}

	utils.SendJSON(w, logger, http.StatusOK, history)
}
