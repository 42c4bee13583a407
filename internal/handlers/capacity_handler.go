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

// CapacityHandler serves the supplier's capacity configuration and calendar.
type CapacityHandler struct {
	Service  *services.CapacityService
	Calendar *services.CalendarService
	Clock    services.Clock
	Logger   *zap.Logger
	Timeout  time.Duration
}

// NewCapacityHandler creates a new CapacityHandler.
func NewCapacityHandler(service *services.CapacityService, calendar *services.CalendarService, clock services.Clock, logger *zap.Logger, timeout time.Duration) *CapacityHandler {
	return &CapacityHandler{
		Service:  service,
		Calendar: calendar,
		Clock:    clock,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// GetCapacity handles GET /api/capacity.
func (h *CapacityHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	logger := requestLogger(h.Logger, r, id)

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	profile, err := h.Service.GetCapacityConfig(ctx, id.SupplierID)
	if err != nil {
		utils.WriteError(w, logger, err, "failed to fetch capacity")
		return
	}

	utils.SendJSON(w, logger, http.StatusOK, profile)
}

// UpdateCapacity handles PUT /api/capacity.
func (h *CapacityHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	logger := requestLogger(h.Logger, r, id)

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.CapacityConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.SetCapacityConfig(ctx, id.SupplierID, req)
	if err != nil {
		utils.WriteError(w, logger, err, "failed to update capacity")
		return
	}

	logger.Info("capacity updated",
		zap.Int("active_workers", profile.ActiveWorkers),
		zap.Int("monthly_capacity_minutes", profile.MonthlyCapacityMinutes))
	utils.SendJSON(w, logger, http.StatusOK, profile)
}

// GetCalendar handles GET /api/capacity/calendar?year=&month=. Missing values mean the current month.
func (h *CapacityHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	logger := requestLogger(h.Logger, r, id)

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	year, month, err := utils.ParseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"), h.Clock.Now())
	if err != nil {
		utils.WriteError(w, logger, err, "invalid calendar parameters")
		return
	}

	ledgers, err := h.Calendar.GetCalendar(ctx, id.SupplierID, year, month)
	if err != nil {
		utils.WriteError(w, logger, err, "failed to build calendar")
		return
	}

	utils.SendJSON(w, logger, http.StatusOK, ledgers)
}
