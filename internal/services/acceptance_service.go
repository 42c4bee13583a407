package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/events"
	"github.com/texlink-oficial/texlink-scheduler/internal/models"
	"github.com/texlink-oficial/texlink-scheduler/internal/repository"
	"github.com/texlink-oficial/texlink-scheduler/internal/schedule"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MinAvgTimePerPiece is the smallest per-piece estimate accepted, in minutes.
var MinAvgTimePerPiece = decimal.RequireFromString("0.1")

const defaultPublishTimeout = 3 * time.Second

// AcceptanceService commits suppliers to orders.
type AcceptanceService struct {
	Orders         repository.OrderRepository
	Capacity       repository.CapacityRepository
	Publisher      events.Publisher
	Clock          Clock
	NewID          IDGenerator
	Logger         *zap.Logger
	PublishTimeout time.Duration
}

// NewAcceptanceService creates a new AcceptanceService.
func NewAcceptanceService(
	orders repository.OrderRepository,
	capacity repository.CapacityRepository,
	publisher events.Publisher,
	clock Clock,
	newID IDGenerator,
	logger *zap.Logger,
) *AcceptanceService {
	return &AcceptanceService{
		Orders:         orders,
		Capacity:       capacity,
		Publisher:      publisher,
		Clock:          clock,
		NewID:          newID,
		Logger:         logger,
		PublishTimeout: defaultPublishTimeout,
	}
}

// ProductionPlan is the window derived for an order before it is committed.
type ProductionPlan struct {
	TotalProductionMinutes int
	DailyCapacityMinutes   int
	ProductionDaysNeeded   int
	PlannedStartDate       time.Time
	PlannedEndDate         time.Time
}

// PlanProduction estimates total minutes and the working-day window for an order.
// An unconfigured profile is treated as one worker on an eight-hour day.
func PlanProduction(profile models.CapacityProfile, quantity int, avgTimePerPiece decimal.Decimal, start time.Time) ProductionPlan {
	total := int(avgTimePerPiece.Mul(decimal.NewFromInt(int64(quantity))).Round(0).IntPart())

	daily := profile.DailyCapacityMinutes()
	if !profile.IsConfigured() || daily <= 0 {
		daily = models.DailyCapacityMinutes(models.FallbackActiveWorkers, decimal.NewFromInt(models.FallbackHoursPerDay))
	}

	days := 0
	if total > 0 {
		days = (total + daily - 1) / daily
	}

	start = schedule.DateOnly(start)
	return ProductionPlan{
		TotalProductionMinutes: total,
		DailyCapacityMinutes:   daily,
		ProductionDaysNeeded:   days,
		PlannedStartDate:       start,
		PlannedEndDate:         schedule.AddWorkingDays(start, days),
	}
}

// AcceptOrder commits supplierId to orderId. Failures are *models.ErrorResponse of kind
// NOT_FOUND, INVALID_STATE, CONFLICT or VALIDATION; nothing is retried here.
func (s *AcceptanceService) AcceptOrder(ctx context.Context, supplierId, userId, orderId string, avgTimePerPiece decimal.Decimal, plannedStartDate time.Time) (*models.Order, error) {
	if supplierId == "" || orderId == "" {
		return nil, models.NewValidation("missing required parameters: supplier or orderId")
	}
	if avgTimePerPiece.LessThan(MinAvgTimePerPiece) {
		return nil, models.NewValidation("avgTimePerPiece must be at least %s minutes", MinAvgTimePerPiece)
	}
	if !models.FitsDecimalPlaces(avgTimePerPiece) {
		return nil, models.NewValidation("avgTimePerPiece must have at most %d decimal places", models.MaxDecimalPlaces)
	}
	if plannedStartDate.IsZero() {
		return nil, models.NewValidation("plannedStartDate is required")
	}

	order, err := s.Orders.GetOrderForSupplier(ctx, orderId, supplierId)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	if !slices.Contains(models.AcceptableStatuses, order.Status) {
		return nil, models.NewInvalidState(order.Status)
	}

	profile, err := s.Capacity.GetCapacityProfile(ctx, supplierId)
	if errors.Is(err, repository.ErrNotFound) {
		p := models.DefaultCapacityProfile(supplierId)
		profile = &p
	} else if err != nil {
		return nil, err
	}

	plan := PlanProduction(*profile, order.Quantity, avgTimePerPiece, plannedStartDate)
	now := s.Clock.Now()

	acceptance := models.Acceptance{
		OrderID:                order.ID,
		ExpectedStatus:         order.Status,
		AssignmentType:         order.AssignmentType,
		SupplierID:             supplierId,
		AcceptedBy:             userId,
		AvgTimePerPiece:        avgTimePerPiece,
		TotalProductionMinutes: plan.TotalProductionMinutes,
		PlannedStartDate:       plan.PlannedStartDate,
		PlannedEndDate:         plan.PlannedEndDate,
		AcceptedAt:             now,
		History: models.OrderStatusHistory{
			ID:             s.NewID(),
			OrderID:        order.ID,
			PreviousStatus: order.Status,
			NewStatus:      models.AcceptedBySupplier,
			ChangedBy:      userId,
			Notes: fmt.Sprintf("Accepted by supplier: %d production minutes, %d min/day capacity, %d working days (%s to %s)",
				plan.TotalProductionMinutes,
				plan.DailyCapacityMinutes,
				plan.ProductionDaysNeeded,
				plan.PlannedStartDate.Format(models.DateLayout),
				plan.PlannedEndDate.Format(models.DateLayout)),
			CreatedAt: now,
		},
	}

	committed, err := s.Orders.CommitAcceptance(ctx, acceptance)
	if errors.Is(err, repository.ErrOrderConflict) {
		return nil, models.NewConflict()
	}
	if err != nil {
		return nil, err
	}

	s.Logger.Info("order accepted",
		zap.String("order_id", committed.ID),
		zap.String("supplier_id", supplierId),
		zap.Int("total_production_minutes", plan.TotalProductionMinutes),
		zap.String("planned_end_date", plan.PlannedEndDate.Format(models.DateLayout)))

	s.publishAccepted(ctx, committed, supplierId, userId, now)
	return committed, nil
}

// publishAccepted is best-effort: the acceptance is already durable.
func (s *AcceptanceService) publishAccepted(ctx context.Context, order *models.Order, supplierId, userId string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.PublishTimeout)
	defer cancel()

	supplierName, err := s.Orders.GetSupplierName(ctx, supplierId)
	if err != nil {
		s.Logger.Warn("failed to resolve supplier name", zap.String("supplier_id", supplierId), zap.Error(err))
	}

	event := events.OrderAccepted{
		Type:         events.OrderAcceptedType,
		OrderID:      order.ID,
		DisplayID:    order.DisplayID,
		BrandID:      order.BrandID,
		SupplierID:   supplierId,
		SupplierName: supplierName,
		AcceptedBy:   userId,
		OccurredAt:   at,
	}
	if err := s.Publisher.PublishOrderAccepted(ctx, event); err != nil {
		s.Logger.Warn("failed to publish order accepted event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

// GetOrderHistory returns the status history of an order visible to the supplier.
func (s *AcceptanceService) GetOrderHistory(ctx context.Context, supplierId, orderId string) ([]models.OrderStatusHistory, error) {
	if supplierId == "" || orderId == "" {
		return nil, models.NewValidation("missing required parameters: supplier or orderId")
	}

	if _, err := s.Orders.GetOrderForSupplier(ctx, orderId, supplierId); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFound("order not found")
		}
		return nil, err
	}

	history, err := s.Orders.GetOrderHistory(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.OrderStatusHistory{}
	}
	return history, nil
}
