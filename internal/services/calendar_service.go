package services

import (
	"context"
	"errors"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
	"github.com/texlink-oficial/texlink-scheduler/internal/repository"
	"github.com/texlink-oficial/texlink-scheduler/internal/schedule"

	"go.uber.org/zap"
)

const (
	MinCalendarYear = 2020
	MaxCalendarYear = 2100
)

// CalendarService projects in-production orders onto a supplier's month.
type CalendarService struct {
	Capacity        repository.CapacityRepository
	Orders          repository.OrderRepository
	Clock           Clock
	Logger          *zap.Logger
	MinutesPerPiece int
}

// NewCalendarService creates a new CalendarService. minutesPerPiece <= 0 falls back
// to schedule.DefaultMinutesPerPiece.
func NewCalendarService(capacity repository.CapacityRepository, orders repository.OrderRepository, clock Clock, logger *zap.Logger, minutesPerPiece int) *CalendarService {
	if minutesPerPiece <= 0 {
		minutesPerPiece = schedule.DefaultMinutesPerPiece
	}
	return &CalendarService{
		Capacity:        capacity,
		Orders:          orders,
		Clock:           clock,
		Logger:          logger,
		MinutesPerPiece: minutesPerPiece,
	}
}

// GetCalendar returns one ledger per day of the requested month.
func (s *CalendarService) GetCalendar(ctx context.Context, supplierId string, year, month int) ([]models.DayLedger, error) {
	if supplierId == "" {
		return nil, models.NewValidation("supplier is required")
	}
	if year < MinCalendarYear || year > MaxCalendarYear {
		return nil, models.NewValidation("year must be between %d and %d", MinCalendarYear, MaxCalendarYear)
	}
	if month < 1 || month > 12 {
		return nil, models.NewValidation("month must be between 1 and 12")
	}

	profile, err := s.Capacity.GetCapacityProfile(ctx, supplierId)
	if errors.Is(err, repository.ErrNotFound) {
		p := models.DefaultCapacityProfile(supplierId)
		profile = &p
	} else if err != nil {
		return nil, err
	}

	orders, err := s.Orders.GetSupplierOrders(ctx, supplierId, []models.OrderStatus{models.InProduction})
	if err != nil {
		return nil, err
	}

	ledgers := schedule.Project(*profile, orders, year, time.Month(month), s.MinutesPerPiece)

	now := s.Clock.Now()
	if profile.IsConfigured() && now.Year() == year && now.Month() == time.Month(month) {
		occupancy := schedule.OccupancyPercent(ledgers)
		if err := s.Capacity.UpdateOccupancy(ctx, supplierId, occupancy); err != nil {
			s.Logger.Warn("failed to store occupancy",
				zap.String("supplier_id", supplierId),
				zap.Float64("occupancy", occupancy),
				zap.Error(err))
		}
	}
	return ledgers, nil
}
