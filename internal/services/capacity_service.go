package services

import (
	"context"
	"errors"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
	"github.com/texlink-oficial/texlink-scheduler/internal/repository"

	"github.com/shopspring/decimal"
)

var maxHoursPerDay = decimal.NewFromInt(models.MaxHoursPerDay)

type CapacityService struct {
	Repo  repository.CapacityRepository
	Clock Clock
}

// NewCapacityService creates a new CapacityService.
func NewCapacityService(repo repository.CapacityRepository, clock Clock) *CapacityService {
	return &CapacityService{Repo: repo, Clock: clock}
}

// GetCapacityConfig returns the supplier's capacity. A supplier that never configured
// capacity gets the default profile with zero workforce.
func (s *CapacityService) GetCapacityConfig(ctx context.Context, supplierId string) (*models.CapacityProfile, error) {
	if supplierId == "" {
		return nil, models.NewValidation("supplier is required")
	}

	profile, err := s.Repo.GetCapacityProfile(ctx, supplierId)
	if errors.Is(err, repository.ErrNotFound) {
		p := models.DefaultCapacityProfile(supplierId)
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SetCapacityConfig validates the workforce, recomputes monthly capacity and saves it.
func (s *CapacityService) SetCapacityConfig(ctx context.Context, supplierId string, req models.CapacityConfigRequest) (*models.CapacityProfile, error) {
	if supplierId == "" {
		return nil, models.NewValidation("supplier is required")
	}
	if req.ActiveWorkers < models.MinActiveWorkers || req.ActiveWorkers > models.MaxActiveWorkers {
		return nil, models.NewValidation("activeWorkers must be between %d and %d", models.MinActiveWorkers, models.MaxActiveWorkers)
	}
	if !req.HoursPerDay.IsPositive() || req.HoursPerDay.GreaterThan(maxHoursPerDay) {
		return nil, models.NewValidation("hoursPerDay must be greater than 0 and at most %d", models.MaxHoursPerDay)
	}
	if !models.FitsDecimalPlaces(req.HoursPerDay) {
		return nil, models.NewValidation("hoursPerDay must have at most %d decimal places", models.MaxDecimalPlaces)
	}

	profile := models.CapacityProfile{
		SupplierID:    supplierId,
		ActiveWorkers: req.ActiveWorkers,
		HoursPerDay:   req.HoursPerDay,
		UpdatedAt:     s.Clock.Now(),
	}
	profile.Recompute()

	saved, err := s.Repo.UpsertCapacityProfile(ctx, profile)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFound("supplier not found")
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}
