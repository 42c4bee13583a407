package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CapacityRepository - interface for supplier capacity profiles.
type CapacityRepository interface {
	GetCapacityProfile(ctx context.Context, supplierId string) (*models.CapacityProfile, error)
	UpsertCapacityProfile(ctx context.Context, profile models.CapacityProfile) (*models.CapacityProfile, error)
	UpdateOccupancy(ctx context.Context, supplierId string, percent float64) error
}

// PostgresCapacityRepository - CapacityRepository backed by Postgres.
type PostgresCapacityRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresCapacityRepository creates a new PostgresCapacityRepository.
func NewPostgresCapacityRepository(db *pgxpool.Pool) *PostgresCapacityRepository {
	return &PostgresCapacityRepository{DB: db}
}

// GetCapacityProfile returns the supplier's profile. A supplier without a capacity
// row gets zero workforce; an unknown supplier yields ErrNotFound.
func (r *PostgresCapacityRepository) GetCapacityProfile(ctx context.Context, supplierId string) (*models.CapacityProfile, error) {
	query := `
		SELECT s.id,
		       COALESCE(c.active_workers, 0),
		       COALESCE(c.hours_per_day, 0),
		       COALESCE(c.monthly_capacity_minutes, 0),
		       COALESCE(c.current_occupancy_percent, 0),
		       s.product_types,
		       s.specialties,
		       COALESCE(c.updated_at, s.created_at)
		FROM suppliers s
		LEFT JOIN supplier_capacity c ON c.supplier_id = s.id
		WHERE s.id = $1`

	var profile models.CapacityProfile
	err := r.DB.QueryRow(ctx, query, supplierId).Scan(
		&profile.SupplierID,
		&profile.ActiveWorkers,
		&profile.HoursPerDay,
		&profile.MonthlyCapacityMinutes,
		&profile.CurrentOccupancyPercent,
		&profile.ProductTypes,
		&profile.Specialties,
		&profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load capacity profile: %w", err)
	}
	if profile.ProductTypes == nil {
		profile.ProductTypes = []string{}
	}
	if profile.Specialties == nil {
		profile.Specialties = []string{}
	}
	return &profile, nil
}

// UpsertCapacityProfile creates the profile on first write and overwrites it afterwards.
func (r *PostgresCapacityRepository) UpsertCapacityProfile(ctx context.Context, profile models.CapacityProfile) (*models.CapacityProfile, error) {
	upsertQuery := `
		INSERT INTO supplier_capacity (supplier_id, active_workers, hours_per_day, monthly_capacity_minutes, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supplier_id) DO UPDATE
		SET active_workers = EXCLUDED.active_workers,
		    hours_per_day = EXCLUDED.hours_per_day,
		    monthly_capacity_minutes = EXCLUDED.monthly_capacity_minutes,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.DB.Exec(
		ctx,
		upsertQuery,
		profile.SupplierID,
		profile.ActiveWorkers,
		profile.HoursPerDay,
		profile.MonthlyCapacityMinutes,
		profile.UpdatedAt)
	if isForeignKeyViolation(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert capacity profile: %w", err)
	}
	return r.GetCapacityProfile(ctx, profile.SupplierID)
}

// UpdateOccupancy stores the informational occupancy gauge.
func (r *PostgresCapacityRepository) UpdateOccupancy(ctx context.Context, supplierId string, percent float64) error {
	updateQuery := `UPDATE supplier_capacity SET current_occupancy_percent = $1 WHERE supplier_id = $2`
	_, err := r.DB.Exec(ctx, updateQuery, percent, supplierId)
	return err
}
