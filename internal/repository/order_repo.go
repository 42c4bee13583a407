package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// OrderRepository - interface for the scheduling slice of orders.
type OrderRepository interface {
	GetOrderForSupplier(ctx context.Context, orderId, supplierId string) (*models.Order, error)
	GetSupplierOrders(ctx context.Context, supplierId string, statuses []models.OrderStatus) ([]models.Order, error)
	GetSupplierName(ctx context.Context, supplierId string) (string, error)
	GetOrderHistory(ctx context.Context, orderId string) ([]models.OrderStatusHistory, error)
	CommitAcceptance(ctx context.Context, acceptance models.Acceptance) (*models.Order, error)
}

const orderColumns = `o.id, o.display_id, o.brand_id, o.product_name, o.status, o.assignment_type, o.quantity,
	o.avg_time_per_piece, o.total_production_minutes, o.planned_start_date, o.planned_end_date,
	o.supplier_id, o.accepted_at, o.accepted_by`

// PostgresOrderRepository - OrderRepository backed by Postgres.
type PostgresOrderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository.
func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.DisplayID,
		&order.BrandID,
		&order.ProductName,
		&order.Status,
		&order.AssignmentType,
		&order.Quantity,
		&order.AvgTimePerPiece,
		&order.TotalProductionMinutes,
		&order.PlannedStartDate,
		&order.PlannedEndDate,
		&order.SupplierID,
		&order.AcceptedAt,
		&order.AcceptedBy,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForSupplier returns the order if the supplier may see it: already assigned to
// them, unassigned with them as a non-rejected bidding target, or open to everyone.
func (r *PostgresOrderRepository) GetOrderForSupplier(ctx context.Context, orderId, supplierId string) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.id = $1
		AND (
			o.supplier_id = $2
			OR (o.supplier_id IS NULL AND EXISTS (
				SELECT 1 FROM order_targets ot
				WHERE ot.order_id = o.id AND ot.supplier_id = $2 AND ot.status <> $3))
			OR o.status = $4
		)`
	order, err := scanOrder(r.DB.QueryRow(ctx, query, orderId, supplierId, models.RejectedTarget, models.AvailableToOthers))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

// GetSupplierOrders returns the supplier's orders in any of the given statuses.
func (r *PostgresOrderRepository) GetSupplierOrders(ctx context.Context, supplierId string, statuses []models.OrderStatus) ([]models.Order, error) {
	statusNames := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusNames = append(statusNames, string(s))
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.supplier_id = $1 AND o.status = ANY($2)
		ORDER BY o.planned_start_date NULLS LAST, o.display_id`
	rows, err := r.DB.Query(ctx, query, supplierId, pq.Array(statusNames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// GetSupplierName returns the supplier's trade name.
func (r *PostgresOrderRepository) GetSupplierName(ctx context.Context, supplierId string) (string, error) {
	var name string
	query := `SELECT trade_name FROM suppliers WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, supplierId).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

// GetOrderHistory returns the audit trail of an order, oldest first.
func (r *PostgresOrderRepository) GetOrderHistory(ctx context.Context, orderId string) ([]models.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, previous_status, new_status, changed_by, notes, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at, id`
	rows, err := r.DB.Query(ctx, query, orderId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var h models.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.PreviousStatus, &h.NewStatus, &h.ChangedBy, &h.Notes, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// CommitAcceptance moves the order to ACCEPTED_BY_SUPPLIER in one serializable
// transaction. The update only matches while the order still has the status observed
// at read time; zero matched rows aborts with ErrOrderConflict.
func (r *PostgresOrderRepository) CommitAcceptance(ctx context.Context, acc models.Acceptance) (*models.Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE orders
		SET status = $1, supplier_id = $2, avg_time_per_piece = $3, total_production_minutes = $4,
		    planned_start_date = $5, planned_end_date = $6, accepted_at = $7, accepted_by = $8, updated_at = $7
		WHERE id = $9 AND status = $10`
	tag, err := tx.Exec(
		ctx,
		updateQuery,
		models.AcceptedBySupplier,
		acc.SupplierID,
		acc.AvgTimePerPiece,
		acc.TotalProductionMinutes,
		acc.PlannedStartDate,
		acc.PlannedEndDate,
		acc.AcceptedAt,
		acc.AcceptedBy,
		acc.OrderID,
		acc.ExpectedStatus)
	if err != nil {
		return nil, translateTxError(err, "failed to update order")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrOrderConflict
	}

	historyInsertQuery := `
		INSERT INTO order_status_history (id, order_id, previous_status, new_status, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.Exec(
		ctx,
		historyInsertQuery,
		acc.History.ID,
		acc.History.OrderID,
		acc.History.PreviousStatus,
		acc.History.NewStatus,
		acc.History.ChangedBy,
		acc.History.Notes,
		acc.History.CreatedAt)
	if err != nil {
		return nil, translateTxError(err, "failed to append order history")
	}

	if acc.AssignmentType == models.BiddingAssignment {
		acceptTargetQuery := `
			INSERT INTO order_targets (order_id, supplier_id, status, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_id, supplier_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
		if _, err = tx.Exec(ctx, acceptTargetQuery, acc.OrderID, acc.SupplierID, models.AcceptedTarget, acc.AcceptedAt); err != nil {
			return nil, translateTxError(err, "failed to accept bidding target")
		}

		rejectTargetsQuery := `
			UPDATE order_targets SET status = $1, updated_at = $2
			WHERE order_id = $3 AND supplier_id <> $4`
		if _, err = tx.Exec(ctx, rejectTargetsQuery, models.RejectedTarget, acc.AcceptedAt, acc.OrderID, acc.SupplierID); err != nil {
			return nil, translateTxError(err, "failed to reject competing targets")
		}
	}

	order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, acc.OrderID))
	if err != nil {
		return nil, translateTxError(err, "failed to reload order")
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, translateTxError(err, "failed to commit acceptance")
	}
	return order, nil
}

func translateTxError(err error, msg string) error {
	if isSerializationError(err) {
		return ErrOrderConflict
	}
	return fmt.Errorf("%s: %w", msg, err)
}
