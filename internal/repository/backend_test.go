package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend runs the same repository scenarios against every storage implementation.
// IDs are prefixed so runs against a shared database do not collide.
type backend struct {
	name     string
	prefix   string
	orders   OrderRepository
	capacity CapacityRepository

	addSupplier func(id, tradeName string, productTypes []string)
	addOrder    func(order models.Order)
	addTarget   func(orderId, supplierId string)
	targets     func(orderId string) []models.OrderTarget
}

func (b *backend) id(name string) string { return b.prefix + name }

func memoryBackend() *backend {
	store := NewMemoryStore()
	return &backend{
		name:     "memory",
		prefix:   "",
		orders:   store,
		capacity: store,
		addSupplier: func(id, tradeName string, productTypes []string) {
			store.AddSupplier(id, tradeName, productTypes, nil)
		},
		addOrder:  store.AddOrder,
		addTarget: store.AddTarget,
		targets:   store.Targets,
	}
}

var (
	migrateOnce sync.Once
	migrateErr  error
)

// postgresBackend needs POSTGRES_CONN pointing at a disposable database.
func postgresBackend(t *testing.T) *backend {
	t.Helper()
	conn := os.Getenv("POSTGRES_CONN")
	if conn == "" {
		t.Skip("POSTGRES_CONN not set, skipping postgres repository tests")
	}

	migrateOnce.Do(func() {
		var m *migrate.Migrate
		m, migrateErr = migrate.New("file://../../migrations", conn)
		if migrateErr != nil {
			return
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			migrateErr = err
		}
	})
	if migrateErr != nil {
		t.Fatalf("Failed to run migrations: %v", migrateErr)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	prefix := uuid.NewString()[:8] + "-"
	t.Cleanup(func() {
		like := prefix + "%"
		for _, q := range []string{
			`DELETE FROM order_status_history WHERE order_id LIKE $1`,
			`DELETE FROM order_targets WHERE order_id LIKE $1`,
			`DELETE FROM orders WHERE id LIKE $1`,
			`DELETE FROM supplier_capacity WHERE supplier_id LIKE $1`,
			`DELETE FROM suppliers WHERE id LIKE $1`,
		} {
			if _, err := pool.Exec(ctx, q, like); err != nil {
				t.Errorf("Failed to clean up: %v", err)
			}
		}
		pool.Close()
	})

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := pool.Exec(ctx, query, args...); err != nil {
			t.Fatalf("Failed to seed: %v", err)
		}
	}

	return &backend{
		name:     "postgres",
		prefix:   prefix,
		orders:   NewPostgresOrderRepository(pool),
		capacity: NewPostgresCapacityRepository(pool),
		addSupplier: func(id, tradeName string, productTypes []string) {
			if productTypes == nil {
				productTypes = []string{}
			}
			exec(`INSERT INTO suppliers (id, trade_name, product_types) VALUES ($1, $2, $3)`, id, tradeName, productTypes)
		},
		addOrder: func(o models.Order) {
			exec(`INSERT INTO orders (id, display_id, brand_id, product_name, status, assignment_type, quantity, supplier_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				o.ID, o.DisplayID, "brand-1", o.ProductName, string(o.Status), string(o.AssignmentType), o.Quantity, o.SupplierID)
		},
		addTarget: func(orderId, supplierId string) {
			exec(`INSERT INTO order_targets (order_id, supplier_id, status) VALUES ($1, $2, $3)`, orderId, supplierId, string(models.PendingTarget))
		},
		targets: func(orderId string) []models.OrderTarget {
			rows, err := pool.Query(ctx, `SELECT order_id, supplier_id, status FROM order_targets WHERE order_id = $1 ORDER BY supplier_id`, orderId)
			if err != nil {
				t.Fatalf("Failed to load targets: %v", err)
			}
			defer rows.Close()
			var targets []models.OrderTarget
			for rows.Next() {
				var target models.OrderTarget
				if err := rows.Scan(&target.OrderID, &target.SupplierID, &target.Status); err != nil {
					t.Fatalf("Failed to scan target: %v", err)
				}
				targets = append(targets, target)
			}
			return targets
		},
	}
}

func forEachBackend(t *testing.T, run func(t *testing.T, b *backend)) {
	t.Run("memory", func(t *testing.T) { run(t, memoryBackend()) })
	t.Run("postgres", func(t *testing.T) { run(t, postgresBackend(t)) })
}
