package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/events"
	"github.com/texlink-oficial/texlink-scheduler/internal/models"
	"github.com/texlink-oficial/texlink-scheduler/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func sequentialIDs() IDGenerator {
	var n int64
	return func() string {
		return fmt.Sprintf("id-%d", atomic.AddInt64(&n, 1))
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

var testNow = time.Date(2025, 1, 3, 14, 30, 0, 0, time.UTC)

func newTestStore() *repository.MemoryStore {
	store := repository.NewMemoryStore()
	store.AddSupplier("sup-a", "Confecções Alfa", []string{"jeans"}, []string{"denim"})
	store.AddSupplier("sup-b", "Malharia Beta", nil, nil)
	store.AddSupplier("sup-c", "Costura Gama", nil, nil)
	store.AddSupplier("sup-d", "Facção Delta", nil, nil)
	return store
}

func configure(store *repository.MemoryStore, supplierId string, workers int, hours int64) {
	p := models.CapacityProfile{SupplierID: supplierId, ActiveWorkers: workers, HoursPerDay: decimal.NewFromInt(hours)}
	p.Recompute()
	if _, err := store.UpsertCapacityProfile(context.Background(), p); err != nil {
		panic(err)
	}
}

func newAcceptanceService(orders repository.OrderRepository, capacity repository.CapacityRepository, publisher events.Publisher, logger *zap.Logger) *AcceptanceService {
	return NewAcceptanceService(orders, capacity, publisher, fixedClock{testNow}, sequentialIDs(), logger)
}
