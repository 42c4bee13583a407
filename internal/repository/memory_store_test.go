package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
)

func strPtr(s string) *string { return &s }

func seededStore() *MemoryStore {
	store := NewMemoryStore()
	store.AddSupplier("sup-a", "Confecções A", []string{"jeans"}, []string{"denim"})
	store.AddSupplier("sup-b", "Malharia B", nil, nil)
	store.AddOrder(models.Order{ID: "direct", Status: models.LaunchedByBrand, AssignmentType: models.DirectAssignment, SupplierID: strPtr("sup-a"), Quantity: 10})
	store.AddOrder(models.Order{ID: "bidding", Status: models.LaunchedByBrand, AssignmentType: models.BiddingAssignment, Quantity: 10})
	store.AddOrder(models.Order{ID: "open", Status: models.AvailableToOthers, AssignmentType: models.BiddingAssignment, Quantity: 10})
	store.AddTarget("bidding", "sup-a")
	return store
}

func TestMemoryStore_GetOrderForSupplier(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	testCases := []struct {
		orderId    string
		supplierId string
		visible    bool
	}{
		{"direct", "sup-a", true},
		{"direct", "sup-b", false},
		{"bidding", "sup-a", true},
		{"bidding", "sup-b", false},
		{"open", "sup-b", true},
		{"missing", "sup-a", false},
	}

	for _, tc := range testCases {
		_, err := store.GetOrderForSupplier(ctx, tc.orderId, tc.supplierId)
		if tc.visible && err != nil {
			t.Errorf("%s/%s: expected visible, got %v", tc.orderId, tc.supplierId, err)
		}
		if !tc.visible && !errors.Is(err, ErrNotFound) {
			t.Errorf("%s/%s: expected ErrNotFound, got %v", tc.orderId, tc.supplierId, err)
		}
	}
}

func TestMemoryStore_CommitAcceptance_CompareAndSwap(t *testing.T) {
	store := seededStore()
	store.AddTarget("bidding", "sup-b")
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

	acc := models.Acceptance{
		OrderID:                "bidding",
		ExpectedStatus:         models.LaunchedByBrand,
		AssignmentType:         models.BiddingAssignment,
		SupplierID:             "sup-a",
		AcceptedBy:             "user-1",
		AvgTimePerPiece:        decimal.NewFromInt(2),
		TotalProductionMinutes: 20,
		PlannedStartDate:       now,
		PlannedEndDate:         now.AddDate(0, 0, 1),
		AcceptedAt:             now,
		History:                models.OrderStatusHistory{ID: "h-1", OrderID: "bidding", NewStatus: models.AcceptedBySupplier},
	}

	order, err := store.CommitAcceptance(ctx, acc)
	if err != nil {
		t.Fatalf("Failed to commit acceptance: %v", err)
	}
	if order.Status != models.AcceptedBySupplier || *order.SupplierID != "sup-a" {
		t.Errorf("Expected accepted by sup-a, got %s / %v", order.Status, order.SupplierID)
	}

	acc.SupplierID = "sup-b"
	if _, err := store.CommitAcceptance(ctx, acc); !errors.Is(err, ErrOrderConflict) {
		t.Errorf("Expected ErrOrderConflict on stale status, got %v", err)
	}

	for _, target := range store.Targets("bidding") {
		switch target.SupplierID {
		case "sup-a":
			if target.Status != models.AcceptedTarget {
				t.Errorf("Expected sup-a ACCEPTED, got %s", target.Status)
			}
		default:
			if target.Status != models.RejectedTarget {
				t.Errorf("Expected %s REJECTED, got %s", target.SupplierID, target.Status)
			}
		}
	}

	history, _ := store.GetOrderHistory(ctx, "bidding")
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestMemoryStore_CapacityProfile(t *testing.T) {
	store := seededStore()
	ctx := context.Background()

	profile, err := store.GetCapacityProfile(ctx, "sup-a")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.ActiveWorkers != 0 || len(profile.ProductTypes) != 1 {
		t.Errorf("Expected default workforce with supplier product types, got %+v", profile)
	}

	if _, err := store.GetCapacityProfile(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown supplier, got %v", err)
	}

	p := models.CapacityProfile{SupplierID: "sup-a", ActiveWorkers: 5, HoursPerDay: decimal.NewFromInt(8)}
	p.Recompute()
	saved, err := store.UpsertCapacityProfile(ctx, p)
	if err != nil {
		t.Fatalf("Failed to upsert profile: %v", err)
	}
	if saved.MonthlyCapacityMinutes != 52800 {
		t.Errorf("Expected 52800, got %d", saved.MonthlyCapacityMinutes)
	}

	if err := store.UpdateOccupancy(ctx, "sup-a", 42.5); err != nil {
		t.Fatalf("Failed to update occupancy: %v", err)
	}
	again, _ := store.GetCapacityProfile(ctx, "sup-a")
	if again.CurrentOccupancyPercent != 42.5 {
		t.Errorf("Expected occupancy 42.5, got %v", again.CurrentOccupancyPercent)
	}
}
