package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
)

type memorySupplier struct {
	tradeName    string
	productTypes []string
	specialties  []string
}

// MemoryStore keeps suppliers, capacity and orders in process memory. A single
// mutex makes every CommitAcceptance call atomic with respect to the others.
type MemoryStore struct {
	mu        sync.Mutex
	suppliers map[string]memorySupplier
	profiles  map[string]models.CapacityProfile
	orders    map[string]models.Order
	targets   map[string][]models.OrderTarget
	history   map[string][]models.OrderStatusHistory
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		suppliers: make(map[string]memorySupplier),
		profiles:  make(map[string]models.CapacityProfile),
		orders:    make(map[string]models.Order),
		targets:   make(map[string][]models.OrderTarget),
		history:   make(map[string][]models.OrderStatusHistory),
	}
}

// Verify interface compliance
var (
	_ CapacityRepository = (*MemoryStore)(nil)
	_ OrderRepository    = (*MemoryStore)(nil)
)

// AddSupplier registers a supplier.
func (s *MemoryStore) AddSupplier(id, tradeName string, productTypes, specialties []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[id] = memorySupplier{
		tradeName:    tradeName,
		productTypes: slices.Clone(productTypes),
		specialties:  slices.Clone(specialties),
	}
}

// AddOrder stores or replaces an order.
func (s *MemoryStore) AddOrder(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// AddTarget invites a supplier to bid on an order.
func (s *MemoryStore) AddTarget(orderId, supplierId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[orderId] = append(s.targets[orderId], models.OrderTarget{
		OrderID:    orderId,
		SupplierID: supplierId,
		Status:     models.PendingTarget,
	})
}

// Order returns a stored order regardless of supplier visibility.
func (s *MemoryStore) Order(orderId string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderId]
	return order, ok
}

// Targets returns the bidding claims of an order.
func (s *MemoryStore) Targets(orderId string) []models.OrderTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.targets[orderId])
}

// GetCapacityProfile implements CapacityRepository.
func (s *MemoryStore) GetCapacityProfile(_ context.Context, supplierId string) (*models.CapacityProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(supplierId)
}

func (s *MemoryStore) profileLocked(supplierId string) (*models.CapacityProfile, error) {
	supplier, ok := s.suppliers[supplierId]
	if !ok {
		return nil, ErrNotFound
	}
	profile, ok := s.profiles[supplierId]
	if !ok {
		profile = models.DefaultCapacityProfile(supplierId)
	}
	profile.ProductTypes = slices.Clone(supplier.productTypes)
	profile.Specialties = slices.Clone(supplier.specialties)
	if profile.ProductTypes == nil {
		profile.ProductTypes = []string{}
	}
	if profile.Specialties == nil {
		profile.Specialties = []string{}
	}
	return &profile, nil
}

// UpsertCapacityProfile implements CapacityRepository.
func (s *MemoryStore) UpsertCapacityProfile(_ context.Context, profile models.CapacityProfile) (*models.CapacityProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[profile.SupplierID]; !ok {
		return nil, ErrNotFound
	}
	if existing, ok := s.profiles[profile.SupplierID]; ok {
		profile.CurrentOccupancyPercent = existing.CurrentOccupancyPercent
	}
	s.profiles[profile.SupplierID] = profile
	return s.profileLocked(profile.SupplierID)
}

// UpdateOccupancy implements CapacityRepository.
func (s *MemoryStore) UpdateOccupancy(_ context.Context, supplierId string, percent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[supplierId]
	if !ok {
		return nil
	}
	profile.CurrentOccupancyPercent = percent
	s.profiles[supplierId] = profile
	return nil
}

// GetOrderForSupplier implements OrderRepository.
func (s *MemoryStore) GetOrderForSupplier(_ context.Context, orderId, supplierId string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderId]
	if !ok {
		return nil, ErrNotFound
	}

	switch {
	case order.SupplierID != nil && *order.SupplierID == supplierId:
	case order.SupplierID == nil && s.isTargetLocked(orderId, supplierId):
	case order.Status == models.AvailableToOthers:
	default:
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemoryStore) isTargetLocked(orderId, supplierId string) bool {
	for _, t := range s.targets[orderId] {
		if t.SupplierID == supplierId && t.Status != models.RejectedTarget {
			return true
		}
	}
	return false
}

// GetSupplierOrders implements OrderRepository.
func (s *MemoryStore) GetSupplierOrders(_ context.Context, supplierId string, statuses []models.OrderStatus) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	for _, order := range s.orders {
		if order.SupplierID == nil || *order.SupplierID != supplierId {
			continue
		}
		if slices.Contains(statuses, order.Status) {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DisplayID < orders[j].DisplayID })
	return orders, nil
}

// GetSupplierName implements OrderRepository.
func (s *MemoryStore) GetSupplierName(_ context.Context, supplierId string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	supplier, ok := s.suppliers[supplierId]
	if !ok {
		return "", ErrNotFound
	}
	return supplier.tradeName, nil
}

// GetOrderHistory implements OrderRepository.
func (s *MemoryStore) GetOrderHistory(_ context.Context, orderId string) ([]models.OrderStatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history[orderId]), nil
}

// CommitAcceptance implements OrderRepository.
func (s *MemoryStore) CommitAcceptance(_ context.Context, acc models.Acceptance) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[acc.OrderID]
	if !ok || order.Status != acc.ExpectedStatus {
		return nil, ErrOrderConflict
	}

	supplierId := acc.SupplierID
	acceptedBy := acc.AcceptedBy
	avg := acc.AvgTimePerPiece
	total := acc.TotalProductionMinutes
	start, end, acceptedAt := acc.PlannedStartDate, acc.PlannedEndDate, acc.AcceptedAt

	order.Status = models.AcceptedBySupplier
	order.SupplierID = &supplierId
	order.AvgTimePerPiece = &avg
	order.TotalProductionMinutes = &total
	order.PlannedStartDate = &start
	order.PlannedEndDate = &end
	order.AcceptedAt = &acceptedAt
	order.AcceptedBy = &acceptedBy
	s.orders[acc.OrderID] = order

	s.history[acc.OrderID] = append(s.history[acc.OrderID], acc.History)

	if acc.AssignmentType == models.BiddingAssignment {
		targets := s.targets[acc.OrderID]
		found := false
		for i := range targets {
			if targets[i].SupplierID == supplierId {
				targets[i].Status = models.AcceptedTarget
				found = true
			} else {
				targets[i].Status = models.RejectedTarget
			}
		}
		if !found {
			targets = append(targets, models.OrderTarget{OrderID: acc.OrderID, SupplierID: supplierId, Status: models.AcceptedTarget})
		}
		s.targets[acc.OrderID] = targets
	}

	return &order, nil
}
