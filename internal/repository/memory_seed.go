package repository

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
)

// MemorySeed is the fixture format accepted by LoadSeed.
type MemorySeed struct {
	Suppliers []struct {
		ID           string   `json:"id"`
		TradeName    string   `json:"tradeName"`
		ProductTypes []string `json:"productTypes"`
		Specialties  []string `json:"specialties"`
	} `json:"suppliers"`
	Orders  []models.Order `json:"orders"`
	Targets []struct {
		OrderID    string `json:"orderId"`
		SupplierID string `json:"supplierId"`
	} `json:"targets"`
}

// LoadSeed fills the store from a JSON fixture. Orders and targets must reference
// suppliers and orders present in the same fixture or already stored.
func (s *MemoryStore) LoadSeed(r io.Reader) error {
	var seed MemorySeed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}

	for _, sup := range seed.Suppliers {
		if sup.ID == "" {
			return fmt.Errorf("supplier without id in seed")
		}
		s.AddSupplier(sup.ID, sup.TradeName, sup.ProductTypes, sup.Specialties)
	}

	for _, order := range seed.Orders {
		if order.ID == "" {
			return fmt.Errorf("order without id in seed")
		}
		if order.SupplierID != nil && !s.hasSupplier(*order.SupplierID) {
			return fmt.Errorf("order %s references unknown supplier %s", order.ID, *order.SupplierID)
		}
		s.AddOrder(order)
	}

	for _, target := range seed.Targets {
		if _, ok := s.Order(target.OrderID); !ok {
			return fmt.Errorf("target references unknown order %s", target.OrderID)
		}
		if !s.hasSupplier(target.SupplierID) {
			return fmt.Errorf("target references unknown supplier %s", target.SupplierID)
		}
		s.AddTarget(target.OrderID, target.SupplierID)
	}
	return nil
}

func (s *MemoryStore) hasSupplier(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.suppliers[id]
	return ok
}
