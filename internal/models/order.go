package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	OrderStatus    string // Order lifecycle status
	AssignmentType string // How the order reaches suppliers
	TargetStatus   string // Status of a supplier's bidding claim
)

const (
	DirectAssignment  AssignmentType = "DIRECT"  // Order sent to a single supplier
	BiddingAssignment AssignmentType = "BIDDING" // Order offered to several suppliers at once

	DraftOrder         OrderStatus = "DRAFT"
	LaunchedByBrand    OrderStatus = "LAUNCHED_BY_BRAND"   // Order launched, waiting for a supplier
	UnderNegotiation   OrderStatus = "UNDER_NEGOTIATION"   // Price or terms being negotiated
	AvailableToOthers  OrderStatus = "AVAILABLE_TO_OTHERS" // Open to any supplier on the marketplace
	AcceptedBySupplier OrderStatus = "ACCEPTED_BY_SUPPLIER"
	PreparingMaterial  OrderStatus = "PREPARING_MATERIAL"
	InProduction       OrderStatus = "IN_PRODUCTION" // The only status the calendar allocates
	QualityCheck       OrderStatus = "QUALITY_CHECK"
	ReadyToShip        OrderStatus = "READY_TO_SHIP"
	Shipped            OrderStatus = "SHIPPED"
	Delivered          OrderStatus = "DELIVERED"
	Finalized          OrderStatus = "FINALIZED"
	CancelledOrder     OrderStatus = "CANCELLED"
	DisputedOrder      OrderStatus = "DISPUTED"

	PendingTarget  TargetStatus = "PENDING"
	AcceptedTarget TargetStatus = "ACCEPTED"
	RejectedTarget TargetStatus = "REJECTED"
)

// AcceptableStatuses lists the statuses an order may be accepted from.
var AcceptableStatuses = []OrderStatus{LaunchedByBrand, UnderNegotiation, AvailableToOthers}

// Order is the scheduling slice of a marketplace order.
type Order struct {
	ID                     string           `json:"id"`
	DisplayID              string           `json:"displayId"`
	BrandID                string           `json:"brandId"`
	ProductName            string           `json:"productName"`
	Status                 OrderStatus      `json:"status"`
	AssignmentType         AssignmentType   `json:"assignmentType"`
	Quantity               int              `json:"quantity"`
	AvgTimePerPiece        *decimal.Decimal `json:"avgTimePerPiece"`
	TotalProductionMinutes *int             `json:"totalProductionMinutes"`
	PlannedStartDate       *time.Time       `json:"plannedStartDate"`
	PlannedEndDate         *time.Time       `json:"plannedEndDate"`
	SupplierID             *string          `json:"supplierId"`
	AcceptedAt             *time.Time       `json:"acceptedAt,omitempty"`
	AcceptedBy             *string          `json:"acceptedBy,omitempty"`
}

// HasPlannedWindow reports whether both planned dates are set.
func (o Order) HasPlannedWindow() bool {
	return o.PlannedStartDate != nil && o.PlannedEndDate != nil
}

// OrderTarget is a supplier's claim on a bidding order.
type OrderTarget struct {
	OrderID    string       `json:"orderId"`
	SupplierID string       `json:"supplierId"`
	Status     TargetStatus `json:"status"`
}

// OrderStatusHistory is one immutable entry of the order audit trail.
type OrderStatusHistory struct {
	ID             string      `json:"id"`
	OrderID        string      `json:"orderId"`
	PreviousStatus OrderStatus `json:"previousStatus"`
	NewStatus      OrderStatus `json:"newStatus"`
	ChangedBy      string      `json:"changedBy"`
	Notes          string      `json:"notes"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AcceptOrderRequest is the body of an acceptance call.
type AcceptOrderRequest struct {
	AvgTimePerPiece  decimal.Decimal `json:"avgTimePerPiece"`
	PlannedStartDate string          `json:"plannedStartDate"`
}

// Acceptance carries everything the repository writes when committing an acceptance.
type Acceptance struct {
	OrderID                string
	ExpectedStatus         OrderStatus
	AssignmentType         AssignmentType
	SupplierID             string
	AcceptedBy             string
	AvgTimePerPiece        decimal.Decimal
	TotalProductionMinutes int
	PlannedStartDate       time.Time
	PlannedEndDate         time.Time
	AcceptedAt             time.Time
	History                OrderStatusHistory
}
