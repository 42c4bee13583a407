package models

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DayLedger is the capacity picture of a single calendar day.
type DayLedger struct {
	Date                 string             `json:"date"`
	IsWeekend            bool               `json:"isWeekend"`
	TotalCapacityMinutes int                `json:"totalCapacityMinutes"`
	AllocatedMinutes     int                `json:"allocatedMinutes"`
	AvailableMinutes     int                `json:"availableMinutes"`
	OverlappingOrders    []OverlappingOrder `json:"overlappingOrders"`
	Day                  time.Time          `json:"-"`
}

// OverlappingOrder is an order contributing load to a day.
type OverlappingOrder struct {
	OrderID      string `json:"orderId"`
	DisplayID    string `json:"displayId"`
	ProductName  string `json:"productName"`
	DailyMinutes int    `json:"dailyMinutes"`
}
