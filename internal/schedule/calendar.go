package schedule

import (
	"math"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"
)

// DefaultMinutesPerPiece is used for orders that never recorded a production estimate.
const DefaultMinutesPerPiece = 15

type orderLoad struct {
	order models.Order
	start time.Time
	end   time.Time
	daily float64
}

// EstimateMinutes returns the recorded production minutes or quantity × fallback.
func EstimateMinutes(order models.Order, minutesPerPiece int) int {
	if order.TotalProductionMinutes != nil {
		return *order.TotalProductionMinutes
	}
	return order.Quantity * minutesPerPiece
}

// Project builds one ledger per day of the month. Orders with a planned window
// spread evenly over it; orders without one spread over the whole queried month.
func Project(profile models.CapacityProfile, orders []models.Order, year int, month time.Month, minutesPerPiece int) []models.DayLedger {
	monthStart, monthEnd := MonthBounds(year, month)
	daysInMonth := monthEnd.Day()
	dailyCapacity := profile.DailyCapacityMinutes()

	loads := make([]orderLoad, 0, len(orders))
	for _, order := range orders {
		total := float64(EstimateMinutes(order, minutesPerPiece))

		l := orderLoad{order: order, start: monthStart, end: monthEnd}
		if order.HasPlannedWindow() {
			l.start = DateOnly(*order.PlannedStartDate)
			l.end = DateOnly(*order.PlannedEndDate)
			if l.end.Before(l.start) {
				l.end = l.start
			}
			l.daily = total / float64(max(1, DaysInclusive(l.start, l.end)))
		} else {
			l.daily = total / float64(daysInMonth)
		}

		if l.end.Before(monthStart) || l.start.After(monthEnd) {
			continue
		}
		loads = append(loads, l)
	}

	ledgers := make([]models.DayLedger, 0, daysInMonth)
	for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
		weekend := IsWeekend(day)
		ledger := models.DayLedger{
			Date:              day.Format(models.DateLayout),
			Day:               day,
			IsWeekend:         weekend,
			OverlappingOrders: []models.OverlappingOrder{},
		}
		if !weekend {
			ledger.TotalCapacityMinutes = dailyCapacity
		}

		var allocated float64
		for _, l := range loads {
			if day.Before(l.start) || day.After(l.end) {
				continue
			}
			allocated += l.daily
			ledger.OverlappingOrders = append(ledger.OverlappingOrders, models.OverlappingOrder{
				OrderID:      l.order.ID,
				DisplayID:    l.order.DisplayID,
				ProductName:  l.order.ProductName,
				DailyMinutes: int(math.Round(l.daily)),
			})
		}

		ledger.AllocatedMinutes = int(math.Round(allocated))
		ledger.AvailableMinutes = max(0, ledger.TotalCapacityMinutes-ledger.AllocatedMinutes)
		ledgers = append(ledgers, ledger)
	}
	return ledgers
}

// OccupancyPercent is allocated over total capacity for the given ledgers,
// rounded to two decimals. Zero capacity yields zero.
func OccupancyPercent(ledgers []models.DayLedger) float64 {
	var total, allocated int
	for _, l := range ledgers {
		total += l.TotalCapacityMinutes
		allocated += l.AllocatedMinutes
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(allocated)/float64(total)*10000) / 100
}
