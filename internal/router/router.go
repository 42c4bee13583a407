package router

import (
	"net/http"

	"github.com/texlink-oficial/texlink-scheduler/internal/handlers"
	"github.com/texlink-oficial/texlink-scheduler/internal/middleware"

	"go.uber.org/zap"
)

// InitRoutes registers the API. Everything but ping requires a supplier token.
func InitRoutes(capacityHandler *handlers.CapacityHandler, orderHandler *handlers.OrderHandler, jwtSecret string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.SupplierAuth(jwtSecret, h)
	}

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)

	mux.Handle("GET /api/capacity", auth(capacityHandler.GetCapacity))
	mux.Handle("PUT /api/capacity", auth(capacityHandler.UpdateCapacity))
	mux.Handle("GET /api/capacity/calendar", auth(capacityHandler.GetCalendar))

	mux.Handle("POST /api/orders/{orderId}/accept", auth(orderHandler.AcceptOrder))
	mux.Handle("GET /api/orders/{orderId}/history", auth(orderHandler.GetOrderHistory))

	return middleware.RequestID(middleware.Logger(logger, mux))
}
