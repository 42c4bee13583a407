package handlers

import (
	"net/http"

	"github.com/texlink-oficial/texlink-scheduler/internal/middleware"
	"github.com/texlink-oficial/texlink-scheduler/internal/utils"

	"go.uber.org/zap"
)

// requireIdentity returns the caller or writes 401 when the route was mounted without auth.
func requireIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.SupplierID == "" {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "authorization is required")
		return middleware.Identity{}, false
	}
	return id, true
}

func requestLogger(logger *zap.Logger, r *http.Request, id middleware.Identity) *zap.Logger {
	return logger.With(
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.String("supplier_id", id.SupplierID),
		zap.String("user_id", id.UserID))
}
