package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/texlink-oficial/texlink-scheduler/internal/models"

	"go.uber.org/zap"
)

// SendErrorResponse writes an error as JSON.
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendError(w, models.NewErrorResponse(statusCode, message))
}

// SendError writes a typed error, keeping its kind and current status.
func SendError(w http.ResponseWriter, errorResponse *models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorResponse.StatusCode)
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		zap.L().Warn("failed to encode error response", zap.Error(err))
	}
}

// WriteError sends err to the client. Anything that is not a *models.ErrorResponse is
// logged and reported as an internal error with the given fallback message.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		logger.Info("request rejected",
			zap.String("kind", string(errorResponse.Kind)),
			zap.String("reason", errorResponse.Message))
		SendError(w, errorResponse)
		return
	}
	logger.Error(fallback, zap.Error(err))
	SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

// SendJSON writes v with the given status code.
func SendJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

// ParseYearMonth reads the calendar month from query values; missing values default to now.
func ParseYearMonth(yearStr, monthStr string, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())
	var err error

	if yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			return 0, 0, models.NewValidation("invalid year parameter, must be an integer")
		}
	}
	if monthStr != "" {
		month, err = strconv.Atoi(monthStr)
		if err != nil {
			return 0, 0, models.NewValidation("invalid month parameter, must be an integer")
		}
	}
	return year, month, nil
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, models.NewValidation("plannedStartDate is required")
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, models.NewValidation("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
