package services

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator returns a fresh identifier.
type IDGenerator func() string

// NewUUID generates random UUIDs.
func NewUUID() string {
	return uuid.New().String()
}
