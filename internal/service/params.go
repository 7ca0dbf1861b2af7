package service

import (
	"time"

	"car_chronicle/internal/models"
)

// RegisterParams carries the caller-supplied fields of a registration.
// The owner is never part of the payload; it is always the authenticated
// caller.
type RegisterParams struct {
	Model string
	VIN   string
	Logs  []models.LogEntry
}

// NotificationFilter supports audit-feed filtering by time range and type.
type NotificationFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "INSURANCE_PURCHASED", "CLAIM_FILED"
}
