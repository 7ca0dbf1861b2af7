package models

import "time"

// DefaultPremium is the system-wide premium stored on every purchase,
// regardless of the amount the caller offered. The offered amount is only
// visible in the INSURANCE_PURCHASED notification.
const DefaultPremium int64 = 100

// InsuranceAccount is the per-account coverage state.
type InsuranceAccount struct {
	Account string `json:"account"`
	Premium int64  `json:"premium"`
	Covered bool   `json:"covered"`
}

// Notification types emitted to the environment. Append-only audit events,
// never consumed internally.
const (
	NotificationInsurancePurchased = "INSURANCE_PURCHASED"
	NotificationClaimFiled         = "CLAIM_FILED"
)

// Notification is one audit event on the insurance feed.
type Notification struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"` // INSURANCE_PURCHASED | CLAIM_FILED
	Account    string    `json:"account"`
	Amount     int64     `json:"amount"`
}
