package service

import (
	"context"

	"car_chronicle/internal/models"
	"car_chronicle/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	// ParseToken returns the caller's account identifier.
	ParseToken(accessToken string) (string, error)
}

// Ledger exposes the vehicle-record lifecycle: registration, append-only
// log mutation, and the read paths.
type Ledger interface {
	RegisterVehicle(ctx context.Context, caller string, p RegisterParams) (models.VehicleRecord, error)
	AppendLogs(ctx context.Context, caller, vin string, logs []models.LogEntry) (models.VehicleRecord, error)
	GetRecord(ctx context.Context, vin string) (models.VehicleRecord, error)
	GetLogs(ctx context.Context, vin string) ([]models.LogEntry, error)
	RecordsByOwner(ctx context.Context, owner string) ([]string, error)
	ListAll(ctx context.Context) ([]models.VehicleRecord, error)
}

// Insurance exposes the coverage state machine: purchase, claim, and the
// two coverage predicates.
type Insurance interface {
	IsPremiumPaying(ctx context.Context, account string) (bool, error)
	HasActiveCoverage(ctx context.Context, account string) (bool, error)
	Purchase(ctx context.Context, account string, requestedPremium int64) error
	FileClaim(ctx context.Context, account string) (int64, error)
}

// Health exposes the derived rating and market-value estimate.
type Health interface {
	Classify(ctx context.Context, vin string) (models.HealthCategory, error)
	MarketValue(ctx context.Context, vin string) (int64, error)
}

// Notifications exposes the append-only audit feed with filtering access.
type Notifications interface {
	List(ctx context.Context, f NotificationFilter) ([]models.Notification, error)
}

type Service struct {
	Ledger
	Insurance
	Health
	Notifications
	Authorization
}

// NewService wires the repository layer into concrete services. The access
// guard is shared: the same coverage predicate gates every ledger mutation.
func NewService(repos *repository.Repository) *Service {
	guard := NewAccessGuard(repos.Insurance)
	return &Service{
		Ledger:        NewLedgerService(repos.Vehicles, guard),
		Insurance:     NewInsuranceService(repos.Insurance),
		Health:        NewHealthService(repos.Vehicles),
		Notifications: NewNotificationService(repos.Notifications),
		Authorization: NewAuthService(repos.Auth),
	}
}
