package repository

import (
	"context"
	"database/sql"
	"time"

	"car_chronicle/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// VehicleRepo is the primary VIN store plus the owner index.
// Lookups return (nil, nil) when the key is absent.
type VehicleRepo interface {
	// Create inserts the record and appends its VIN to the owner index
	// in a single transaction.
	Create(ctx context.Context, rec models.VehicleRecord) error
	GetByVIN(ctx context.Context, vin string) (*models.VehicleRecord, error)
	// UpdateLogs replaces the stored log of an existing record.
	UpdateLogs(ctx context.Context, vin string, log []models.LogEntry) error
	ListAll(ctx context.Context) ([]models.VehicleRecord, error)
	// VINsByOwner returns (nil, nil) when the owner has no index entry.
	VINsByOwner(ctx context.Context, owner string) ([]string, error)
}

// InsuranceRepo owns the per-account coverage state.
type InsuranceRepo interface {
	// Get returns (nil, nil) when the account has never purchased.
	Get(ctx context.Context, account string) (*models.InsuranceAccount, error)
	// SaveWithEvent upserts the account state and appends the audit
	// notification in a single transaction, so a coverage change is never
	// retained without its event (and vice versa).
	SaveWithEvent(ctx context.Context, acct models.InsuranceAccount, n models.Notification) error
}

// NotificationRepo is the read side of the append-only audit feed.
// Writes happen inside the insurance transaction (SaveWithEvent).
type NotificationRepo interface {
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Notification, error)
}

type Repository struct {
	Vehicles      VehicleRepo
	Insurance     InsuranceRepo
	Notifications NotificationRepo
	Auth          Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Vehicles:      NewVehicleSQLite(db),
		Insurance:     NewInsuranceSQLite(db),
		Notifications: NewNotificationSQLite(db),
		Auth:          NewUserRepository(db),
	}
}
