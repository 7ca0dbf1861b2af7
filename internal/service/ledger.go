package service

import (
	"context"

	"car_chronicle/internal/models"
	"car_chronicle/internal/repository"
)

// LedgerService owns the VIN store and the owner index. Every mutation is
// gated by the access guard before any state is touched.
type LedgerService struct {
	vehicleRepo repository.VehicleRepo
	guard       *AccessGuard
}

func NewLedgerService(vehicleRepo repository.VehicleRepo, guard *AccessGuard) *LedgerService {
	return &LedgerService{vehicleRepo: vehicleRepo, guard: guard}
}

// validateLogs rejects empty log lists and entries with a command outside
// the closed diagnostic set.
func validateLogs(logs []models.LogEntry) error {
	if len(logs) == 0 {
		return ErrNoLogsProvided
	}
	for _, entry := range logs {
		if !entry.Command.Valid() {
			return ErrUnknownCommand
		}
	}
	return nil
}

// RegisterVehicle creates the record for a new VIN owned by the caller.
// The caller must hold active coverage, the VIN must be unused, and at
// least one diagnostic entry is mandatory. The record and the owner index
// are written atomically.
func (s *LedgerService) RegisterVehicle(ctx context.Context, caller string, p RegisterParams) (models.VehicleRecord, error) {
	if err := s.guard.RequireCoverage(ctx, caller); err != nil {
		return models.VehicleRecord{}, err
	}

	existing, err := s.vehicleRepo.GetByVIN(ctx, p.VIN)
	if err != nil {
		return models.VehicleRecord{}, err
	}
	if existing != nil {
		return models.VehicleRecord{}, ErrCarAlreadyRegistered
	}

	if err := validateLogs(p.Logs); err != nil {
		return models.VehicleRecord{}, err
	}

	rec := models.VehicleRecord{
		Model:    p.Model,
		VIN:      p.VIN,
		Log:      p.Logs,
		Identity: p.VIN,
		Owner:    caller,
	}
	if err := s.vehicleRepo.Create(ctx, rec); err != nil {
		return models.VehicleRecord{}, err
	}
	return rec, nil
}

// AppendLogs extends an existing record's log in order, no deduplication.
// The caller must hold active coverage and be the record's owner.
func (s *LedgerService) AppendLogs(ctx context.Context, caller, vin string, logs []models.LogEntry) (models.VehicleRecord, error) {
	if err := s.guard.RequireCoverage(ctx, caller); err != nil {
		return models.VehicleRecord{}, err
	}

	rec, err := s.vehicleRepo.GetByVIN(ctx, vin)
	if err != nil {
		return models.VehicleRecord{}, err
	}
	if rec == nil {
		return models.VehicleRecord{}, ErrCarNotFound
	}

	if err := s.guard.RequireOwnerMatch(caller, rec.Owner); err != nil {
		return models.VehicleRecord{}, err
	}

	if err := validateLogs(logs); err != nil {
		return models.VehicleRecord{}, err
	}

	rec.Log = append(rec.Log, logs...)
	if err := s.vehicleRepo.UpdateLogs(ctx, vin, rec.Log); err != nil {
		return models.VehicleRecord{}, err
	}
	return *rec, nil
}

// GetRecord returns the record stored under vin.
func (s *LedgerService) GetRecord(ctx context.Context, vin string) (models.VehicleRecord, error) {
	rec, err := s.vehicleRepo.GetByVIN(ctx, vin)
	if err != nil {
		return models.VehicleRecord{}, err
	}
	if rec == nil {
		return models.VehicleRecord{}, ErrCarNotFound
	}
	return *rec, nil
}

// GetLogs returns only the diagnostic log of a single record.
func (s *LedgerService) GetLogs(ctx context.Context, vin string) ([]models.LogEntry, error) {
	rec, err := s.GetRecord(ctx, vin)
	if err != nil {
		return nil, err
	}
	return rec.Log, nil
}

// RecordsByOwner returns the VINs registered by owner, erroring for owners
// that never registered anything.
func (s *LedgerService) RecordsByOwner(ctx context.Context, owner string) ([]string, error) {
	vins, err := s.vehicleRepo.VINsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if vins == nil {
		return nil, ErrOwnerNotFound
	}
	return vins, nil
}

// ListAll returns a full snapshot of every record, no pagination.
func (s *LedgerService) ListAll(ctx context.Context) ([]models.VehicleRecord, error) {
	return s.vehicleRepo.ListAll(ctx)
}
