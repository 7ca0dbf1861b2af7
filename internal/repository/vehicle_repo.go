package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"car_chronicle/internal/models"
)

type VehicleSQLite struct {
	db *sql.DB
}

func NewVehicleSQLite(db *sql.DB) *VehicleSQLite { return &VehicleSQLite{db: db} }

var _ VehicleRepo = (*VehicleSQLite)(nil)

const (
	insertVehicleSQL = `INSERT INTO vehicles (vin, model, identity, owner, log) VALUES (?, ?, ?, ?, ?)`
	selectVehicleSQL = `SELECT vin, model, identity, owner, log FROM vehicles WHERE vin = ?`
	updateLogsSQL    = `UPDATE vehicles SET log = ? WHERE vin = ?`
	selectAllSQL     = `SELECT vin, model, identity, owner, log FROM vehicles ORDER BY vin ASC`

	selectOwnerVINsSQL = `SELECT vins FROM owner_vins WHERE owner = ?`
	upsertOwnerVINsSQL = `
		INSERT INTO owner_vins (owner, vins) VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET vins=excluded.vins
	`
)

// marshalLog converts the ordered entry list to its stored JSON form.
func marshalLog(log []models.LogEntry) (string, error) {
	b, err := json.Marshal(log)
	if err != nil {
		return "", fmt.Errorf("marshal log: %w", err)
	}
	return string(b), nil
}

func unmarshalLog(s string) ([]models.LogEntry, error) {
	var log []models.LogEntry
	if err := json.Unmarshal([]byte(s), &log); err != nil {
		return nil, fmt.Errorf("unmarshal log: %w", err)
	}
	return log, nil
}

// Create inserts the record and appends its VIN to the owner's index entry.
// Both writes happen in one transaction so the index never diverges from
// the primary store.
func (r *VehicleSQLite) Create(ctx context.Context, rec models.VehicleRecord) error {
	logJSON, err := marshalLog(rec.Log)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vehicle insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, insertVehicleSQL,
		rec.VIN, rec.Model, rec.Identity, rec.Owner, logJSON,
	); err != nil {
		return fmt.Errorf("insert vehicle %q: %w", rec.VIN, err)
	}

	vins, err := ownerVINsTx(ctx, tx, rec.Owner)
	if err != nil {
		return err
	}
	vins = append(vins, rec.VIN)

	vinsJSON, err := json.Marshal(vins)
	if err != nil {
		return fmt.Errorf("marshal owner index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertOwnerVINsSQL, rec.Owner, string(vinsJSON)); err != nil {
		return fmt.Errorf("update owner index for %q: %w", rec.Owner, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit vehicle insert: %w", err)
	}
	return nil
}

// ownerVINsTx reads the owner's VIN list inside the given transaction,
// returning an empty list when no entry exists yet.
func ownerVINsTx(ctx context.Context, tx *sql.Tx, owner string) ([]string, error) {
	var vinsJSON string
	err := tx.QueryRowContext(ctx, selectOwnerVINsSQL, owner).Scan(&vinsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select owner index for %q: %w", owner, err)
	}
	var vins []string
	if err := json.Unmarshal([]byte(vinsJSON), &vins); err != nil {
		return nil, fmt.Errorf("unmarshal owner index for %q: %w", owner, err)
	}
	return vins, nil
}

// GetByVIN fetches a record by VIN. Returns (nil, nil) if not found.
func (r *VehicleSQLite) GetByVIN(ctx context.Context, vin string) (*models.VehicleRecord, error) {
	var (
		rec     models.VehicleRecord
		logJSON string
	)
	err := r.db.QueryRowContext(ctx, selectVehicleSQL, vin).
		Scan(&rec.VIN, &rec.Model, &rec.Identity, &rec.Owner, &logJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select vehicle %q: %w", vin, err)
	}
	if rec.Log, err = unmarshalLog(logJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateLogs persists the full replacement log under the same key.
func (r *VehicleSQLite) UpdateLogs(ctx context.Context, vin string, log []models.LogEntry) error {
	logJSON, err := marshalLog(log)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, updateLogsSQL, logJSON, vin); err != nil {
		return fmt.Errorf("update logs for %q: %w", vin, err)
	}
	return nil
}

// ListAll returns a full snapshot of the primary store.
func (r *VehicleSQLite) ListAll(ctx context.Context) ([]models.VehicleRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("select all vehicles: %w", err)
	}
	defer rows.Close()

	out := make([]models.VehicleRecord, 0, 16)
	for rows.Next() {
		var (
			rec     models.VehicleRecord
			logJSON string
		)
		if err := rows.Scan(&rec.VIN, &rec.Model, &rec.Identity, &rec.Owner, &logJSON); err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		if rec.Log, err = unmarshalLog(logJSON); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// VINsByOwner reads the owner index. Returns (nil, nil) when the owner has
// never registered a vehicle.
func (r *VehicleSQLite) VINsByOwner(ctx context.Context, owner string) ([]string, error) {
	var vinsJSON string
	err := r.db.QueryRowContext(ctx, selectOwnerVINsSQL, owner).Scan(&vinsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select owner index for %q: %w", owner, err)
	}
	var vins []string
	if err := json.Unmarshal([]byte(vinsJSON), &vins); err != nil {
		return nil, fmt.Errorf("unmarshal owner index for %q: %w", owner, err)
	}
	return vins, nil
}
