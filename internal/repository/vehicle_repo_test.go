package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"car_chronicle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newVehicleMock(t *testing.T) (*VehicleSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := NewVehicleSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func sampleRecord() models.VehicleRecord {
	return models.VehicleRecord{
		Model: "Toyota",
		VIN:   "VIN1",
		Log: []models.LogEntry{{
			Command:     models.CommandEngineLoad,
			Value:       "10",
			Desc:        "Engine Load",
			CommandCode: "01",
			ECU:         1,
			Timestamp:   123456789,
		}},
		Identity: "VIN1",
		Owner:    "alice",
	}
}

func sampleLogJSON(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(sampleRecord().Log)
	if err != nil {
		t.Fatalf("marshal log: %v", err)
	}
	return string(b)
}

func TestVehicleCreate_FirstForOwner_TransactionalInsertAndIndex(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	rec := sampleRecord()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertVehicleSQL)).
		WithArgs(rec.VIN, rec.Model, rec.Identity, rec.Owner, sampleLogJSON(t)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// owner has no index entry yet
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnerVINsSQL)).
		WithArgs(rec.Owner).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(upsertOwnerVINsSQL)).
		WithArgs(rec.Owner, `["VIN1"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(ctx(t), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestVehicleCreate_AppendsToExistingOwnerIndex(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	rec := sampleRecord()
	rec.VIN = "VIN2"
	rec.Identity = "VIN2"

	logJSON, _ := json.Marshal(rec.Log)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertVehicleSQL)).
		WithArgs(rec.VIN, rec.Model, rec.Identity, rec.Owner, string(logJSON)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnerVINsSQL)).
		WithArgs(rec.Owner).
		WillReturnRows(sqlmock.NewRows([]string{"vins"}).AddRow(`["VIN1"]`))
	mock.ExpectExec(regexp.QuoteMeta(upsertOwnerVINsSQL)).
		WithArgs(rec.Owner, `["VIN1","VIN2"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(ctx(t), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestVehicleCreate_RollsBackOnIndexFailure(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	rec := sampleRecord()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertVehicleSQL)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnerVINsSQL)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(upsertOwnerVINsSQL)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := repo.Create(ctx(t), rec); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestVehicleGetByVIN(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectVehicleSQL)).
		WithArgs("VIN1").
		WillReturnRows(sqlmock.NewRows([]string{"vin", "model", "identity", "owner", "log"}).
			AddRow("VIN1", "Toyota", "VIN1", "alice", sampleLogJSON(t)))

	rec, err := repo.GetByVIN(ctx(t), "VIN1")
	if err != nil {
		t.Fatalf("GetByVIN: %v", err)
	}
	if rec == nil || rec.Model != "Toyota" || len(rec.Log) != 1 || rec.Log[0].Value != "10" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// not found → (nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectVehicleSQL)).
		WithArgs("MISSING").
		WillReturnError(sql.ErrNoRows)
	rec, err = repo.GetByVIN(ctx(t), "MISSING")
	if err != nil || rec != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", rec, err)
	}
}

func TestVehicleUpdateLogs(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	log := sampleRecord().Log
	logJSON, _ := json.Marshal(log)

	mock.ExpectExec(regexp.QuoteMeta(updateLogsSQL)).
		WithArgs(string(logJSON), "VIN1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLogs(ctx(t), "VIN1", log); err != nil {
		t.Fatalf("UpdateLogs: %v", err)
	}
}

func TestVehicleListAll(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"vin", "model", "identity", "owner", "log"}).
		AddRow("VIN1", "Toyota", "VIN1", "alice", sampleLogJSON(t)).
		AddRow("VIN2", "Honda", "VIN2", "bob", sampleLogJSON(t))
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnRows(rows)

	recs, err := repo.ListAll(ctx(t))
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(recs) != 2 || recs[0].VIN != "VIN1" || recs[1].Owner != "bob" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestVehicleVINsByOwner(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectOwnerVINsSQL)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"vins"}).AddRow(`["VIN1","VIN2"]`))

	vins, err := repo.VINsByOwner(ctx(t), "alice")
	if err != nil {
		t.Fatalf("VINsByOwner: %v", err)
	}
	if len(vins) != 2 || vins[0] != "VIN1" || vins[1] != "VIN2" {
		t.Fatalf("unexpected vins: %v", vins)
	}

	// unknown owner → (nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectOwnerVINsSQL)).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)
	vins, err = repo.VINsByOwner(ctx(t), "nobody")
	if err != nil || vins != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", vins, err)
	}
}
