package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"car_chronicle/internal/models"
)

func milEntry(value string) models.LogEntry {
	return models.LogEntry{
		Command:   models.CommandDistanceWithMil,
		Value:     value,
		ECU:       2,
		Timestamp: 123456789,
	}
}

func TestAverageMileage(t *testing.T) {
	cases := []struct {
		name string
		log  []models.LogEntry
		want uint64
	}{
		{"empty log", nil, 0},
		{"no mileage entries", []models.LogEntry{engineLoadEntry("50")}, 0},
		{"single entry", []models.LogEntry{milEntry("42000")}, 42000},
		{
			"mean over matching entries only",
			[]models.LogEntry{milEntry("30000"), engineLoadEntry("99"), milEntry("50000"), milEntry("70000")},
			50000,
		},
		{
			"unparsable counts as zero",
			[]models.LogEntry{milEntry("60000"), milEntry("n/a")},
			30000,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AverageMileage(tc.log); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func registeredVehicle(t *testing.T, log []models.LogEntry) *HealthService {
	t.Helper()
	repo := newFakeVehicleRepo()
	repo.records["VIN1"] = models.VehicleRecord{
		Model:    "Toyota",
		VIN:      "VIN1",
		Log:      log,
		Identity: "VIN1",
		Owner:    "alice",
	}
	return NewHealthService(repo)
}

func TestHealth_ClassifyCarNotFound(t *testing.T) {
	svc := NewHealthService(newFakeVehicleRepo())
	if _, err := svc.Classify(context.Background(), "MISSING"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
	if _, err := svc.MarketValue(context.Background(), "MISSING"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
}

func TestHealth_ClassifyBands(t *testing.T) {
	cases := []struct {
		avg        uint64
		wantHealth models.HealthCategory
		wantValue  int64
	}{
		{0, models.HealthBad, 0},
		{40_000, models.HealthBad, 0},
		{40_001, models.HealthExcellent, 3000},
		{50_000, models.HealthExcellent, 3000},
		{2_999_999, models.HealthExcellent, 3000},
		{3_000_000, models.HealthGood, 2000},
		{3_999_999, models.HealthGood, 2000},
		{4_000_000, models.HealthFair, 1000},
		{9_000_000, models.HealthFair, 1000},
	}
	for _, tc := range cases {
		t.Run(strconv.FormatUint(tc.avg, 10), func(t *testing.T) {
			svc := registeredVehicle(t, []models.LogEntry{milEntry(strconv.FormatUint(tc.avg, 10))})

			health, err := svc.Classify(context.Background(), "VIN1")
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if health != tc.wantHealth {
				t.Fatalf("health: want %s, got %s", tc.wantHealth, health)
			}

			value, err := svc.MarketValue(context.Background(), "VIN1")
			if err != nil {
				t.Fatalf("MarketValue: %v", err)
			}
			if value != tc.wantValue {
				t.Fatalf("value: want %d, got %d", tc.wantValue, value)
			}
		})
	}
}

func TestHealth_ThreeReadingsAverageDeterministic(t *testing.T) {
	svc := registeredVehicle(t, []models.LogEntry{
		milEntry("30000"), milEntry("50000"), milEntry("70000"), // avg 50000
	})

	health, err := svc.Classify(context.Background(), "VIN1")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if health != models.HealthExcellent {
		t.Fatalf("want EXCELLENT for avg 50000, got %s", health)
	}
	value, err := svc.MarketValue(context.Background(), "VIN1")
	if err != nil {
		t.Fatalf("MarketValue: %v", err)
	}
	if value != 3000 {
		t.Fatalf("want 3000, got %d", value)
	}
}

func TestHealth_NoMileageEntriesIsBad(t *testing.T) {
	svc := registeredVehicle(t, []models.LogEntry{engineLoadEntry("80")})

	health, err := svc.Classify(context.Background(), "VIN1")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if health != models.HealthBad {
		t.Fatalf("want BAD with no mileage entries, got %s", health)
	}
}
