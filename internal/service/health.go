package service

import (
	"context"
	"strconv"

	"car_chronicle/internal/models"
	"car_chronicle/internal/repository"
)

// Mileage bands for the health rating, in km of average DISTANCE_WITH_MIL
// reading. The partition is deliberately non-overlapping:
//
//	avg <= 40000              -> BAD
//	40000 < avg < 3000000     -> EXCELLENT
//	3000000 <= avg < 4000000  -> GOOD
//	avg >= 4000000            -> FAIR
const (
	mileageBadMax       = 40_000
	mileageExcellentMax = 3_000_000
	mileageGoodMax      = 4_000_000
)

// Fixed market-value estimates per health category.
const (
	valueBad       int64 = 0
	valueFair      int64 = 1000
	valueGood      int64 = 2000
	valueExcellent int64 = 3000
)

// HealthService derives a coarse rating and value estimate from a
// vehicle's accumulated log. Read-only.
type HealthService struct {
	vehicleRepo repository.VehicleRepo
}

func NewHealthService(vehicleRepo repository.VehicleRepo) *HealthService {
	return &HealthService{vehicleRepo: vehicleRepo}
}

// AverageMileage returns the arithmetic mean of the DISTANCE_WITH_MIL
// readings in the log. Unparsable values count as zero; a log with no
// matching entries averages to zero.
func AverageMileage(log []models.LogEntry) uint64 {
	var total, count uint64
	for _, entry := range log {
		if entry.Command != models.CommandDistanceWithMil {
			continue
		}
		v, err := strconv.ParseUint(entry.Value, 10, 64)
		if err != nil {
			v = 0
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / count
}

// Classify rates the vehicle by its average mileage-with-MIL reading.
func (s *HealthService) Classify(ctx context.Context, vin string) (models.HealthCategory, error) {
	rec, err := s.vehicleRepo.GetByVIN(ctx, vin)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrCarNotFound
	}

	avg := AverageMileage(rec.Log)
	switch {
	case avg <= mileageBadMax:
		return models.HealthBad, nil
	case avg < mileageExcellentMax:
		return models.HealthExcellent, nil
	case avg < mileageGoodMax:
		return models.HealthGood, nil
	default:
		return models.HealthFair, nil
	}
}

// MarketValue maps the health category to its fixed value estimate.
func (s *HealthService) MarketValue(ctx context.Context, vin string) (int64, error) {
	health, err := s.Classify(ctx, vin)
	if err != nil {
		return 0, err
	}
	switch health {
	case models.HealthExcellent:
		return valueExcellent, nil
	case models.HealthGood:
		return valueGood, nil
	case models.HealthFair:
		return valueFair, nil
	default:
		return valueBad, nil
	}
}
