package service

import (
	"context"
	"time"

	"car_chronicle/internal/models"
	"car_chronicle/internal/repository"

	"github.com/google/uuid"
)

// InsuranceService owns the per-account coverage state and appends the
// audit notifications the environment consumes. It records payout
// obligations; it never moves value itself.
type InsuranceService struct {
	insuranceRepo repository.InsuranceRepo
}

func NewInsuranceService(insuranceRepo repository.InsuranceRepo) *InsuranceService {
	return &InsuranceService{insuranceRepo: insuranceRepo}
}

// IsPremiumPaying reports whether the account has ever purchased coverage.
// Accounts with no premium record at all fail with ErrNoInsurance; the
// current coverage flag does not matter here.
func (s *InsuranceService) IsPremiumPaying(ctx context.Context, account string) (bool, error) {
	acct, err := s.insuranceRepo.Get(ctx, account)
	if err != nil {
		return false, err
	}
	if acct == nil {
		return false, ErrNoInsurance
	}
	return true, nil
}

// HasActiveCoverage is a plain lookup of the coverage flag, defaulting to
// false for unknown accounts.
func (s *InsuranceService) HasActiveCoverage(ctx context.Context, account string) (bool, error) {
	acct, err := s.insuranceRepo.Get(ctx, account)
	if err != nil {
		return false, err
	}
	return acct != nil && acct.Covered, nil
}

// Purchase activates coverage for the account. The stored premium is
// always the system default, not the requested amount; only the emitted
// notification carries what the caller offered. Re-purchase is allowed
// once a claim has reset the coverage flag. The coverage write and the
// notification are one transaction: neither survives without the other.
func (s *InsuranceService) Purchase(ctx context.Context, account string, requestedPremium int64) error {
	covered, err := s.HasActiveCoverage(ctx, account)
	if err != nil {
		return err
	}
	if covered {
		return ErrAlreadyHasInsurance
	}
	if requestedPremium == 0 {
		return ErrNoPremiumProvided
	}

	return s.insuranceRepo.SaveWithEvent(ctx,
		models.InsuranceAccount{
			Account: account,
			Premium: models.DefaultPremium,
			Covered: true,
		},
		models.Notification{
			EventID:    uuid.NewString(),
			OccurredAt: time.Now().UTC(),
			Type:       models.NotificationInsurancePurchased,
			Account:    account,
			Amount:     requestedPremium,
		},
	)
}

// FileClaim pays out the stored premium and resets coverage. Returns the
// paid amount; the actual value transfer is the environment's job, the
// ledger only records the obligation. The coverage reset and the
// CLAIM_FILED notification commit together or not at all.
func (s *InsuranceService) FileClaim(ctx context.Context, account string) (int64, error) {
	acct, err := s.insuranceRepo.Get(ctx, account)
	if err != nil {
		return 0, err
	}
	if acct == nil || !acct.Covered {
		return 0, ErrNoInsurance
	}

	paid := acct.Premium
	acct.Covered = false
	if err := s.insuranceRepo.SaveWithEvent(ctx, *acct, models.Notification{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Type:       models.NotificationClaimFiled,
		Account:    account,
		Amount:     paid,
	}); err != nil {
		return 0, err
	}
	return paid, nil
}
