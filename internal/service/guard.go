package service

import (
	"context"

	"car_chronicle/internal/repository"
)

// AccessGuard holds the stateless authorization predicates that gate
// ledger mutations. It consults only the insurance store; record ownership
// is passed in by the caller.
type AccessGuard struct {
	insuranceRepo repository.InsuranceRepo
}

func NewAccessGuard(insuranceRepo repository.InsuranceRepo) *AccessGuard {
	return &AccessGuard{insuranceRepo: insuranceRepo}
}

// RequireCoverage fails with ErrNoInsurance unless the account's coverage
// flag is currently true. An account that purchased and then filed a claim
// is not covered until it purchases again.
func (g *AccessGuard) RequireCoverage(ctx context.Context, account string) error {
	acct, err := g.insuranceRepo.Get(ctx, account)
	if err != nil {
		return err
	}
	if acct == nil || !acct.Covered {
		return ErrNoInsurance
	}
	return nil
}

// RequireOwnerMatch fails with ErrNotOwner unless the caller is the
// record's owner.
func (g *AccessGuard) RequireOwnerMatch(caller, owner string) error {
	if caller != owner {
		return ErrNotOwner
	}
	return nil
}
