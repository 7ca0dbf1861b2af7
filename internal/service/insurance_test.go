package service

import (
	"context"
	"errors"
	"testing"

	"car_chronicle/internal/models"
)

// fakeInsuranceRepo is an in-memory InsuranceRepo. SaveWithEvent mirrors
// the real transactional behavior: on eventErr neither the account state
// nor the event list is touched.
type fakeInsuranceRepo struct {
	accounts map[string]models.InsuranceAccount
	events   []models.Notification

	getErr   error
	saveErr  error
	eventErr error
}

func newFakeInsuranceRepo() *fakeInsuranceRepo {
	return &fakeInsuranceRepo{accounts: map[string]models.InsuranceAccount{}}
}

func (f *fakeInsuranceRepo) Get(ctx context.Context, account string) (*models.InsuranceAccount, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	acct, ok := f.accounts[account]
	if !ok {
		return nil, nil
	}
	cp := acct
	return &cp, nil
}

func (f *fakeInsuranceRepo) SaveWithEvent(ctx context.Context, acct models.InsuranceAccount, n models.Notification) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.eventErr != nil {
		return f.eventErr
	}
	f.accounts[acct.Account] = acct
	f.events = append(f.events, n)
	return nil
}

func newInsuranceService() (*InsuranceService, *fakeInsuranceRepo) {
	repo := newFakeInsuranceRepo()
	return NewInsuranceService(repo), repo
}

func TestInsurance_PurchaseStoresDefaultPremiumEmitsRequested(t *testing.T) {
	svc, repo := newInsuranceService()

	if err := svc.Purchase(context.Background(), "alice", 5000); err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	acct := repo.accounts["alice"]
	if acct.Premium != models.DefaultPremium {
		t.Fatalf("stored premium: want %d, got %d", models.DefaultPremium, acct.Premium)
	}
	if !acct.Covered {
		t.Fatalf("expected covered=true after purchase")
	}

	covered, err := svc.HasActiveCoverage(context.Background(), "alice")
	if err != nil || !covered {
		t.Fatalf("HasActiveCoverage: %v, %v", covered, err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.events))
	}
	n := repo.events[0]
	if n.Type != models.NotificationInsurancePurchased || n.Account != "alice" || n.Amount != 5000 {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestInsurance_SecondPurchaseRejected(t *testing.T) {
	svc, _ := newInsuranceService()

	if err := svc.Purchase(context.Background(), "alice", 100); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	err := svc.Purchase(context.Background(), "alice", 100)
	if !errors.Is(err, ErrAlreadyHasInsurance) {
		t.Fatalf("expected ErrAlreadyHasInsurance, got %v", err)
	}
}

func TestInsurance_PurchaseZeroPremium(t *testing.T) {
	svc, repo := newInsuranceService()

	err := svc.Purchase(context.Background(), "alice", 0)
	if !errors.Is(err, ErrNoPremiumProvided) {
		t.Fatalf("expected ErrNoPremiumProvided, got %v", err)
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("state mutated on rejected purchase")
	}
	if len(repo.events) != 0 {
		t.Fatalf("notification emitted on rejected purchase")
	}
}

func TestInsurance_PurchaseDiscardedWhenEventWriteFails(t *testing.T) {
	svc, repo := newInsuranceService()
	repo.eventErr = errors.New("notifications table unavailable")

	if err := svc.Purchase(context.Background(), "alice", 100); err == nil {
		t.Fatalf("expected error from failing event write")
	}

	covered, err := svc.HasActiveCoverage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("HasActiveCoverage: %v", err)
	}
	if covered {
		t.Fatalf("coverage retained despite failed purchase")
	}
	if len(repo.accounts) != 0 || len(repo.events) != 0 {
		t.Fatalf("partial state after failed purchase: %v, %v", repo.accounts, repo.events)
	}
}

func TestInsurance_ClaimDiscardedWhenEventWriteFails(t *testing.T) {
	svc, repo := newInsuranceService()

	if err := svc.Purchase(context.Background(), "alice", 100); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	repo.eventErr = errors.New("notifications table unavailable")

	if _, err := svc.FileClaim(context.Background(), "alice"); err == nil {
		t.Fatalf("expected error from failing event write")
	}

	covered, err := svc.HasActiveCoverage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("HasActiveCoverage: %v", err)
	}
	if !covered {
		t.Fatalf("coverage reset retained despite failed claim")
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected only the purchase notification, got %d", len(repo.events))
	}
}

func TestInsurance_IsPremiumPaying(t *testing.T) {
	svc, _ := newInsuranceService()

	// never purchased
	if _, err := svc.IsPremiumPaying(context.Background(), "alice"); !errors.Is(err, ErrNoInsurance) {
		t.Fatalf("expected ErrNoInsurance, got %v", err)
	}

	if err := svc.Purchase(context.Background(), "alice", 100); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	paying, err := svc.IsPremiumPaying(context.Background(), "alice")
	if err != nil || !paying {
		t.Fatalf("IsPremiumPaying after purchase: %v, %v", paying, err)
	}

	// filing a claim resets coverage but not the premium record
	if _, err := svc.FileClaim(context.Background(), "alice"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	paying, err = svc.IsPremiumPaying(context.Background(), "alice")
	if err != nil || !paying {
		t.Fatalf("IsPremiumPaying after claim: %v, %v", paying, err)
	}
	covered, err := svc.HasActiveCoverage(context.Background(), "alice")
	if err != nil || covered {
		t.Fatalf("expected covered=false after claim, got %v, %v", covered, err)
	}
}

func TestInsurance_HasActiveCoverageDefaultsFalse(t *testing.T) {
	svc, _ := newInsuranceService()
	covered, err := svc.HasActiveCoverage(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("HasActiveCoverage: %v", err)
	}
	if covered {
		t.Fatalf("unknown account reported as covered")
	}
}

func TestInsurance_FileClaimWithoutPurchase(t *testing.T) {
	svc, _ := newInsuranceService()
	_, err := svc.FileClaim(context.Background(), "alice")
	if !errors.Is(err, ErrNoInsurance) {
		t.Fatalf("expected ErrNoInsurance, got %v", err)
	}
}

func TestInsurance_ClaimPaysStoredPremiumNotRequested(t *testing.T) {
	svc, repo := newInsuranceService()

	// offer far more than the default; the stored premium wins at claim time
	if err := svc.Purchase(context.Background(), "alice", 9999); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	paid, err := svc.FileClaim(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FileClaim: %v", err)
	}
	if paid != models.DefaultPremium {
		t.Fatalf("paid amount: want %d, got %d", models.DefaultPremium, paid)
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(repo.events))
	}
	claim := repo.events[1]
	if claim.Type != models.NotificationClaimFiled || claim.Amount != models.DefaultPremium {
		t.Fatalf("unexpected claim notification: %+v", claim)
	}
}

func TestInsurance_RepurchaseAfterClaim(t *testing.T) {
	svc, _ := newInsuranceService()

	if err := svc.Purchase(context.Background(), "alice", 100); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := svc.FileClaim(context.Background(), "alice"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := svc.Purchase(context.Background(), "alice", 200); err != nil {
		t.Fatalf("re-purchase after claim: %v", err)
	}
	covered, err := svc.HasActiveCoverage(context.Background(), "alice")
	if err != nil || !covered {
		t.Fatalf("expected coverage restored, got %v, %v", covered, err)
	}
}
