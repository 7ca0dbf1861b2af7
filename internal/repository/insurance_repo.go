package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"car_chronicle/internal/models"
)

type InsuranceSQLite struct {
	db *sql.DB
}

func NewInsuranceSQLite(db *sql.DB) *InsuranceSQLite { return &InsuranceSQLite{db: db} }

var _ InsuranceRepo = (*InsuranceSQLite)(nil)

const (
	upsertInsuranceSQL = `
		INSERT INTO insurance (account, premium, covered) VALUES (?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			premium=excluded.premium,
			covered=excluded.covered
	`
	selectInsuranceSQL = `SELECT account, premium, covered FROM insurance WHERE account = ?`
)

// Get fetches the coverage state for an account. Returns (nil, nil) when
// the account has never purchased.
func (r *InsuranceSQLite) Get(ctx context.Context, account string) (*models.InsuranceAccount, error) {
	var acct models.InsuranceAccount
	err := r.db.QueryRowContext(ctx, selectInsuranceSQL, account).
		Scan(&acct.Account, &acct.Premium, &acct.Covered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select insurance for %q: %w", account, err)
	}
	return &acct, nil
}

// SaveWithEvent upserts the account's coverage state and appends the audit
// notification in one transaction: a failed event write rolls the coverage
// change back too.
func (r *InsuranceSQLite) SaveWithEvent(ctx context.Context, acct models.InsuranceAccount, n models.Notification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insurance update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, upsertInsuranceSQL,
		acct.Account, acct.Premium, acct.Covered,
	); err != nil {
		return fmt.Errorf("upsert insurance for %q: %w", acct.Account, err)
	}

	if err := insertNotification(ctx, tx, n); err != nil {
		return fmt.Errorf("append notification for %q: %w", acct.Account, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insurance update: %w", err)
	}
	return nil
}
