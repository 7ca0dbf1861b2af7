package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"car_chronicle/internal/models"

	"github.com/google/uuid"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

var _ NotificationRepo = (*NotificationSQLite)(nil)

// sqlExecer is satisfied by both *sql.DB and *sql.Tx, so the notification
// insert can run standalone or inside a caller-owned transaction.
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertNotificationSQL = `
	INSERT INTO notifications (id, occurred_at, type, account, amount)
	VALUES (?, ?, ?, ?, ?)
`

// insertNotification writes one audit event. If EventID or OccurredAt are
// empty, they're set.
func insertNotification(ctx context.Context, ex sqlExecer, n models.Notification) error {
	if n.EventID == "" {
		n.EventID = uuid.NewString()
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	} else {
		n.OccurredAt = n.OccurredAt.UTC()
	}

	_, err := ex.ExecContext(ctx, insertNotificationSQL,
		n.EventID,
		n.OccurredAt.Format("2006-01-02 15:04:05"), // SQLite TIMESTAMP format
		strings.ToUpper(strings.TrimSpace(n.Type)),
		n.Account,
		n.Amount,
	)
	return err
}


// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *NotificationSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.Notification, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := `SELECT id, occurred_at, type, account, amount FROM notifications`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Notification, 0, 64)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.EventID, &n.OccurredAt, &n.Type, &n.Account, &n.Amount); err != nil {
			return nil, err
		}
		n.OccurredAt = n.OccurredAt.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
