package database

import (
	"context"
	"database/sql"
	"fmt"

	"reminder_dispatch_job/internal/domain/reminder"

	"github.com/lib/pq" // For pq.Array
)

var ErrReminderNotFound = fmt.Errorf("reminder not found")

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) ListActiveByUIDs(ctx context.Context, uids []string) ([]*reminder.Reminder, error) {
	reminders := make([]*reminder.Reminder, 0)
	if len(uids) == 0 {
		return reminders, nil
	}

	query := `SELECT id, uid, phone, number, active, created_at, updated_at
               FROM reminders
               WHERE active = TRUE AND uid = ANY($1::varchar[])
               ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uids))
	if err != nil {
		return nil, fmt.Errorf("error listing active reminders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rem := &reminder.Reminder{}
		if err := rows.Scan(&rem.ID, &rem.UID, &rem.Phone, &rem.Number, &rem.Active, &rem.CreatedAt, &rem.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active reminders: %w", err)
	}
	return reminders, nil
}

func (r *PostgresReminderRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE reminders SET active = FALSE, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating reminder %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for reminder %d: %w", id, err)
	}
	if affected == 0 {
		return ErrReminderNotFound
	}
	return nil
}
