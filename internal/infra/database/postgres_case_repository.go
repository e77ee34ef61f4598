package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reminder_dispatch_job/internal/domain/instance"
)

// PostgresCaseRepository reads the case table fed by the external scheduling system.
// Cases of every instance share one table and are told apart by the instance column.
type PostgresCaseRepository struct {
	db *sql.DB
}

func NewPostgresCaseRepository(db *sql.DB) *PostgresCaseRepository {
	return &PostgresCaseRepository{db: db}
}

// FindAll returns the cases of instanceName dated in [start, end).
func (r *PostgresCaseRepository) FindAll(ctx context.Context, instanceName string, start, end time.Time) ([]instance.Case, error) {
	query := `SELECT uid, number, name, date, court_name, address
               FROM cases
               WHERE instance = $1 AND date >= $2 AND date < $3
               ORDER BY date, uid`

	rows, err := r.db.QueryContext(ctx, query, instanceName, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing cases for instance %s: %w", instanceName, err)
	}
	defer rows.Close()

	cases := make([]instance.Case, 0)
	for rows.Next() {
		var c instance.Case
		if err := rows.Scan(&c.UID, &c.Number, &c.Name, &c.Date, &c.CourtName, &c.Address); err != nil {
			return nil, fmt.Errorf("error scanning case: %w", err)
		}
		cases = append(cases, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cases: %w", err)
	}
	return cases, nil
}
