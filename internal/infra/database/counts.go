package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// RecordCounts reports the number of customers and leads in Postgres.
func RecordCounts(ctx context.Context, db *sql.DB) (map[string]int, error) {
	var customers, leads int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM customers), (SELECT COUNT(*) FROM leads)`).
		Scan(&customers, &leads)
	if err != nil {
		return nil, errors.Wrap(err, "count records")
	}
	return map[string]int{"customers": customers, "leads": leads}, nil
}
