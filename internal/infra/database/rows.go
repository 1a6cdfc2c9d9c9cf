package database

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// parseID converts a public id to the BIGSERIAL key. ok is false for ids that
// cannot exist in the table.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func pageOffset(page int) int {
	return (page - 1) * pageSize
}

func utcNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
