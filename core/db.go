package core

import (
	"context"
	"database/sql"
)

type (
	// DBExecutor is the subset of sqlx.DB/sqlx.Tx the repositories need.
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// StoreContext bounds a datastore round trip with the configured storeTimeout.
func StoreContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, Conf.GetDuration("storeTimeout"))
}
