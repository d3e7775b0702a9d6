package database

import (
	"context"
	"database/sql"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
)

// Postgres error codes we care about.
const (
	pqInsufficientPrivilege = "42501"
	pqForeignKeyViolation   = "23503"
	pqUndefinedTable        = "42P01"
)

// trapErr maps driver errors onto the core store-fault sentinels so callers
// can distinguish permission, reference, schema and availability failures.
// sql.ErrNoRows is passed through untouched; repositories map it onto their
// domain's not-found sentinel themselves.
func trapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqInsufficientPrivilege:
			return errors.Wrap(core.ErrPermissionDenied, msg)
		case pqForeignKeyViolation:
			return errors.Wrap(core.ErrReferenceMissing, msg)
		case pqUndefinedTable:
			return errors.Wrap(core.ErrSchemaMissing, msg)
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return errors.Wrap(core.ErrStoreUnavailable, msg)
	}

	return errors.Wrap(err, msg)
}
