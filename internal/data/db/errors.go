package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the read side reacts to.
const (
	pgQueryCanceled = "57014"
	pgLockTimeout   = "55P03"
)

// IsQueryCanceled reports whether err means the query was cut short, either by
// the caller's context or server side by statement_timeout or lock_timeout.
func IsQueryCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case pgQueryCanceled, pgLockTimeout:
			return true
		}
	}
	return false
}
