package errors

// Postgres glue: maps pgx errors onto ErrorCode, attributes constraint
// failures to a column, and decides transaction retry worthiness. Callers
// branch on the mapped code via IsCode rather than re-inspecting SQLSTATEs.

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values the classifier distinguishes
const (
	sqlstateUniqueViolation      = "23505"
	sqlstateForeignKeyViolation  = "23503"
	sqlstateNotNullViolation     = "23502"
	sqlstateCheckViolation       = "23514"
	sqlstateStringTruncation     = "22001"
	sqlstateInvalidText          = "22P02"
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
	sqlstateReadOnlyTxn          = "25006"
	sqlstateCannotConnectNow     = "57P03" // server still starting up
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// classifyPG maps a Postgres error to an ErrorCode. !ok means err carried no
// PgError and the caller falls back to the generic DB code
func classifyPG(err error) (ErrorCode, bool) {
	pe, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pe.Code {
	case sqlstateUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case sqlstateForeignKeyViolation:
		// input referenced a missing row, so treat it as bad input
		return ErrorCodeInvalidArgument, true
	case sqlstateNotNullViolation, sqlstateCheckViolation:
		return ErrorCodeValidation, true
	case sqlstateStringTruncation, sqlstateInvalidText:
		return ErrorCodeInvalidArgument, true
	case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
		// server-side contention, retryable
		return ErrorCodeDB, true
	case sqlstateReadOnlyTxn, sqlstateCannotConnectNow:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a database error under its mapped ErrorCode.
// nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := classifyPG(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// AttachFieldFromPg copies the offending column out of a PgError onto the
// error's field, preferring ColumnName over the constraint name's last
// token (model_snapshot_source_key carries "key", which says nothing, so
// that token is skipped). Errors without usable metadata pass through
func AttachFieldFromPg(err error) error {
	pe, ok := pgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pe.ColumnName); col != "" {
		return WithField(err, col)
	}
	c := strings.TrimSpace(pe.ConstraintName)
	if i := strings.LastIndex(c, "_"); i >= 0 && i+1 < len(c) {
		c = c[i+1:]
	}
	if c != "" && c != "key" {
		return WithField(err, c)
	}
	return err
}

// Generic driver texts that indicate transient contention. pgx reports
// commit-time aborts and server-side timeouts this way, without a PgError
var retryableTexts = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to statement timeout",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
	"terminating connection due to administrator command",
}

// IsRetryable reports whether a database error is transient contention worth
// another attempt. Local cancellations and deadlines are never retried here;
// the caller owns those
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		switch pe.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(err.Error())
	for _, t := range retryableTexts {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
