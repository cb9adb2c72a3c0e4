package sqlerr

import (
	"context"
	"errors"
	"net"

	"github.com/deppfellow/ledger/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCode reports the sqlerr.Code for err.
//
// Behavior:
//   - If err wraps a *sqlerr.Error, return its Code.
//   - If err wraps a *pgconn.PgError, map its SQLSTATE.
//   - Otherwise return Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// HandleError converts a low-level database error into a *errs.StoreError
// for operation op.
//
// Output:
//   - nil for a nil err
//   - an existing *errs.StoreError, re-tagged with op
//   - context cancellation or deadline: CodeCanceled
//   - pgconn.PgError: classified by SQLSTATE, Message is the server's message
//   - connect/network failures: CodeUnavailable
//   - pgx.ErrNoRows: CodeNotFound
//   - anything else: CodeUnknown
//
// The original error stays reachable through Unwrap.
func HandleError(op string, err error) *errs.StoreError {
	if err == nil {
		return nil
	}

	if se, ok := errs.As(err); ok {
		if se.Op == op {
			return se
		}
		return se.WithOp(op)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errs.New(op, errs.CodeCanceled, err)
	}

	// Authentication failures arrive as a PgError wrapped in a
	// ConnectError, so this check has to come first.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		se := errs.New(op, classify(sqlErr.Code), err)
		se.Message = sqlErr.Message
		return se
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return errs.New(op, errs.CodeUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.Timeout(err) {
		return errs.New(op, errs.CodeUnavailable, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.New(op, errs.CodeNotFound, err)
	}

	return errs.New(op, errs.CodeUnknown, err)
}

func classify(c Code) errs.Code {
	switch c {
	case UniqueViolation, ForeignKeyViolation, NotNullViolation, CheckViolation,
		StringDataTruncation, NumericOutOfRange:
		return errs.CodeConstraint
	case InvalidPassword, InvalidAuthorization:
		return errs.CodeUnauthenticated
	case InvalidCatalogName, ConnectionFailure, AdminShutdown, TooManyConnections:
		return errs.CodeUnavailable
	case UndefinedTable, UndefinedColumn:
		return errs.CodeUndefinedRelation
	case SyntaxError:
		return errs.CodeInvalidStatement
	case QueryCanceled:
		return errs.CodeCanceled
	default:
		return errs.CodeUnknown
	}
}
