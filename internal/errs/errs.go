// Package errs defines the error type returned by the ledger store.
//
// Every failure below the service boundary, whether a dropped
// connection, a bad password or a constraint violation, is reported
// as a *StoreError so callers have one shape to inspect.
package errs
