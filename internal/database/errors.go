package database

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted is returned when the caller gave up waiting for a free lease.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrConnectionUnavailable is returned when a lease slot was free but the
	// driver could not hand out a working connection.
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrDatabaseUnreachable is returned by Ping. At startup it is fatal.
	ErrDatabaseUnreachable = errors.New("database unreachable")

	// ErrLeaseReleased is returned when a released lease is used again.
	ErrLeaseReleased = errors.New("lease already released")
)

// QueryError wraps any failure of a bound statement: no lease could be
// obtained, or the statement failed after one was.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Statement, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsPoolFailure reports whether err happened before the statement ran.
func IsPoolFailure(err error) bool {
	return errors.Is(err, ErrPoolExhausted) || errors.Is(err, ErrConnectionUnavailable)
}
