package sqlerr

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is the category of a database failure.
type Code string

const (
	Other                 Code = "other"
	NotFound              Code = "not_found"
	PoolExhausted         Code = "pool_exhausted"
	ConnectionUnavailable Code = "connection_unavailable"
	DatabaseUnreachable   Code = "database_unreachable"
	Canceled              Code = "canceled"
	ConnectionException   Code = "connection_exception"
	InsufficientResources Code = "insufficient_resources"
	UndefinedObject       Code = "undefined_object"
	InvalidInput          Code = "invalid_input"
	QueryCanceled         Code = "query_canceled"
	AdminShutdown         Code = "admin_shutdown"
)

// MapCode maps a SQLSTATE to a Code. Exact matches win over class matches.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "57014":
		return QueryCanceled
	case "57P01", "57P02", "57P03":
		return AdminShutdown
	case "42P01", "42703", "42883":
		return UndefinedObject
	case "22P02", "22003", "22023":
		return InvalidInput
	}

	switch {
	case strings.HasPrefix(sqlstate, "08"):
		return ConnectionException
	case strings.HasPrefix(sqlstate, "53"):
		return InsufficientResources
	}
	return Other
}

// Error is a normalized Postgres error.
type Error struct {
	Code         Code
	DatabaseCode string
	Severity     string
	Message      string
	TableName    string
	ColumnName   string

	driverErr error
}

func (e *Error) Error() string {
	return e.Severity + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// ConvertPgError converts a raw pgconn.PgError into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:         MapCode(src.Code),
		DatabaseCode: src.Code,
		Severity:     src.Severity,
		Message:      src.Message,
		TableName:    src.TableName,
		ColumnName:   src.ColumnName,
		driverErr:    src,
	}
}
