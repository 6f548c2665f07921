package sqlerr

import (
	"context"
	"errors"
	"strings"

	"github.com/deppfellow/tv-shows/internal/database"
	"github.com/deppfellow/tv-shows/internal/errs"
	"github.com/deppfellow/tv-shows/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classify reports the Code for err. It is meant for log fields and
// metrics; the client only ever sees what HandleError returns.
func Classify(err error) Code {
	var sqlErr *Error
	var pgErr *pgconn.PgError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, repository.ErrShowNotFound), errors.Is(err, pgx.ErrNoRows):
		return NotFound
	case errors.Is(err, database.ErrPoolExhausted):
		return PoolExhausted
	case errors.Is(err, database.ErrConnectionUnavailable):
		return ConnectionUnavailable
	case errors.Is(err, database.ErrDatabaseUnreachable):
		return DatabaseUnreachable
	case errors.As(err, &sqlErr):
		return sqlErr.Code
	case errors.As(err, &pgErr):
		return MapCode(pgErr.Code)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Canceled
	}
	return Other
}

// HandleError converts err into an *errs.HTTPError.
//
//   - an *errs.HTTPError is returned unchanged
//   - a not found outcome becomes a 404
//   - anything else becomes a generic 500
func HandleError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if Classify(err) == NotFound {
		if errors.Is(err, repository.ErrShowNotFound) {
			code := "SHOW_NOT_FOUND"
			return errs.NewNotFoundError(sentence(repository.ErrShowNotFound.Error()), true, &code)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

// sentence upper-cases the first word: "show not found" -> "Show not found".
func sentence(text string) string {
	first, rest, _ := strings.Cut(text, " ")
	if rest == "" {
		return cases.Title(language.English).String(first)
	}
	return cases.Title(language.English).String(first) + " " + rest
}
