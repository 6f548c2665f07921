package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/tv-shows/internal/database"
	"github.com/deppfellow/tv-shows/internal/errs"
	"github.com/deppfellow/tv-shows/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"57014": QueryCanceled,
		"57P01": AdminShutdown,
		"42P01": UndefinedObject,
		"22P02": InvalidInput,
		"08006": ConnectionException,
		"53300": InsufficientResources,
		"23505": Other,
	}

	for sqlstate, want := range tests {
		assert.Equal(t, want, MapCode(sqlstate), sqlstate)
	}
}

func TestClassify(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Severity: "ERROR", Message: `relation "tv_shows" does not exist`}

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "show not found", err: repository.ErrShowNotFound, want: NotFound},
		{name: "no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: NotFound},
		{name: "pool exhausted", err: &database.QueryError{Statement: "list_shows", Err: database.ErrPoolExhausted}, want: PoolExhausted},
		{name: "connection unavailable", err: &database.QueryError{Statement: "get_show", Err: database.ErrConnectionUnavailable}, want: ConnectionUnavailable},
		{name: "unreachable", err: database.ErrDatabaseUnreachable, want: DatabaseUnreachable},
		{name: "postgres", err: &database.QueryError{Statement: "list_shows", Err: pgErr}, want: UndefinedObject},
		{name: "converted", err: ConvertPgError(pgErr), want: UndefinedObject},
		{name: "canceled", err: &database.QueryError{Statement: "list_shows", Err: context.Canceled}, want: Canceled},
		{name: "other", err: errors.New("boom"), want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestHandleError_NotFound(t *testing.T) {
	err := HandleError(repository.ErrShowNotFound)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Show not found", httpErr.Message)
	assert.Equal(t, "SHOW_NOT_FOUND", httpErr.Code)
}

func TestHandleError_GenericNoRows(t *testing.T) {
	var httpErr *errs.HTTPError
	require.ErrorAs(t, HandleError(pgx.ErrNoRows), &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "NOT_FOUND", httpErr.Code)
}

func TestHandleError_FailuresAreOpaque(t *testing.T) {
	failures := []error{
		&database.QueryError{Statement: "list_shows", Err: database.ErrPoolExhausted},
		&database.QueryError{Statement: "get_show", Err: &pgconn.PgError{Code: "08006", Message: "secret host detail"}},
		errors.New("anything else"),
	}

	for _, failure := range failures {
		var httpErr *errs.HTTPError
		require.ErrorAs(t, HandleError(failure), &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.NotContains(t, httpErr.Message, "secret")
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewBadRequestError("bad offset", true, nil, nil)
	assert.Same(t, in, HandleError(fmt.Errorf("bind: %w", in)))
}

func TestConvertPgError(t *testing.T) {
	src := &pgconn.PgError{Code: "57014", Severity: "ERROR", Message: "canceling statement due to user request", TableName: "tv_shows"}
	got := ConvertPgError(src)

	assert.Equal(t, QueryCanceled, got.Code)
	assert.Equal(t, "tv_shows", got.TableName)
	assert.ErrorIs(t, got, src)
	assert.Contains(t, got.Error(), "57014")
}
