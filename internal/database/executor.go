package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Executor binds one parameterized statement to a pool.
//
// It is built once at startup and never changes afterwards, so a single
// Executor is shared by all requests. Every Execute call takes its own lease.
type Executor[T any] struct {
	name string
	sql  string
	pool *Pool
	scan pgx.RowToFunc[T]
}

// NewExecutor binds sql to pool. scan maps one result row to T.
func NewExecutor[T any](pool *Pool, name, sql string, scan pgx.RowToFunc[T]) *Executor[T] {
	return &Executor[T]{
		name: name,
		sql:  sql,
		pool: pool,
		scan: scan,
	}
}

// Name returns the statement name used in logs and metrics.
func (e *Executor[T]) Name() string {
	return e.name
}

// SQL returns the bound statement text.
func (e *Executor[T]) SQL() string {
	return e.sql
}

// Execute runs the statement with params bound positionally and returns all
// rows, possibly none. Failures come back as *QueryError and are never
// retried. The lease is released on every exit path, panics included.
func (e *Executor[T]) Execute(ctx context.Context, params ...any) ([]T, error) {
	start := time.Now()

	lease, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, e.fail(ctx, err, start)
	}
	defer lease.Release()

	rows, err := lease.Query(ctx, e.sql, params...)
	if err != nil {
		if rows != nil {
			rows.Close()
		}
		return nil, e.fail(ctx, err, start)
	}

	// CollectRows closes rows before the lease goes back.
	result, err := pgx.CollectRows(rows, e.scan)
	if err != nil {
		return nil, e.fail(ctx, err, start)
	}

	elapsed := time.Since(start)
	QueryDuration.WithLabelValues(e.name).Observe(elapsed.Seconds())

	if e.pool.slowQuery > 0 && elapsed > e.pool.slowQuery {
		e.logger(ctx).Warn().
			Str("statement", e.name).
			Dur("duration", elapsed).
			Int("rows", len(result)).
			Msg("slow query")
	}

	return result, nil
}

func (e *Executor[T]) fail(ctx context.Context, err error, start time.Time) error {
	QueryErrors.WithLabelValues(e.name).Inc()

	e.logger(ctx).Debug().
		Err(err).
		Str("statement", e.name).
		Dur("duration", time.Since(start)).
		Msg("query failed")

	return &QueryError{Statement: e.name, Err: err}
}

// logger prefers the request-scoped logger carried by ctx.
func (e *Executor[T]) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return e.pool.log
}
