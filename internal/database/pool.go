package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Conn is the part of a driver connection a lease exposes.
// *pgxpool.Conn satisfies it.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Release()
}

// Source hands out driver connections to the Pool.
type Source interface {
	Acquire(ctx context.Context) (Conn, error)
	Close()
}

// pgxSource adapts *pgxpool.Pool to Source.
type pgxSource struct {
	pool *pgxpool.Pool
}

func (s pgxSource) Acquire(ctx context.Context) (Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s pgxSource) Close() {
	s.pool.Close()
}

// PoolConfig tunes a Pool.
type PoolConfig struct {
	// Name labels the pool's metrics. Empty means DefaultPoolName.
	Name string

	// MaxConns bounds the number of leases out at the same time.
	MaxConns int32

	// SlowQueryThreshold makes executors warn about slow statements.
	// Zero disables the warning.
	SlowQueryThreshold time.Duration

	Logger *zerolog.Logger
}

// DefaultPoolName labels the metrics of a pool created without a name.
const DefaultPoolName = "default"

// Pool shares a bounded set of connections across concurrent requests.
//
// Acquire blocks while MaxConns leases are out. The bound is enforced here
// with a weighted semaphore, so it holds whatever the Source does.
type Pool struct {
	source    Source
	sem       *semaphore.Weighted
	maxConns  int64
	slowQuery time.Duration
	log       *zerolog.Logger

	name             string
	outstandingGauge prometheus.Gauge

	outstanding atomic.Int64
	acquired    atomic.Uint64
	released    atomic.Uint64
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	MaxConns    int64  `json:"max_conns"`
	Outstanding int64  `json:"outstanding"`
	Acquired    uint64 `json:"acquired"`
	Released    uint64 `json:"released"`
}

// NewPool wraps a connection source. MaxConns below one is treated as one.
// Pools sharing a Name share their gauges, so give each live pool its own.
func NewPool(source Source, cfg PoolConfig) *Pool {
	maxConns := int64(cfg.MaxConns)
	if maxConns < 1 {
		maxConns = 1
	}

	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	name := cfg.Name
	if name == "" {
		name = DefaultPoolName
	}

	LeasesMax.WithLabelValues(name).Set(float64(maxConns))
	outstanding := LeasesOutstanding.WithLabelValues(name)
	outstanding.Set(0)

	return &Pool{
		source:           source,
		sem:              semaphore.NewWeighted(maxConns),
		maxConns:         maxConns,
		slowQuery:        cfg.SlowQueryThreshold,
		log:              logger,
		name:             name,
		outstandingGauge: outstanding,
	}
}

// Acquire checks out a connection. The caller owns the lease until Release.
//
// It fails with ErrPoolExhausted when ctx ends before a lease frees up and
// with ErrConnectionUnavailable when the driver cannot connect.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	start := time.Now()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		AcquireErrors.WithLabelValues(p.name, "exhausted").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}

	conn, err := p.source.Acquire(ctx)
	if err != nil {
		p.sem.Release(1)
		AcquireErrors.WithLabelValues(p.name, "unavailable").Inc()
		return nil, fmt.Errorf("%w: %w", ErrConnectionUnavailable, err)
	}

	p.acquired.Add(1)
	p.outstandingGauge.Set(float64(p.outstanding.Add(1)))
	AcquireDuration.Observe(time.Since(start).Seconds())

	return &Lease{conn: conn, pool: p}, nil
}

func (p *Pool) release() {
	p.released.Add(1)
	p.outstandingGauge.Set(float64(p.outstanding.Add(-1)))
	p.sem.Release(1)
}

// Ping checks connectivity through a freshly acquired lease and releases it.
func (p *Pool) Ping(ctx context.Context) error {
	lease, err := p.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseUnreachable, err)
	}
	defer lease.Release()

	if err := lease.conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseUnreachable, err)
	}
	return nil
}

// Stats returns the current lease counters.
func (p *Pool) Stats() Stats {
	return Stats{
		MaxConns:    p.maxConns,
		Outstanding: p.outstanding.Load(),
		Acquired:    p.acquired.Load(),
		Released:    p.released.Load(),
	}
}

// Close closes the underlying source. Outstanding leases must be released first.
func (p *Pool) Close() {
	p.source.Close()
}

// Lease is a checked-out connection, exclusively owned by whoever acquired it.
type Lease struct {
	conn     Conn
	pool     *Pool
	released atomic.Bool
}

// Query runs sql on the leased connection.
func (l *Lease) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if l.released.Load() {
		return nil, ErrLeaseReleased
	}
	return l.conn.Query(ctx, sql, args...)
}

// Release returns the connection to the pool. Only the first call has an effect.
func (l *Lease) Release() {
	if !l.released.CompareAndSwap(false, true) {
		l.pool.log.Warn().Msg("lease released more than once")
		return
	}
	l.conn.Release()
	l.pool.release()
}
