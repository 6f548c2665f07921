// Package database contains the logic for establishing connections to
// PostgreSQL and sharing them across requests.
//
// It handles:
//   - building a DSN and session settings from config
//   - creating the pgx connection pool behind a bounded lease Pool
//   - wiring query tracing (pgx tracelog, optional New Relic nrpgx5)
//   - binding parameterized statements into reusable Executors
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"

	"github.com/deppfellow/tv-shows/internal/config"
	loggerConfig "github.com/deppfellow/tv-shows/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database owns the process-wide pool.
type Database struct {
	Pool *Pool
	log  *zerolog.Logger
}

// multiTracer fans pgx query tracing out to several tracers, since pgx
// only has one tracer slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range mt.tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range mt.tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// DSN builds the postgres URL for cfg, escaping credentials.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     hostPort,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return dsn.String()
}

var utcOffset = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// SessionTimeZone converts a configured timezone into a PostgreSQL TimeZone
// value. UTC offsets such as "+08:00" become POSIX specs, whose sign is
// inverted ("<+0800>-08:00"). Zone names pass through unchanged.
func SessionTimeZone(tz string) string {
	m := utcOffset.FindStringSubmatch(tz)
	if m == nil {
		return tz
	}

	posixSign := "-"
	if m[1] == "-" {
		posixSign = "+"
	}
	return fmt.Sprintf("<%s%s%s>%s%s:%s", m[1], m[2], m[3], posixSign, m[2], m[3])
}

// New creates the pool and pings the database through it.
//
// An unreachable database is reported as ErrDatabaseUnreachable and the
// pool is closed again; callers treat that as fatal.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = cfg.Database.MaxConns
	pgxPoolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgxPoolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pgxPoolConfig.ConnConfig.RuntimeParams["timezone"] = SessionTimeZone(cfg.Database.Timezone)

	var tracers []pgx.QueryTracer
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL logging is noisy, so only in local runs.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pgxPool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	poolConfig := PoolConfig{
		Name:     cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
		Logger:   logger,
	}
	if cfg.Observability != nil {
		poolConfig.SlowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}
	pool := NewPool(pgxSource{pool: pgxPool}, poolConfig)

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("pinging the database")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.PingTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Int32("max_conns", cfg.Database.MaxConns).
		Msg("connected to the database")

	return &Database{
		Pool: pool,
		log:  logger,
	}, nil
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
