package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows is an in-memory pgx.Rows over string columns.
type fakeRows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *fakeRows) Conn() *pgx.Conn { return nil }
func (r *fakeRows) RawValues() [][]byte {
	return nil
}

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil || r.idx >= len(r.data) {
		r.closed = true
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		default:
			return errors.New("scan: unsupported destination")
		}
	}
	return nil
}

// call records one Query invocation.
type call struct {
	sql  string
	args []any
}

// fakeConn counts releases and replays canned results.
type fakeConn struct {
	source   *fakeSource
	released atomic.Int32
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.source.query(ctx, sql, args)
}

func (c *fakeConn) Ping(ctx context.Context) error {
	return c.source.pingErr
}

func (c *fakeConn) Release() {
	c.released.Add(1)
	c.source.live.Add(-1)
}

// fakeSource hands out fakeConns and tracks how many are live at once.
type fakeSource struct {
	mu         sync.Mutex
	calls      []call
	rows       [][]any
	queryErr   error
	rowsErr    error
	acquireErr error
	pingErr    error
	block      chan struct{}

	conns   []*fakeConn
	live    atomic.Int32
	maxLive atomic.Int32
	closed  atomic.Bool
}

func (s *fakeSource) Acquire(ctx context.Context) (Conn, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}

	n := s.live.Add(1)
	for {
		m := s.maxLive.Load()
		if n <= m || s.maxLive.CompareAndSwap(m, n) {
			break
		}
	}

	conn := &fakeConn{source: s}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()
	return conn, nil
}

func (s *fakeSource) Close() {
	s.closed.Store(true)
}

func (s *fakeSource) query(ctx context.Context, sql string, args []any) (pgx.Rows, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{sql: sql, args: args})
	s.mu.Unlock()

	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &fakeRows{data: s.rows, err: s.rowsErr}, nil
}

func (s *fakeSource) lastCall() call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// releaseCounts returns how often each handed-out connection was released.
func (s *fakeSource) releaseCounts() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make([]int32, len(s.conns))
	for i, c := range s.conns {
		counts[i] = c.released.Load()
	}
	return counts
}
