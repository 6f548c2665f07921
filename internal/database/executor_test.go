package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	ID   int
	Name string
}

func scanPair(row pgx.CollectableRow) (pair, error) {
	var p pair
	err := row.Scan(&p.ID, &p.Name)
	return p, err
}

const pairSQL = "select id, name from pairs limit $1 offset $2"

func TestExecutor_Execute(t *testing.T) {
	source := &fakeSource{rows: [][]any{{2, "b"}, {1, "a"}}}
	pool := NewPool(source, PoolConfig{MaxConns: 2})
	exec := NewExecutor(pool, "list_pairs", pairSQL, scanPair)

	got, err := exec.Execute(context.Background(), 20, 40)
	require.NoError(t, err)

	assert.Equal(t, []pair{{2, "b"}, {1, "a"}}, got)
	assert.Equal(t, pairSQL, source.lastCall().sql)
	assert.Equal(t, []any{20, 40}, source.lastCall().args)
	assert.Equal(t, []int32{1}, source.releaseCounts())
	assert.Equal(t, int64(0), pool.Stats().Outstanding)
}

func TestExecutor_EmptyResult(t *testing.T) {
	source := &fakeSource{}
	exec := NewExecutor(NewPool(source, PoolConfig{MaxConns: 1}), "list_pairs", pairSQL, scanPair)

	got, err := exec.Execute(context.Background(), 20, 1000)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExecutor_FailuresReleaseLease(t *testing.T) {
	boom := errors.New("relation \"pairs\" does not exist")

	tests := []struct {
		name   string
		source *fakeSource
		scan   pgx.RowToFunc[pair]
	}{
		{
			name:   "query error",
			source: &fakeSource{queryErr: boom},
			scan:   scanPair,
		},
		{
			name:   "rows error",
			source: &fakeSource{rowsErr: boom},
			scan:   scanPair,
		},
		{
			name:   "scan error",
			source: &fakeSource{rows: [][]any{{1, "a"}}},
			scan: func(row pgx.CollectableRow) (pair, error) {
				return pair{}, boom
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.source, PoolConfig{MaxConns: 1})
			exec := NewExecutor(pool, "list_pairs", pairSQL, tt.scan)

			got, err := exec.Execute(context.Background(), 20, 0)
			assert.Nil(t, got)

			var qe *QueryError
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, "list_pairs", qe.Statement)
			assert.ErrorIs(t, err, boom)
			assert.False(t, IsPoolFailure(err))

			assert.Equal(t, []int32{1}, tt.source.releaseCounts())
			assert.Equal(t, int64(0), pool.Stats().Outstanding)
		})
	}
}

func TestExecutor_PanicReleasesLease(t *testing.T) {
	source := &fakeSource{rows: [][]any{{1, "a"}}}
	pool := NewPool(source, PoolConfig{MaxConns: 1})
	exec := NewExecutor(pool, "list_pairs", pairSQL, func(row pgx.CollectableRow) (pair, error) {
		panic("mapper bug")
	})

	assert.Panics(t, func() {
		_, _ = exec.Execute(context.Background(), 20, 0)
	})

	assert.Equal(t, []int32{1}, source.releaseCounts())
	assert.Equal(t, int64(0), pool.Stats().Outstanding)
}

func TestExecutor_PoolFailure(t *testing.T) {
	source := &fakeSource{acquireErr: errors.New("connection refused")}
	exec := NewExecutor(NewPool(source, PoolConfig{MaxConns: 1}), "list_pairs", pairSQL, scanPair)

	_, err := exec.Execute(context.Background(), 20, 0)

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.ErrorIs(t, err, ErrConnectionUnavailable)
	assert.True(t, IsPoolFailure(err))
	assert.Empty(t, source.calls)
}

func TestExecutor_NoRetry(t *testing.T) {
	source := &fakeSource{queryErr: errors.New("deadlock detected")}
	exec := NewExecutor(NewPool(source, PoolConfig{MaxConns: 1}), "list_pairs", pairSQL, scanPair)

	_, err := exec.Execute(context.Background(), 20, 0)
	require.Error(t, err)
	assert.Len(t, source.calls, 1)
}

func TestExecutor_ConcurrentCallsBalanceLeases(t *testing.T) {
	const (
		maxConns = 2
		callers  = 30
	)

	source := &fakeSource{rows: [][]any{{1, "a"}}}
	pool := NewPool(source, PoolConfig{MaxConns: maxConns})
	exec := NewExecutor(pool, "list_pairs", pairSQL, scanPair)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exec.Execute(context.Background(), 20, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, source.maxLive.Load(), int32(maxConns))
	stats := pool.Stats()
	assert.Equal(t, uint64(callers), stats.Acquired)
	assert.Equal(t, stats.Acquired, stats.Released)
	for _, n := range source.releaseCounts() {
		assert.Equal(t, int32(1), n)
	}
}

func TestExecutor_CancelledWhileQuerying(t *testing.T) {
	source := &fakeSource{block: make(chan struct{})}
	pool := NewPool(source, PoolConfig{MaxConns: 1})
	exec := NewExecutor(pool, "list_pairs", pairSQL, scanPair)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := exec.Execute(ctx, 20, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(0), pool.Stats().Outstanding)
}

func TestExecutor_Accessors(t *testing.T) {
	exec := NewExecutor(NewPool(&fakeSource{}, PoolConfig{MaxConns: 1}), "list_pairs", pairSQL, scanPair)
	assert.Equal(t, "list_pairs", exec.Name())
	assert.Equal(t, pairSQL, exec.SQL())
}
