package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_AcquireRelease(t *testing.T) {
	source := &fakeSource{}
	pool := NewPool(source, PoolConfig{MaxConns: 2})

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pool.Stats().Outstanding)

	lease.Release()

	stats := pool.Stats()
	assert.Equal(t, int64(0), stats.Outstanding)
	assert.Equal(t, uint64(1), stats.Acquired)
	assert.Equal(t, uint64(1), stats.Released)
	assert.Equal(t, []int32{1}, source.releaseCounts())
}

func TestPool_ReleaseIsIdempotent(t *testing.T) {
	source := &fakeSource{}
	pool := NewPool(source, PoolConfig{MaxConns: 1})

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	lease.Release()
	lease.Release()

	assert.Equal(t, []int32{1}, source.releaseCounts())
	assert.Equal(t, uint64(1), pool.Stats().Released)

	// The single slot is free again, not freed twice.
	second, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, ErrPoolExhausted)

	second.Release()
}

func TestPool_QueryAfterRelease(t *testing.T) {
	pool := NewPool(&fakeSource{}, PoolConfig{MaxConns: 1})

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	lease.Release()

	_, err = lease.Query(context.Background(), "select 1")
	assert.ErrorIs(t, err, ErrLeaseReleased)
}

func TestPool_AcquireBlocksAtBound(t *testing.T) {
	pool := NewPool(&fakeSource{}, PoolConfig{MaxConns: 1})

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan *Lease)
	go func() {
		lease, err := pool.Acquire(context.Background())
		if err == nil {
			acquired <- lease
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lease granted while the pool was full")
	case <-time.After(30 * time.Millisecond):
	}

	held.Release()

	select {
	case lease := <-acquired:
		lease.Release()
	case <-time.After(time.Second):
		t.Fatal("waiting caller was not handed the released lease")
	}
}

func TestPool_AcquireContextEnds(t *testing.T) {
	pool := NewPool(&fakeSource{}, PoolConfig{MaxConns: 1})

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsPoolFailure(err))
}

func TestPool_AcquireSourceFailureFreesSlot(t *testing.T) {
	source := &fakeSource{acquireErr: errors.New("dial tcp: connection refused")}
	pool := NewPool(source, PoolConfig{MaxConns: 1})

	for i := 0; i < 3; i++ {
		_, err := pool.Acquire(context.Background())
		assert.ErrorIs(t, err, ErrConnectionUnavailable)
	}
	assert.Equal(t, int64(0), pool.Stats().Outstanding)

	source.acquireErr = nil
	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	lease.Release()
}

func TestPool_OutstandingNeverExceedsMax(t *testing.T) {
	const (
		maxConns = 3
		workers  = 40
		cycles   = 25
	)

	source := &fakeSource{}
	pool := NewPool(source, PoolConfig{MaxConns: maxConns})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < cycles; i++ {
				lease, err := pool.Acquire(context.Background())
				if !assert.NoError(t, err) {
					return
				}
				assert.LessOrEqual(t, pool.Stats().Outstanding, int64(maxConns))
				time.Sleep(50 * time.Microsecond)
				lease.Release()
			}
		}()
	}
	wg.Wait()

	stats := pool.Stats()
	assert.LessOrEqual(t, source.maxLive.Load(), int32(maxConns))
	assert.Equal(t, int64(0), stats.Outstanding)
	assert.Equal(t, uint64(workers*cycles), stats.Acquired)
	assert.Equal(t, stats.Acquired, stats.Released)

	for _, n := range source.releaseCounts() {
		assert.Equal(t, int32(1), n)
	}
}

func TestPool_Ping(t *testing.T) {
	source := &fakeSource{}
	pool := NewPool(source, PoolConfig{MaxConns: 1})

	require.NoError(t, pool.Ping(context.Background()))
	assert.Equal(t, int64(0), pool.Stats().Outstanding)

	source.pingErr = errors.New("server closed the connection")
	err := pool.Ping(context.Background())
	assert.ErrorIs(t, err, ErrDatabaseUnreachable)
	assert.Equal(t, int64(0), pool.Stats().Outstanding)

	source.pingErr = nil
	source.acquireErr = errors.New("connection refused")
	err = pool.Ping(context.Background())
	assert.ErrorIs(t, err, ErrDatabaseUnreachable)
	assert.ErrorIs(t, err, ErrConnectionUnavailable)
}

func TestPool_Close(t *testing.T) {
	source := &fakeSource{}
	pool := NewPool(source, PoolConfig{MaxConns: 1})

	pool.Close()
	assert.True(t, source.closed.Load())
}

func TestNewPool_MinimumBound(t *testing.T) {
	pool := NewPool(&fakeSource{}, PoolConfig{MaxConns: 0})
	assert.Equal(t, int64(1), pool.Stats().MaxConns)
}

func TestPool_MetricsArePerPool(t *testing.T) {
	catalog := NewPool(&fakeSource{}, PoolConfig{Name: "catalog", MaxConns: 3})
	reports := NewPool(&fakeSource{}, PoolConfig{Name: "reports", MaxConns: 5})

	lease, err := catalog.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(3), testutil.ToFloat64(LeasesMax.WithLabelValues("catalog")))
	assert.Equal(t, float64(5), testutil.ToFloat64(LeasesMax.WithLabelValues("reports")))
	assert.Equal(t, float64(1), testutil.ToFloat64(LeasesOutstanding.WithLabelValues("catalog")))
	assert.Equal(t, float64(0), testutil.ToFloat64(LeasesOutstanding.WithLabelValues("reports")))

	_, err = reports.Acquire(context.Background())
	require.NoError(t, err)
	lease.Release()

	assert.Equal(t, float64(0), testutil.ToFloat64(LeasesOutstanding.WithLabelValues("catalog")))
	assert.Equal(t, float64(1), testutil.ToFloat64(LeasesOutstanding.WithLabelValues("reports")))
}

func TestPool_DefaultName(t *testing.T) {
	NewPool(&fakeSource{}, PoolConfig{MaxConns: 4})
	assert.Equal(t, float64(4), testutil.ToFloat64(LeasesMax.WithLabelValues(DefaultPoolName)))
}
