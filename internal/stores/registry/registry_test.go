package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *time.Time) {
	t.Helper()

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func() *session.Machine {
		return session.NewMachine(session.DefaultOptions())
	}, ttl, zaptest.NewLogger(t))
	r.now = func() time.Time { return clock }

	return r, &clock
}

func TestWith(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	err := r.With("missing", false, func(m *session.Machine) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, r.Len())

	var first *session.Machine
	require.NoError(t, r.With("cookie", true, func(m *session.Machine) error {
		first = m
		return nil
	}))
	require.NoError(t, r.With("cookie", false, func(m *session.Machine) error {
		assert.Same(t, first, m)
		return nil
	}))
	assert.Equal(t, 1, r.Len())

	sentinel := errors.New("handler failed")
	assert.ErrorIs(t, r.With("cookie", false, func(m *session.Machine) error { return sentinel }), sentinel)
}

func TestPutDelete(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)
	m := session.NewMachine(session.DefaultOptions())

	r.Put("id", m)
	require.NoError(t, r.With("id", false, func(got *session.Machine) error {
		assert.Same(t, m, got)
		return nil
	}))

	assert.True(t, r.Delete("id"))
	assert.False(t, r.Delete("id"))
	assert.ErrorIs(t, r.With("id", false, func(*session.Machine) error { return nil }), ErrNotFound)
}

func TestWithSerializesAccess(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With("shared", true, func(*session.Machine) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 1, r.Len())
}

func TestSweep(t *testing.T) {
	r, clock := newTestRegistry(t, 30*time.Minute)

	require.NoError(t, r.With("old", true, func(*session.Machine) error { return nil }))
	*clock = clock.Add(20 * time.Minute)
	require.NoError(t, r.With("recent", true, func(*session.Machine) error { return nil }))
	*clock = clock.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.ErrorIs(t, r.With("old", false, func(*session.Machine) error { return nil }), ErrNotFound)
	assert.NoError(t, r.With("recent", false, func(*session.Machine) error { return nil }))
}

func TestSweepDisabled(t *testing.T) {
	r, clock := newTestRegistry(t, 0)

	require.NoError(t, r.With("old", true, func(*session.Machine) error { return nil }))
	*clock = clock.Add(24 * time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestStartStop(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)

	assert.Error(t, r.Start("not a schedule"))

	require.NoError(t, r.Start("@every 1h"))
	assert.Error(t, r.Start("@every 1h"))
	r.Stop()

	// Stopping twice is harmless
	r.Stop()
}
