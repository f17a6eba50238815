package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/backstack/pkg/adapters/memory"
	"github.com/aretw0/backstack/pkg/domain"
	"github.com/aretw0/backstack/pkg/ports"
	"github.com/aretw0/backstack/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	index := domain.RouteDefinition{Key: "home", Render: "HomeScreen"}
	table, err := routes.Build(domain.Config{IndexRoute: &index})
	require.NoError(t, err)
	return NewManager(memory.NewStore(), table, opts...)
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Dispatch(ctx, sid, domain.Pop{})
		_ = mgr.Delete(ctx, sid)
	}

	assert.Empty(t, mgr.locks, "locks must be released once no caller holds them")
}

type recordingLocker struct {
	keys     []string
	ttls     []time.Duration
	released int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	mgr := newTestManager(t, WithLocker(locker), WithLockTTL(time.Second))

	_, err := mgr.Dispatch(context.Background(), "s1", domain.Pop{})
	require.NoError(t, err)

	assert.Equal(t, []string{"s1"}, locker.keys)
	assert.Equal(t, []time.Duration{time.Second}, locker.ttls)
	assert.Equal(t, 1, locker.released)
}
