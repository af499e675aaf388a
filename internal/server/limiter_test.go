package server

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIPLimiter_Burst(t *testing.T) {
	l := newIPLimiter(0.001, 2)
	require.True(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	// у другого адреса свой лимит
	require.True(t, l.Allow("10.0.0.2"))
}

func TestIPLimiter_Disabled(t *testing.T) {
	l := newIPLimiter(0, 1)
	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("10.0.0.1"))
	}
	require.Empty(t, l.limiters)
}

func TestIPLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 5)
	l.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		l.Allow(fmt.Sprintf("2001:db8::%x", i))
	}
	require.Len(t, l.limiters, 1000)

	// активный клиент переживает очистку
	now = now.Add(limiterIdle / 2)
	l.Allow("10.0.0.1")

	now = now.Add(limiterIdle / 2)
	l.Allow("10.0.0.2")
	require.Len(t, l.limiters, 2)
	require.Contains(t, l.limiters, "10.0.0.1")
	require.Contains(t, l.limiters, "10.0.0.2")
}

func TestIPLimiter_EvictedClientStartsFresh(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(0.001, 1)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	now = now.Add(limiterIdle)
	require.True(t, l.Allow("10.0.0.1"))
}
