package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions/*/optimize", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("1.2.3.4", "/sessions/abc/optimize", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4", "/sessions/abc/optimize", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Minute), float64(info.RetryAfter), float64(time.Second))
}

func TestLimiter_SessionsShareBucket(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	l.Allow("1.2.3.4", "/sessions/b/optimize", "POST")
	allowed, _ := l.Allow("1.2.3.4", "/sessions/c/optimize", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("5.6.7.8", "/sessions/a/optimize", "POST")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	allowed, _ := l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	require.False(t, allowed)

	clock.Advance(6 * time.Minute)
	allowed, _ = l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	assert.False(t, allowed)
}

func TestLimiter_DeniedRequestsDoNotConsume(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
		require.False(t, allowed)
	}

	clock.Advance(6 * time.Minute)
	allowed, _ := l.Allow("1.2.3.4", "/sessions/a/optimize", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	l, _ := newTestLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/sessions/a/optimize", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/sessions", "GET")
	assert.False(t, allowed)

	disabled, _ := newTestLimiter(&Config{Enabled: false})
	allowed, _ = disabled.Allow("10.0.0.2", "/sessions/a/optimize", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 3
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/sessions/a", "GET")
		require.True(t, allowed)
		assert.Equal(t, 2-i, info.Remaining)
	}
	allowed, _ := l.Allow("1.2.3.4", "/sessions/a", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/sessions/a", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("5.6.7.8", "/sessions/a", "GET")

	l.cleanupBuckets(clock.Now().Add(-time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_Concurrent(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 50
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("1.2.3.4", "/sessions/a", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowedCount)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		want         string
	}{
		{"/sessions/123/optimize", "POST", "/sessions/*/optimize"},
		{"/sessions/123/upload", "POST", "/sessions/*/upload"},
		{"/sessions/123/export", "GET", "/sessions/*/export"},
		{"/sessions", "POST", "/sessions"},
		{"/health", "GET", "/health"},
		{"/sessions/123/optimize", "GET", ""},
		{"/sessions/123/skills", "POST", ""},
		{"/sessions/123/optimize/extra", "POST", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.True(t, cfg.Whitelist["2.2.2.2"])
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
