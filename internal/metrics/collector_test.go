package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ServiceStats(t *testing.T) {
	c := NewCollector()
	c.RecordRequest("orders", 10, 100)
	c.RecordRequest("orders", 30, 50)
	c.RecordRequest("orders", 20, 0)
	c.RecordError("orders")

	stats, ok := c.Service("orders")
	require.True(t, ok)
	assert.Equal(t, int64(3), stats.Requests)
	assert.Equal(t, int64(1), stats.Errors)
	assert.Equal(t, int64(10), stats.MinResponseTimeMs)
	assert.Equal(t, int64(30), stats.MaxResponseTimeMs)
	assert.InDelta(t, 20.0, stats.AvgResponseTimeMs, 0.001)
	assert.Equal(t, int64(150), stats.TotalBytes)
	assert.InDelta(t, 25.0, stats.ErrorRate, 0.001)
}

func TestCollector_UnknownService(t *testing.T) {
	c := NewCollector()
	stats, ok := c.Service("ghost")
	assert.False(t, ok)
	assert.Equal(t, "ghost", stats.Service)
	assert.Zero(t, stats.MinResponseTimeMs)
}

func TestCollector_ErrorsOnly(t *testing.T) {
	c := NewCollector()
	c.RecordError("down")

	stats, _ := c.Service("down")
	assert.Zero(t, stats.MinResponseTimeMs)
	assert.Zero(t, stats.AvgResponseTimeMs)
	assert.InDelta(t, 100.0, stats.ErrorRate, 0.001)
}

func TestCollector_Overall(t *testing.T) {
	c := NewCollector()
	start := c.started
	c.now = func() time.Time { return start.Add(10 * time.Second) }

	for i := 0; i < 20; i++ {
		c.RecordRequest("b", 5, 1)
	}
	c.RecordRequest("a", 5, 1)
	c.RecordError("a")

	overall := c.Overall()
	assert.Equal(t, int64(21), overall.TotalRequests)
	assert.Equal(t, int64(1), overall.TotalErrors)
	assert.Equal(t, int64(10000), overall.UptimeMs)
	assert.InDelta(t, 2.1, overall.RequestsPerSecond, 0.0001)
	require.Len(t, overall.Services, 2)
	assert.Equal(t, "a", overall.Services[0].Service)
	assert.Equal(t, "b", overall.Services[1].Service)
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.RecordRequest("a", 1, 1)
	c.RecordError("a")

	c.Reset()

	overall := c.Overall()
	assert.Zero(t, overall.TotalRequests)
	assert.Zero(t, overall.TotalErrors)
	assert.Empty(t, overall.Services)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.RecordRequest("svc", int64(w*100+i), 1)
			}
		}(w)
	}
	wg.Wait()

	stats, _ := c.Service("svc")
	assert.Equal(t, int64(1600), stats.Requests)
	assert.Equal(t, int64(0), stats.MinResponseTimeMs)
	assert.Equal(t, int64(1599), stats.MaxResponseTimeMs)
}

type countingSink struct {
	mu       sync.Mutex
	requests int
	errors   int
}

func (s *countingSink) RecordRequest(string, int64, int64) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *countingSink) RecordError(string) {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

func TestMulti(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	sink := Multi(a, nil, b)

	sink.RecordRequest("x", 1, 1)
	sink.RecordError("x")

	assert.Equal(t, 1, a.requests)
	assert.Equal(t, 1, b.errors)

	Discard.RecordRequest("x", 1, 1)
	Discard.RecordError("x")
}
