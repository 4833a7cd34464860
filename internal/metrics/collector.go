package metrics

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// serviceCounters holds lock-free counters for one service
type serviceCounters struct {
	requests  atomic.Int64
	errors    atomic.Int64
	totalTime atomic.Int64
	minTime   atomic.Int64
	maxTime   atomic.Int64
	bytes     atomic.Int64
}

func newServiceCounters() *serviceCounters {
	c := &serviceCounters{}
	c.minTime.Store(math.MaxInt64)
	return c
}

func (c *serviceCounters) record(latencyMs, bytes int64) {
	c.requests.Add(1)
	c.totalTime.Add(latencyMs)
	c.bytes.Add(bytes)

	for cur := c.minTime.Load(); latencyMs < cur; cur = c.minTime.Load() {
		if c.minTime.CompareAndSwap(cur, latencyMs) {
			break
		}
	}
	for cur := c.maxTime.Load(); latencyMs > cur; cur = c.maxTime.Load() {
		if c.maxTime.CompareAndSwap(cur, latencyMs) {
			break
		}
	}
}

// ServiceStats is the per-service view served by the performance endpoints
type ServiceStats struct {
	Service           string  `json:"service"`
	Requests          int64   `json:"requests"`
	Errors            int64   `json:"errors"`
	ErrorRate         float64 `json:"error_rate"`
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
	MinResponseTimeMs int64   `json:"min_response_time_ms"`
	MaxResponseTimeMs int64   `json:"max_response_time_ms"`
	TotalBytes        int64   `json:"total_bytes"`
}

// OverallStats summarises the gateway since start or the last reset
type OverallStats struct {
	StartedAt         time.Time      `json:"started_at"`
	UptimeMs          int64          `json:"uptime_ms"`
	UptimeHours       float64        `json:"uptime_hours"`
	TotalRequests     int64          `json:"total_requests"`
	TotalErrors       int64          `json:"total_errors"`
	ErrorRate         float64        `json:"error_rate"`
	RequestsPerSecond float64        `json:"requests_per_second"`
	Services          []ServiceStats `json:"services"`
}

// Collector is an in-memory Sink
type Collector struct {
	mu       sync.RWMutex
	services map[string]*serviceCounters
	started  time.Time

	totalRequests atomic.Int64
	totalErrors   atomic.Int64

	now func() time.Time
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		services: make(map[string]*serviceCounters),
		started:  time.Now(),
		now:      time.Now,
	}
}

// RecordRequest records a completed exchange
func (c *Collector) RecordRequest(service string, latencyMs int64, bytes int64) {
	if latencyMs < 0 {
		latencyMs = 0
	}
	if bytes < 0 {
		bytes = 0
	}
	c.totalRequests.Add(1)
	c.counters(service).record(latencyMs, bytes)
}

// RecordError records a transport failure
func (c *Collector) RecordError(service string) {
	c.totalErrors.Add(1)
	c.counters(service).errors.Add(1)
}

func (c *Collector) counters(service string) *serviceCounters {
	c.mu.RLock()
	sc, ok := c.services[service]
	c.mu.RUnlock()
	if ok {
		return sc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sc, ok = c.services[service]; !ok {
		sc = newServiceCounters()
		c.services[service] = sc
	}
	return sc
}

// Service returns stats for one service and whether it has been seen
func (c *Collector) Service(service string) (ServiceStats, bool) {
	c.mu.RLock()
	sc, ok := c.services[service]
	c.mu.RUnlock()
	if !ok {
		return ServiceStats{Service: service}, false
	}
	return buildServiceStats(service, sc), true
}

// Overall returns gateway-wide stats with every service sorted by name
func (c *Collector) Overall() OverallStats {
	c.mu.RLock()
	started := c.started
	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	counters := make([]*serviceCounters, len(names))
	sort.Strings(names)
	for i, name := range names {
		counters[i] = c.services[name]
	}
	c.mu.RUnlock()

	uptime := c.now().Sub(started)
	requests := c.totalRequests.Load()
	errs := c.totalErrors.Load()

	stats := OverallStats{
		StartedAt:     started,
		UptimeMs:      uptime.Milliseconds(),
		UptimeHours:   uptime.Hours(),
		TotalRequests: requests,
		TotalErrors:   errs,
		ErrorRate:     errorRate(requests, errs),
		Services:      make([]ServiceStats, len(names)),
	}
	if secs := uptime.Seconds(); secs > 0 {
		stats.RequestsPerSecond = float64(requests) / secs
	}
	for i, name := range names {
		stats.Services[i] = buildServiceStats(name, counters[i])
	}
	return stats
}

// Reset clears all counters and restarts the uptime clock
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[string]*serviceCounters)
	c.totalRequests.Store(0)
	c.totalErrors.Store(0)
	c.started = c.now()
}

func buildServiceStats(name string, sc *serviceCounters) ServiceStats {
	requests := sc.requests.Load()
	errs := sc.errors.Load()

	s := ServiceStats{
		Service:           name,
		Requests:          requests,
		Errors:            errs,
		ErrorRate:         errorRate(requests, errs),
		MaxResponseTimeMs: sc.maxTime.Load(),
		TotalBytes:        sc.bytes.Load(),
	}
	if requests > 0 {
		s.AvgResponseTimeMs = float64(sc.totalTime.Load()) / float64(requests)
	}
	if fastest := sc.minTime.Load(); fastest != math.MaxInt64 {
		s.MinResponseTimeMs = fastest
	}
	return s
}

// errorRate is the percentage of attempts that failed at the transport level
func errorRate(requests, errs int64) float64 {
	attempts := requests + errs
	if attempts == 0 {
		return 0
	}
	return float64(errs) / float64(attempts) * 100
}
