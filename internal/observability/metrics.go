package observability

import (
	"strconv"
	"sync"
	"time"
)

// RouteStats aggregates observations for one method/route/status key.
type RouteStats struct {
	Count         int64
	TotalDuration time.Duration
}

// Metrics provides basic in-memory counters keyed by route pattern, so path
// parameters such as post ids do not create unbounded keys.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]RouteStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]RouteStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest increments counters for a completed request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.requests[key]
	stats.Count++
	stats.TotalDuration += duration
	m.requests[key] = stats
}

// RecordError increments error counters by error code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// Snapshot returns copies of the current counters.
func (m *Metrics) Snapshot() (map[string]RouteStats, map[string]int64) {
	if m == nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	requests := make(map[string]RouteStats, len(m.requests))
	for k, v := range m.requests {
		requests[k] = v
	}
	errs := make(map[string]int64, len(m.errors))
	for k, v := range m.errors {
		errs[k] = v
	}
	return requests, errs
}
