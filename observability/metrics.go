package observability

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of registry counters. Events from
// unregistered origins are not counted.
type MetricsSnapshot struct {
	Delivered int64
	Filtered  int64
}

// Metrics counts routed events.
type Metrics struct {
	delivered atomic.Int64
	filtered  atomic.Int64
}

func (m *Metrics) RecordDelivered() {
	m.delivered.Add(1)
}

func (m *Metrics) RecordFiltered() {
	m.filtered.Add(1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Delivered: m.delivered.Load(),
		Filtered:  m.filtered.Load(),
	}
}
