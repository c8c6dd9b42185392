package forwarder_test

import (
	"sync"

	"github.com/tailored-agentic-units/logforward/forwarder"
)

type captureLogger struct {
	mu      sync.Mutex
	records []forwarder.Record
}

func (c *captureLogger) Log(record forwarder.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

func (c *captureLogger) Records() []forwarder.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]forwarder.Record(nil), c.records...)
}

func (c *captureLogger) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
