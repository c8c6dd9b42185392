package observability_test

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/logforward/observability"
)

type captureSink struct {
	mu     sync.Mutex
	events []observability.Event
}

func (c *captureSink) OnEvent(ctx context.Context, event observability.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) Events() []observability.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]observability.Event(nil), c.events...)
}

func (c *captureSink) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
