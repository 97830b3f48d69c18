package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/fastygo/onboarding/domain"
)

// JobHandler executes one queued job.
type JobHandler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher routes queued jobs to the handler registered under their name.
type Dispatcher struct {
	handlers map[string]JobHandler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]JobHandler),
	}
}

func (d *Dispatcher) Register(name string, handler JobHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler
}

// Execute runs the handler for name. Unregistered names yield an error wrapping domain.ErrUnknownJob.
func (d *Dispatcher) Execute(ctx context.Context, name string, payload json.RawMessage) error {
	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s: %w", name, domain.ErrUnknownJob)
	}
	return handler(ctx, payload)
}

// Names lists the registered job names in sorted order.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
