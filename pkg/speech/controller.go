// Package speech coordinates in-flight text-to-speech requests.
//
// Every synthesis registers with the Controller and receives its own
// cancellable context. A stop request cancels the syntheses that were in
// flight when it arrived and nothing else, so concurrent requests cannot
// clobber each other's intent the way a shared boolean flag would.
package speech

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Controller tracks active syntheses by ID.
type Controller struct {
	mu     sync.Mutex
	active map[string]context.CancelFunc
}

// NewController creates an empty controller.
func NewController() *Controller {
	return &Controller{
		active: make(map[string]context.CancelFunc),
	}
}

// Begin registers a new synthesis derived from parent. The returned context
// is cancelled either by the parent or by StopAll. Callers must call the
// returned release function on every exit path.
func (c *Controller) Begin(parent context.Context) (ctx context.Context, id string, release func()) {
	ctx, cancel := context.WithCancel(parent)
	id = uuid.NewString()

	c.mu.Lock()
	c.active[id] = cancel
	c.mu.Unlock()

	release = func() {
		c.mu.Lock()
		delete(c.active, id)
		c.mu.Unlock()
		cancel()
	}
	return ctx, id, release
}

// StopAll cancels every synthesis registered at the time of the call and
// returns how many were stopped. Syntheses that register afterwards are
// unaffected.
func (c *Controller) StopAll() int {
	c.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(c.active))
	for _, cancel := range c.active {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

// ActiveCount returns the number of registered syntheses.
func (c *Controller) ActiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}
