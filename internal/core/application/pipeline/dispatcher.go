// Package pipeline serializes everything that reacts to remote changes.
//
// Feed polls, notification polls and drain requests are published as events
// into one buffered channel. A single goroutine running Dispatcher.Run
// handles them in arrival order, so subscribers never run concurrently with
// each other.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"tablesync/internal/core/domain/model/change"
)

// ErrDispatcherStopped is returned by Publish once Run has returned.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

// Event is one unit of work for the dispatcher.
type Event interface {
	event()
}

// ChangeEvent carries one entry of the remote change feed.
type ChangeEvent struct {
	Change change.Event
}

// PollTick asks for a notification resync.
type PollTick struct{}

// DrainRequest asks for a print queue drain.
type DrainRequest struct{}

func (ChangeEvent) event()  {}
func (PollTick) event()     {}
func (DrainRequest) event() {}

// Handler reacts to one change. Errors are logged and never stop the loop.
type Handler func(ctx context.Context, e change.Event) error

// Subscription holds the handlers for one table. Nil handlers are skipped.
type Subscription struct {
	OnInsert Handler
	OnUpdate Handler
	OnDelete Handler
}

type cursorStore interface {
	SetFeedCursor(ctx context.Context, id int64) error
}

type Dispatcher struct {
	events chan Event
	done   chan struct{}
	cursor cursorStore
	logger *slog.Logger

	mu      sync.RWMutex
	routes  map[change.Table][]Subscription
	onPoll  []func(ctx context.Context) error
	onDrain []func(ctx context.Context) error
}

// NewDispatcher creates a dispatcher with room for buffer pending events.
// cursor receives the ID of every routed change.
func NewDispatcher(buffer int, cursor cursorStore, logger *slog.Logger) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	return &Dispatcher{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		cursor: cursor,
		logger: logger.With("component", "dispatcher"),
		routes: make(map[change.Table][]Subscription),
	}
}

// Subscribe registers handlers for changes of table.
func (d *Dispatcher) Subscribe(table change.Table, sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[table] = append(d.routes[table], sub)
}

func (d *Dispatcher) OnPollTick(fn func(ctx context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onPoll = append(d.onPoll, fn)
}

func (d *Dispatcher) OnDrainRequest(fn func(ctx context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onDrain = append(d.onDrain, fn)
}

// Publish queues e, blocking while the buffer is full.
func (d *Dispatcher) Publish(ctx context.Context, e Event) error {
	select {
	case <-d.done:
		return ErrDispatcherStopped
	default:
	}

	select {
	case d.events <- e:
		return nil
	case <-d.done:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestDrain queues a DrainRequest without waiting for buffer space. A
// request dropped on a full buffer is covered by the drain that the next
// order insert triggers.
func (d *Dispatcher) RequestDrain(ctx context.Context) {
	select {
	case d.events <- DrainRequest{}:
	case <-d.done:
	default:
		d.logger.WarnContext(ctx, "Dispatcher busy, drain request dropped")
	}
}

// Run handles events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	d.logger.InfoContext(ctx, "Dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.logger.InfoContext(ctx, "Dispatcher stopped")
			return
		case e := <-d.events:
			d.handle(ctx, e)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, e Event) {
	switch e := e.(type) {
	case ChangeEvent:
		d.route(ctx, e.Change)
	case PollTick:
		d.runAll(ctx, "poll tick", d.pollHandlers())
	case DrainRequest:
		d.runAll(ctx, "drain request", d.drainHandlers())
	}
}

func (d *Dispatcher) route(ctx context.Context, e change.Event) {
	d.mu.RLock()
	subs := append([]Subscription(nil), d.routes[e.Table]...)
	d.mu.RUnlock()

	for _, sub := range subs {
		handler := sub.handler(e.Action)
		if handler == nil {
			continue
		}
		if err := handler(ctx, e); err != nil {
			d.logger.ErrorContext(ctx, "Change handler failed",
				"change_id", e.ID, "table", string(e.Table), "action", string(e.Action),
				"record_id", e.RecordID, "error", err)
		}
	}

	if err := d.cursor.SetFeedCursor(ctx, e.ID); err != nil {
		d.logger.ErrorContext(ctx, "Failed to persist feed cursor", "change_id", e.ID, "error", err)
	}
}

func (d *Dispatcher) runAll(ctx context.Context, name string, fns []func(ctx context.Context) error) {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			d.logger.ErrorContext(ctx, "Event handler failed", "event", name, "error", err)
		}
	}
}

func (d *Dispatcher) pollHandlers() []func(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]func(ctx context.Context) error(nil), d.onPoll...)
}

func (d *Dispatcher) drainHandlers() []func(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]func(ctx context.Context) error(nil), d.onDrain...)
}

func (s Subscription) handler(action change.Action) Handler {
	switch action {
	case change.Insert:
		return s.OnInsert
	case change.Update:
		return s.OnUpdate
	case change.Delete:
		return s.OnDelete
	default:
		return nil
	}
}
