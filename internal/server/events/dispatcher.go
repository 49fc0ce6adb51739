package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Jan540/account-manager/internal/logging"
)

// Dispatcher queues events in a bounded buffer and delivers them to a single
// Observer from one goroutine. When the buffer is full the event is dropped
// and counted.
type Dispatcher struct {
	observer  Observer
	logger    logging.Logger
	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(o Observer, bufferSize int, l logging.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	d := &Dispatcher{
		observer: o,
		logger:   l.With("module", "events"),
		ch:       make(chan Event, bufferSize),
		done:     make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.ch:
			d.deliver(e)
		case <-d.done:
			for {
				select {
				case e := <-d.ch:
					d.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(e Event) {
	ctx := context.Background()
	if err := d.observer.Observe(ctx, e); err != nil {
		d.logger.Warn(ctx, "event delivery failed", "kind", e.Kind, "error", err)
	}
}

// Emit enqueues e without blocking.
func (d *Dispatcher) Emit(_ context.Context, e Event) {
	if d.closed.Load() {
		return
	}
	select {
	case d.ch <- e:
	default:
		d.dropped.Add(1)
	}
}

// Close stops accepting events, delivers what is already queued and waits
// for the delivery goroutine to exit.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns how many events were discarded because the buffer was full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
