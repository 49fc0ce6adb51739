// Package events carries change notifications out of the directory store and
// the session registry. Producers hand events to a Dispatcher, which delivers
// them to an Observer on its own goroutine so a slow observer never holds up a
// request.
package events

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindGroupAdded    Kind = "group_added"
	KindGroupRemoved  Kind = "group_removed"
	KindMemberAdded   Kind = "member_added"
	KindMemberRemoved Kind = "member_removed"
	KindLogin         Kind = "login"
	KindLogout        Kind = "logout"
)

type Event struct {
	Kind      Kind      `json:"kind"`
	GroupID   int       `json:"gid,omitempty"`
	GroupName string    `json:"group_name,omitempty"`
	UserID    int       `json:"uid,omitempty"`
	Login     string    `json:"login,omitempty"`
	At        time.Time `json:"at"`
}

// Emitter accepts events from producers. Emit must not block on delivery.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Observer consumes delivered events.
type Observer interface {
	Observe(ctx context.Context, e Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event) error

func (f ObserverFunc) Observe(ctx context.Context, e Event) error { return f(ctx, e) }

// Fanout delivers each event to every observer and joins their errors.
type Fanout []Observer

func (f Fanout) Observe(ctx context.Context, e Event) error {
	var errs []error
	for _, o := range f {
		if err := o.Observe(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
