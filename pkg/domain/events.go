package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModuleLoad   EventType = "module_load"
	EventInvoke       EventType = "invoke"
	EventInvokeReturn EventType = "invoke_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ModuleEvent is emitted when the loader resolved and loaded a reference.
type ModuleEvent struct {
	EventBase
	Name       string `json:"name"`
	Location   string `json:"location"`
	Parent     string `json:"parent"`
	Structured bool   `json:"structured"`
}

// InvokeEvent is emitted around the invocation of a function module.
type InvokeEvent struct {
	EventBase
	Name     string        `json:"name"`
	Location string        `json:"location"`
	Args     []any         `json:"args,omitempty"`
	Output   any           `json:"output,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for resolution observability.
// Every field is optional.
type LifecycleHooks struct {
	OnModuleLoad   func(context.Context, *ModuleEvent)
	OnInvoke       func(context.Context, *InvokeEvent)
	OnInvokeReturn func(context.Context, *InvokeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModuleLoad:   chain(h.OnModuleLoad, other.OnModuleLoad),
		OnInvoke:       chain(h.OnInvoke, other.OnInvoke),
		OnInvokeReturn: chain(h.OnInvokeReturn, other.OnInvokeReturn),
	}
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
