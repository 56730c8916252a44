// Package events carries orchestration progress as typed events on a
// non-blocking publish/subscribe bus. The orchestrator publishes every
// state transition; presentation code subscribes and renders. Nothing in
// the core writes to a terminal directly.
package events

import (
	"sync"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// EventRunStarted is published once at the start of a run.
	EventRunStarted EventType = "run_started"
	// EventPlanExtracted is published when a plan is parsed from
	// responder output.
	EventPlanExtracted EventType = "plan_extracted"
	// EventStepStarted is published when a step begins executing.
	EventStepStarted EventType = "step_started"
	// EventCommandStarted is published before a shell command runs in
	// terminal display mode.
	EventCommandStarted EventType = "command_started"
	// EventCommandFinished is published with the captured result.
	EventCommandFinished EventType = "command_finished"
	// EventFileEdited is published per patched or created file.
	EventFileEdited EventType = "file_edited"
	// EventVerdict is published after each validation call.
	EventVerdict EventType = "verdict"
	// EventFixAttempt is published when fix commands are executed.
	EventFixAttempt EventType = "fix_attempt"
	// EventStepCompleted is published when a step validates.
	EventStepCompleted EventType = "step_completed"
	// EventStepBacktracked is published when unresolved remediation is
	// merged into the next step's objective.
	EventStepBacktracked EventType = "step_backtracked"
	// EventStepFailed is published when a step exhausts its retries
	// with nothing left to merge forward.
	EventStepFailed EventType = "step_failed"
	// EventRunCompleted is published once with the final summary.
	EventRunCompleted EventType = "run_completed"
)

// Event represents a system event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      map[string]interface{}
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

// Bus is a non-blocking event bus using Publish/Subscribe pattern.
// Events are delivered asynchronously via buffered channels.
// If a subscriber's channel is full, the event is dropped silently.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	bufferSize  int
}

// NewBus creates a new event bus with the specified buffer size per subscriber.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a subscriber for a specific event type.
// The subscriber function is called asynchronously in a goroutine.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)

	go func() {
		for event := range ch {
			// Wrap in anonymous function to recover from panics in subscriber
			func() {
				defer func() {
					if r := recover(); r != nil {
						// Silently recover from subscriber panics to prevent bus disruption
					}
				}()
				fn(event)
			}()
		}
	}()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subscribers[eventType]
		for i, subCh := range subs {
			if subCh == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
}

// SubscribeAll registers the subscriber for every known event type and
// returns one unsubscribe function covering all of them.
func (b *Bus) SubscribeAll(fn Subscriber) func() {
	types := []EventType{
		EventRunStarted, EventPlanExtracted, EventStepStarted,
		EventCommandStarted, EventCommandFinished, EventFileEdited,
		EventVerdict, EventFixAttempt, EventStepCompleted,
		EventStepBacktracked, EventStepFailed, EventRunCompleted,
	}
	unsubs := make([]func(), 0, len(types))
	for _, et := range types {
		unsubs = append(unsubs, b.Subscribe(et, fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Publish sends an event to all subscribers of the given type.
// Uses select with default to ensure non-blocking behavior.
// If a subscriber's channel is full, the event is dropped for that subscriber.
func (b *Bus) Publish(eventType EventType, data map[string]interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	subscribers := b.subscribers[eventType]
	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, drop event silently to prevent blocking
		}
	}
}

// Close closes all subscriber channels and clears subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, eventType)
	}
}
