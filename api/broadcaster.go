package api

import (
	"sync"
)

// EventType identifies the kind of broadcast event.
type EventType string

const (
	// EventTypeProgress carries an assembly stage transition (asm.Event).
	EventTypeProgress EventType = "progress"
	// EventTypeResult carries the final assembly outcome for a job.
	EventTypeResult EventType = "result"
)

// BroadcastEvent is sent to subscribed WebSocket clients.
type BroadcastEvent struct {
	Type  EventType              `json:"type"`
	JobID string                 `json:"jobId"`
	Data  map[string]interface{} `json:"data"`
}

// Subscription is a client's filtered view of the broadcast stream.
type Subscription struct {
	JobID      string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans assembly events out to every subscribed client.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.JobID != "" && sub.JobID != event.JobID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe creates a subscription filtered by job ID (empty = all jobs)
// and event type (empty = all types).
func (b *Broadcaster) Subscribe(jobID string, eventTypes []EventType) *Subscription {
	eventTypeMap := make(map[EventType]bool)
	for _, et := range eventTypes {
		eventTypeMap[et] = true
	}

	sub := &Subscription{
		JobID:      jobID,
		EventTypes: eventTypeMap,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.register <- sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast sends an event to all matching subscriptions.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastProgress sends an assembly stage-transition event.
func (b *Broadcaster) BroadcastProgress(jobID, stage, file, message string) {
	b.Broadcast(BroadcastEvent{
		Type:  EventTypeProgress,
		JobID: jobID,
		Data: map[string]interface{}{
			"stage":   stage,
			"file":    file,
			"message": message,
		},
	})
}

// BroadcastResult sends the final outcome of a job.
func (b *Broadcaster) BroadcastResult(jobID string, data map[string]interface{}) {
	b.Broadcast(BroadcastEvent{
		Type:  EventTypeResult,
		JobID: jobID,
		Data:  data,
	})
}

// Close shuts down the broadcaster and closes all subscriptions.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
