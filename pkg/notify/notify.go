// Package notify is the outbound notification capability the usecases depend on.
// Transport lives elsewhere (pkg/queue publishes to RabbitMQ).
package notify

import (
	"context"
	"sync"
)

const (
	TypeOrderPlaced      = "order_placed"
	TypeOrderStatus      = "order_status"
	TypeTaskAssigned     = "task_assigned"
	TypeTaskUnassigned   = "task_unassigned"
	TypeTaskDeleted      = "task_deleted"
	TypePostSubmitted    = "post_submitted"
	TypePostReviewed     = "post_reviewed"
	TypeTaskCompleted    = "task_completed"
	TypeWithdrawal       = "withdrawal"
	TypePaymentSucceeded = "payment_succeeded"
	TypePaymentFailed    = "payment_failed"
)

type Event struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	EntityID   string `json:"entity_id"`
	Priority   int    `json:"priority,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
