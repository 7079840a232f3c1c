package subscription

import (
	"strconv"

	"github.com/milkrun/milkrun/internal/domain/shared/events"
)

const (
	EventSubscriptionPaused    = "subscription.paused"
	EventSubscriptionResumed   = "subscription.resumed"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionExpired   = "subscription.expired"
)

type StatusChangedEvent struct {
	events.BaseEvent
	CustomerID uint   `json:"customer_id"`
	Status     string `json:"status"`
}

func NewStatusChangedEvent(eventType string, s *Subscription) StatusChangedEvent {
	return StatusChangedEvent{
		BaseEvent:  events.NewBaseEvent(strconv.FormatUint(uint64(s.ID()), 10), eventType),
		CustomerID: s.CustomerID(),
		Status:     s.Status().String(),
	}
}
