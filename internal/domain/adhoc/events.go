package adhoc

import (
	"strconv"

	"github.com/milkrun/milkrun/internal/domain/shared/events"
)

const (
	EventRequestReviewed  = "adhoc.request.reviewed"
	EventRequestCancelled = "adhoc.request.cancelled"
)

type RequestEvent struct {
	events.BaseEvent
	CustomerID    uint   `json:"customer_id"`
	Status        string `json:"status"`
	ApprovedItems int    `json:"approved_items"`
	TotalItems    int    `json:"total_items"`
}

func NewRequestEvent(eventType string, r *Request) RequestEvent {
	return RequestEvent{
		BaseEvent:     events.NewBaseEvent(strconv.FormatUint(uint64(r.ID()), 10), eventType),
		CustomerID:    r.CustomerID(),
		Status:        r.Status().String(),
		ApprovedItems: len(r.ApprovedItems()),
		TotalItems:    len(r.Items()),
	}
}
