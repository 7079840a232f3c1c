package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("42", "billing.bill.generated")
	assert.Equal(t, "42", e.GetAggregateID())
	assert.Equal(t, "billing.bill.generated", e.GetEventType())
	assert.Equal(t, 1, e.GetVersion())
	assert.WithinDuration(t, time.Now(), e.GetOccurredAt(), time.Minute)
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewBaseEvent("1", "x")))
}
