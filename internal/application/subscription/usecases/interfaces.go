package usecases

import (
	"context"

	"github.com/milkrun/milkrun/internal/application/delivery/services"
	"github.com/milkrun/milkrun/internal/domain/schedule"
	"github.com/milkrun/milkrun/internal/domain/subscription"
)

// ScheduleMaterializer writes a subscription's deliveries for a window.
type ScheduleMaterializer interface {
	MaterializeSubscription(ctx context.Context, sub *subscription.Subscription, window schedule.DateRange) (services.MaterializeResult, error)
}
