package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/schedule"
	vo "github.com/milkrun/milkrun/internal/domain/subscription/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Subscription represents the recurring delivery aggregate root
type Subscription struct {
	id           uint
	customerID   uint
	productID    uint
	addressID    uint
	quantity     decimal.Decimal
	frequency    schedule.Frequency
	customDays   schedule.WeekdaySet
	startDate    time.Time
	endDate      *time.Time
	pauseStart   *time.Time
	pauseEnd     *time.Time
	status       vo.SubscriptionStatus
	cancelledAt  *time.Time
	cancelReason string
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewSubscriptionParams holds the customer supplied terms.
type NewSubscriptionParams struct {
	CustomerID uint
	ProductID  uint
	AddressID  uint
	Quantity   decimal.Decimal
	Frequency  schedule.Frequency
	CustomDays schedule.WeekdaySet
	StartDate  time.Time
	EndDate    *time.Time
}

// NewSubscription creates an ACTIVE subscription.
func NewSubscription(p NewSubscriptionParams) (*Subscription, error) {
	if p.CustomerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if p.ProductID == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	if p.AddressID == 0 {
		return nil, fmt.Errorf("address ID is required")
	}

	now := biztime.NowUTC()
	s := &Subscription{
		customerID: p.CustomerID,
		productID:  p.ProductID,
		addressID:  p.AddressID,
		startDate:  biztime.TruncateDate(p.StartDate),
		status:     vo.StatusActive,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}
	if err := s.applyTerms(p.Quantity, p.Frequency, p.CustomDays, p.EndDate); err != nil {
		return nil, err
	}
	return s, nil
}

// SubscriptionReconstructParams carries every persisted column.
type SubscriptionReconstructParams struct {
	ID           uint
	CustomerID   uint
	ProductID    uint
	AddressID    uint
	Quantity     decimal.Decimal
	Frequency    schedule.Frequency
	CustomDays   schedule.WeekdaySet
	StartDate    time.Time
	EndDate      *time.Time
	PauseStart   *time.Time
	PauseEnd     *time.Time
	Status       vo.SubscriptionStatus
	CancelledAt  *time.Time
	CancelReason string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if (p.PauseStart == nil) != (p.PauseEnd == nil) {
		return nil, fmt.Errorf("%w: pause start and end must be set together", ErrInvalidPause)
	}

	return &Subscription{
		id:           p.ID,
		customerID:   p.CustomerID,
		productID:    p.ProductID,
		addressID:    p.AddressID,
		quantity:     p.Quantity,
		frequency:    p.Frequency,
		customDays:   p.CustomDays,
		startDate:    p.StartDate,
		endDate:      p.EndDate,
		pauseStart:   p.PauseStart,
		pauseEnd:     p.PauseEnd,
		status:       p.Status,
		cancelledAt:  p.CancelledAt,
		cancelReason: p.CancelReason,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                        { return s.id }
func (s *Subscription) CustomerID() uint                { return s.customerID }
func (s *Subscription) ProductID() uint                 { return s.productID }
func (s *Subscription) AddressID() uint                 { return s.addressID }
func (s *Subscription) Quantity() decimal.Decimal       { return s.quantity }
func (s *Subscription) Frequency() schedule.Frequency   { return s.frequency }
func (s *Subscription) CustomDays() schedule.WeekdaySet { return s.customDays }
func (s *Subscription) StartDate() time.Time            { return s.startDate }
func (s *Subscription) EndDate() *time.Time             { return s.endDate }
func (s *Subscription) PauseStart() *time.Time          { return s.pauseStart }
func (s *Subscription) PauseEnd() *time.Time            { return s.pauseEnd }
func (s *Subscription) Status() vo.SubscriptionStatus   { return s.status }
func (s *Subscription) CancelledAt() *time.Time         { return s.cancelledAt }
func (s *Subscription) CancelReason() string            { return s.cancelReason }
func (s *Subscription) Version() int                    { return s.version }
func (s *Subscription) CreatedAt() time.Time            { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time            { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// Pattern returns the recurrence rule anchored at the start date.
func (s *Subscription) Pattern() schedule.Pattern {
	return schedule.Pattern{
		Frequency:  s.frequency,
		CustomDays: s.customDays,
		Anchor:     s.startDate,
	}
}

// PauseRange returns the pause window, or nil when not paused.
func (s *Subscription) PauseRange() *schedule.DateRange {
	if s.pauseStart == nil || s.pauseEnd == nil {
		return nil
	}
	r := schedule.DateRange{Start: *s.pauseStart, End: *s.pauseEnd}
	return &r
}

// EffectiveWindow clips window to [startDate, endDate]. ok is false when the
// subscription is not running at any point of window.
func (s *Subscription) EffectiveWindow(window schedule.DateRange) (schedule.DateRange, bool) {
	end := window.End
	if s.endDate != nil && s.endDate.Before(end) {
		end = *s.endDate
	}
	if end.Before(s.startDate) {
		return schedule.DateRange{}, false
	}
	return window.Intersect(schedule.DateRange{Start: s.startDate, End: end})
}

// UpdateTerms changes quantity, recurrence and end date. Nil fields are kept.
func (s *Subscription) UpdateTerms(quantity *decimal.Decimal, frequency *schedule.Frequency, customDays *schedule.WeekdaySet, endDate *time.Time) error {
	if s.status.IsTerminal() {
		return ErrInvalidTransition(s.status.String(), "updated")
	}

	q, f, days, end := s.quantity, s.frequency, s.customDays, s.endDate
	if quantity != nil {
		q = *quantity
	}
	if frequency != nil {
		f = *frequency
		if f != schedule.FrequencyCustom {
			days = 0
		}
	}
	if customDays != nil {
		days = *customDays
	}
	if endDate != nil {
		end = endDate
	}

	if err := s.applyTerms(q, f, days, end); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Subscription) applyTerms(quantity decimal.Decimal, frequency schedule.Frequency, customDays schedule.WeekdaySet, endDate *time.Time) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	pattern := schedule.Pattern{Frequency: frequency, CustomDays: customDays, Anchor: s.startDate}
	if err := pattern.Validate(); err != nil {
		return err
	}
	if endDate != nil {
		e := biztime.TruncateDate(*endDate)
		if e.Before(s.startDate) {
			return fmt.Errorf("%w: end date %s is before start date %s",
				ErrInvalidDates, biztime.FormatDate(e), biztime.FormatDate(s.startDate))
		}
		endDate = &e
	}

	s.quantity = quantity
	s.frequency = frequency
	s.customDays = customDays
	s.endDate = endDate
	return nil
}

// Pause sets a pause window. The window must start no earlier than today and
// span at most maxDays days, both endpoints included.
func (s *Subscription) Pause(window schedule.DateRange, today time.Time, maxDays int) error {
	if s.status != vo.StatusActive && s.status != vo.StatusPaused {
		return ErrInvalidTransition(s.status.String(), vo.StatusPaused.String())
	}
	if window.Start.Before(biztime.TruncateDate(today)) {
		return fmt.Errorf("%w: pause cannot start in the past", ErrInvalidPause)
	}
	if maxDays > 0 && window.Days() > maxDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrPauseTooLong, window.Days(), maxDays)
	}

	start, end := window.Start, window.End
	s.pauseStart = &start
	s.pauseEnd = &end
	s.status = vo.StatusPaused
	s.touch()
	return nil
}

// Resume clears the pause window.
func (s *Subscription) Resume() error {
	if s.status != vo.StatusPaused {
		return ErrNotPaused
	}
	s.pauseStart = nil
	s.pauseEnd = nil
	s.status = vo.StatusActive
	s.touch()
	return nil
}

// Cancel ends the subscription permanently.
func (s *Subscription) Cancel(reason string) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	now := biztime.NowUTC()
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.cancelReason = reason
	s.pauseStart = nil
	s.pauseEnd = nil
	s.touch()
	return nil
}

// IsEnded reports whether the end date lies strictly before today.
func (s *Subscription) IsEnded(today time.Time) bool {
	return s.endDate != nil && s.endDate.Before(biztime.TruncateDate(today))
}

// MarkAsExpired moves an ended subscription to EXPIRED.
func (s *Subscription) MarkAsExpired() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}
	s.status = vo.StatusExpired
	s.pauseStart = nil
	s.pauseEnd = nil
	s.touch()
	return nil
}

func (s *Subscription) touch() {
	s.updatedAt = biztime.NowUTC()
	s.version++
}
