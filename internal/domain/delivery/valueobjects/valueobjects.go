package valueobjects

// DeliveryType tells which origin produced a delivery.
type DeliveryType string

const (
	TypeRegular DeliveryType = "REGULAR"
	TypeAdhoc   DeliveryType = "ADHOC"
)

func (t DeliveryType) String() string { return string(t) }

func (t DeliveryType) IsValid() bool {
	return t == TypeRegular || t == TypeAdhoc
}

type DeliveryStatus string

const (
	StatusScheduled DeliveryStatus = "SCHEDULED"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusPartial   DeliveryStatus = "PARTIAL"
	StatusMissed    DeliveryStatus = "MISSED"
	StatusCancelled DeliveryStatus = "CANCELLED"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusDelivered, StatusPartial, StatusMissed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports statuses that can no longer change.
func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsBillable reports statuses that produce a charge.
func (s DeliveryStatus) IsBillable() bool {
	return s == StatusDelivered || s == StatusPartial
}

// IsFulfillmentOutcome reports statuses a driver can record.
func (s DeliveryStatus) IsFulfillmentOutcome() bool {
	return s == StatusDelivered || s == StatusPartial || s == StatusMissed
}
