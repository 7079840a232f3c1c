package valueobjects

type BillStatus string

const (
	BillStatusGenerated BillStatus = "GENERATED"
	BillStatusPartial   BillStatus = "PARTIAL"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusOverdue   BillStatus = "OVERDUE"
	BillStatusCancelled BillStatus = "CANCELLED"
)

func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusGenerated, BillStatusPartial, BillStatusPaid, BillStatusOverdue, BillStatusCancelled:
		return true
	default:
		return false
	}
}

// AcceptsPayment reports statuses with an outstanding balance.
func (s BillStatus) AcceptsPayment() bool {
	return s == BillStatusGenerated || s == BillStatusPartial || s == BillStatusOverdue
}

// CanBecomeOverdue reports statuses the overdue sweep looks at.
func (s BillStatus) CanBecomeOverdue() bool {
	return s == BillStatusGenerated || s == BillStatusPartial
}

func (s BillStatus) String() string {
	return string(s)
}

// ItemOrigin tells whether a bill line comes from subscriptions or adhoc orders.
type ItemOrigin string

const (
	OriginRegular ItemOrigin = "REGULAR"
	OriginAdhoc   ItemOrigin = "ADHOC"
)

func (o ItemOrigin) String() string {
	return string(o)
}
