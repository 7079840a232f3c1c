package valueobjects

type RequestStatus string

const (
	RequestPending           RequestStatus = "PENDING"
	RequestApproved          RequestStatus = "APPROVED"
	RequestPartiallyApproved RequestStatus = "PARTIALLY_APPROVED"
	RequestRejected          RequestStatus = "REJECTED"
	RequestCancelled         RequestStatus = "CANCELLED"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestPartiallyApproved, RequestRejected, RequestCancelled:
		return true
	default:
		return false
	}
}

type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemApproved ItemStatus = "APPROVED"
	ItemRejected ItemStatus = "REJECTED"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	return s == ItemPending || s == ItemApproved || s == ItemRejected
}

// ReviewAction is the admin's verdict on a pending request.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
	ReviewPartial ReviewAction = "partial"
)

func (a ReviewAction) IsValid() bool {
	return a == ReviewApprove || a == ReviewReject || a == ReviewPartial
}
