package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkrun/milkrun/internal/domain/schedule"
)

type BillRepository interface {
	// Create stores the bill and its items. A second bill for the same
	// customer and period fails with ErrBillAlreadyExists.
	Create(ctx context.Context, bill *Bill) error
	// GetByID returns nil, nil when the bill does not exist.
	GetByID(ctx context.Context, id uint) (*Bill, error)
	ExistsForPeriod(ctx context.Context, customerID uint, period schedule.DateRange) (bool, error)
	// Update stores status fields with optimistic locking on version.
	Update(ctx context.Context, bill *Bill) error
	// ListOverdueCandidates returns GENERATED and PARTIAL bills due before date.
	ListOverdueCandidates(ctx context.Context, date time.Time) ([]*Bill, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	SumSuccessful(ctx context.Context, billID uint) (decimal.Decimal, error)
	ListByBill(ctx context.Context, billID uint) ([]*Payment, error)
}

type WalletRepository interface {
	// GetByCustomer returns nil, nil when the customer has no wallet.
	GetByCustomer(ctx context.Context, customerID uint) (*Wallet, error)
	// GetByCustomerForUpdate is GetByCustomer holding a row lock until the
	// surrounding transaction ends.
	GetByCustomerForUpdate(ctx context.Context, customerID uint) (*Wallet, error)
	// Credit adds amount, creating the wallet when needed, and returns the
	// wallet with its new balance.
	Credit(ctx context.Context, customerID uint, amount decimal.Decimal) (*Wallet, error)
	// Debit subtracts amount only if the balance covers it; otherwise it
	// returns ErrInsufficientWalletBalance and changes nothing.
	Debit(ctx context.Context, customerID uint, amount decimal.Decimal) (*Wallet, error)
	AppendTransaction(ctx context.Context, tx *WalletTransaction) error
	ListTransactions(ctx context.Context, walletID uint) ([]*WalletTransaction, error)
}
