package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	"github.com/milkrun/milkrun/internal/shared/biztime"
)

// Wallet is a customer's prepaid balance. Balance changes go through the
// repository's atomic Credit and Debit, never through read-modify-write.
type Wallet struct {
	id         uint
	customerID uint
	balance    decimal.Decimal
	updatedAt  time.Time
}

func ReconstructWallet(id, customerID uint, balance decimal.Decimal, updatedAt time.Time) *Wallet {
	return &Wallet{id: id, customerID: customerID, balance: balance, updatedAt: updatedAt}
}

func (w *Wallet) ID() uint                 { return w.id }
func (w *Wallet) CustomerID() uint         { return w.customerID }
func (w *Wallet) Balance() decimal.Decimal { return w.balance }
func (w *Wallet) UpdatedAt() time.Time     { return w.updatedAt }

// WalletTransaction is one line of the wallet statement.
type WalletTransaction struct {
	id            uint
	walletID      uint
	txType        vo.WalletTransactionType
	amount        decimal.Decimal
	balanceAfter  decimal.Decimal
	referenceType vo.WalletReferenceType
	referenceID   string
	description   string
	createdAt     time.Time
}

func NewWalletTransaction(walletID uint, txType vo.WalletTransactionType, amount, balanceAfter decimal.Decimal, refType vo.WalletReferenceType, refID, description string) (*WalletTransaction, error) {
	if !txType.IsValid() {
		return nil, fmt.Errorf("invalid wallet transaction type: %s", txType)
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &WalletTransaction{
		walletID:      walletID,
		txType:        txType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		referenceType: refType,
		referenceID:   refID,
		description:   description,
		createdAt:     biztime.NowUTC(),
	}, nil
}

func ReconstructWalletTransaction(id, walletID uint, txType vo.WalletTransactionType, amount, balanceAfter decimal.Decimal, refType vo.WalletReferenceType, refID, description string, createdAt time.Time) *WalletTransaction {
	return &WalletTransaction{
		id:            id,
		walletID:      walletID,
		txType:        txType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		referenceType: refType,
		referenceID:   refID,
		description:   description,
		createdAt:     createdAt,
	}
}

func (t *WalletTransaction) ID() uint                                { return t.id }
func (t *WalletTransaction) WalletID() uint                          { return t.walletID }
func (t *WalletTransaction) Type() vo.WalletTransactionType          { return t.txType }
func (t *WalletTransaction) Amount() decimal.Decimal                 { return t.amount }
func (t *WalletTransaction) BalanceAfter() decimal.Decimal           { return t.balanceAfter }
func (t *WalletTransaction) ReferenceType() vo.WalletReferenceType   { return t.referenceType }
func (t *WalletTransaction) ReferenceID() string                     { return t.referenceID }
func (t *WalletTransaction) Description() string                     { return t.description }
func (t *WalletTransaction) CreatedAt() time.Time                    { return t.createdAt }

// SetID sets the transaction ID (only for persistence layer use)
func (t *WalletTransaction) SetID(id uint) { t.id = id }
