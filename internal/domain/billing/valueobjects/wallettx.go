package valueobjects

type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "CREDIT"
	WalletDebit  WalletTransactionType = "DEBIT"
)

func (t WalletTransactionType) IsValid() bool {
	return t == WalletCredit || t == WalletDebit
}

// WalletReferenceType names the document a wallet movement belongs to.
type WalletReferenceType string

const (
	WalletRefBill    WalletReferenceType = "BILL"
	WalletRefTopUp   WalletReferenceType = "TOPUP"
	WalletRefPayment WalletReferenceType = "PAYMENT"
)
