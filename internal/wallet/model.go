package wallet

import "time"

const (
	TxTopUp               = "topup"
	TxSubscriptionPayment = "subscription_payment"
)

type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"userId"`
	BalanceCents int64     `db:"balance_cents" json:"balanceCents"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Transaction is one ledger entry. AmountCents is negative for charges.
type Transaction struct {
	ID           int       `db:"id" json:"id"`
	WalletID     int       `db:"wallet_id" json:"walletId"`
	AmountCents  int64     `db:"amount_cents" json:"amountCents"`
	Type         string    `db:"type" json:"type"`
	BalanceAfter int64     `db:"balance_after" json:"balanceAfter"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type TopUpRequest struct {
	AmountCents int64 `json:"amountCents" binding:"required,gt=0,max=100000000"`
}
