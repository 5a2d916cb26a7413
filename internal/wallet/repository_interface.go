package wallet

import "context"

type Repository interface {
	// Ensure returns the user's wallet, creating an empty one on first use.
	Ensure(ctx context.Context, userID int) (*Wallet, error)
	GetForUpdate(ctx context.Context, userID int) (*Wallet, error)
	UpdateBalance(ctx context.Context, walletID int, balanceCents int64) error
	InsertTransaction(ctx context.Context, walletID int, amountCents int64, txType string, balanceAfter int64) (*Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
