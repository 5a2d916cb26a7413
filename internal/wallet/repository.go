package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrWalletNotFound = errors.New("wallet not found")

const walletColumns = `id, user_id, balance_cents, currency, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Ensure(ctx context.Context, userID int) (*Wallet, error) {
	// DO UPDATE instead of DO NOTHING so RETURNING yields the existing row.
	query := `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + walletColumns

	w := &Wallet{}
	if err := db.Conn(ctx, r.db).GetContext(ctx, w, query, userID); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) GetForUpdate(ctx context.Context, userID int) (*Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`

	w := &Wallet{}
	err := db.Conn(ctx, r.db).GetContext(ctx, w, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) UpdateBalance(ctx context.Context, walletID int, balanceCents int64) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE wallets
		SET balance_cents = $1, updated_at = NOW()
		WHERE id = $2
	`, balanceCents, walletID)
	return err
}

func (r *repository) InsertTransaction(ctx context.Context, walletID int, amountCents int64, txType string, balanceAfter int64) (*Transaction, error) {
	t := &Transaction{}
	err := db.Conn(ctx, r.db).GetContext(ctx, t, `
		INSERT INTO wallet_transactions (wallet_id, amount_cents, type, balance_after)
		VALUES ($1, $2, $3, $4)
		RETURNING id, wallet_id, amount_cents, type, balance_after, created_at
	`, walletID, amountCents, txType, balanceAfter)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &txs, `
		SELECT t.id, t.wallet_id, t.amount_cents, t.type, t.balance_after, t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return txs, nil
}
