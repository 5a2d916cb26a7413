package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

type Service interface {
	GetWallet(ctx context.Context, userID int) (*Wallet, error)
	TopUp(ctx context.Context, userID int, amountCents int64) (*Wallet, error)
	// Charge debits amountCents. Called inside an outer transaction it joins
	// it, so the debit rolls back with the caller's work.
	Charge(ctx context.Context, userID int, amountCents int64, txType string) (*Transaction, error)
	ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) GetWallet(ctx context.Context, userID int) (*Wallet, error) {
	return s.repo.Ensure(ctx, userID)
}

func (s *service) apply(ctx context.Context, userID int, delta int64, txType string) (*Wallet, *Transaction, error) {
	var (
		wallet *Wallet
		entry  *Transaction
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Ensure(ctx, userID); err != nil {
			return fmt.Errorf("failed to ensure wallet: %w", err)
		}

		w, err := s.repo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		newBalance := w.BalanceCents + delta
		if newBalance < 0 {
			return ErrInsufficientBalance
		}

		if err := s.repo.UpdateBalance(ctx, w.ID, newBalance); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		entry, err = s.repo.InsertTransaction(ctx, w.ID, delta, txType, newBalance)
		if err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		w.BalanceCents = newBalance
		wallet = w
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, entry, nil
}

func (s *service) TopUp(ctx context.Context, userID int, amountCents int64) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	w, _, err := s.apply(ctx, userID, amountCents, TxTopUp)
	return w, err
}

func (s *service) Charge(ctx context.Context, userID int, amountCents int64, txType string) (*Transaction, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	_, entry, err := s.apply(ctx, userID, -amountCents, txType)
	return entry, err
}

func (s *service) ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit, offset)
}
