// Package memory provides a mutex-guarded in-memory implementation of the
// domain repositories. It backs the "memory" data backend and the unit
// tests; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dompetku/backend/internal/domain"
)

// Store holds wallets and the transaction log behind one mutex so a
// multi-wallet balance adjustment is atomic by construction.
type Store struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*domain.Wallet
	txs     map[uuid.UUID]*domain.Transaction
	txOrder []uuid.UUID // creation order, tiebreak for date sorting
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		txs:     make(map[uuid.UUID]*domain.Transaction),
	}
}

// NewWalletRepository returns a domain.WalletRepository view of the store.
func NewWalletRepository(s *Store) domain.WalletRepository {
	return &walletRepository{store: s}
}

// NewTransactionRepository returns a domain.TransactionRepository view of
// the store.
func NewTransactionRepository(s *Store) domain.TransactionRepository {
	return &transactionRepository{store: s}
}

type walletRepository struct {
	store *Store
}

func (r *walletRepository) Create(_ context.Context, wallet *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	w := *wallet
	r.store.wallets[w.ID] = &w
	return nil
}

func (r *walletRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wallet, ok := r.store.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	w := *wallet
	return &w, nil
}

func (r *walletRepository) List(_ context.Context, typeFilter domain.WalletType) ([]*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wallets := make([]*domain.Wallet, 0, len(r.store.wallets))
	for _, wallet := range r.store.wallets {
		if typeFilter != "" && wallet.Type != typeFilter {
			continue
		}
		w := *wallet
		wallets = append(wallets, &w)
	}

	sort.Slice(wallets, func(i, j int) bool {
		if !wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) {
			return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
		}
		return wallets[i].Name < wallets[j].Name
	})

	return wallets, nil
}

func (r *walletRepository) Update(_ context.Context, wallet *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.wallets[wallet.ID]
	if !ok {
		return domain.ErrWalletNotFound
	}

	// Balance is owned by AdjustBalances; Update never touches it.
	existing.Name = wallet.Name
	existing.Type = wallet.Type
	existing.Budget = wallet.Budget
	existing.UpdatedAt = wallet.UpdatedAt
	return nil
}

func (r *walletRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.wallets[id]; !ok {
		return domain.ErrWalletNotFound
	}
	delete(r.store.wallets, id)
	return nil
}

func (r *walletRepository) AdjustBalances(_ context.Context, effects []domain.BalanceEffect) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Verify every wallet exists before mutating any of them.
	for _, effect := range effects {
		if _, ok := r.store.wallets[effect.WalletID]; !ok {
			return domain.ErrWalletNotFound
		}
	}

	for _, effect := range effects {
		wallet := r.store.wallets[effect.WalletID]
		wallet.Balance = wallet.Balance.Add(effect.Delta)
	}
	return nil
}

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(_ context.Context, tx *domain.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t := *tx
	r.store.txs[t.ID] = &t
	r.store.txOrder = append(r.store.txOrder, t.ID)
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t := *tx
	return &t, nil
}

func (r *transactionRepository) List(_ context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Walk in creation order so the date sort below has a stable
	// insertion-order tiebreak.
	txs := make([]*domain.Transaction, 0, len(r.store.txOrder))
	for _, id := range r.store.txOrder {
		tx, ok := r.store.txs[id]
		if !ok {
			continue
		}
		if filter.WalletID != nil && !tx.References(*filter.WalletID) {
			continue
		}
		if filter.Start != nil && tx.Date.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && tx.Date.After(*filter.End) {
			continue
		}
		t := *tx
		txs = append(txs, &t)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})

	return txs, nil
}

func (r *transactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.store.txs, id)
	return nil
}
