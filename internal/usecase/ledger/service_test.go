package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/backend/internal/adapter/repository/memory"
	"github.com/dompetku/backend/internal/domain"
)

// MockWalletRepository is a mock implementation of WalletRepository for testing
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) List(ctx context.Context, typeFilter domain.WalletType) ([]*domain.Wallet, error) {
	args := m.Called(ctx, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWalletRepository) AdjustBalances(ctx context.Context, effects []domain.BalanceEffect) error {
	args := m.Called(ctx, effects)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

// newMemoryService wires a ledger service against the in-memory store and
// seeds the given wallets.
func newMemoryService(t *testing.T, wallets ...*domain.Wallet) (*Service, domain.WalletRepository) {
	t.Helper()

	store := memory.NewStore()
	walletRepo := memory.NewWalletRepository(store)
	txRepo := memory.NewTransactionRepository(store)

	ctx := context.Background()
	for _, w := range wallets {
		require.NoError(t, walletRepo.Create(ctx, w))
	}

	return NewService(walletRepo, txRepo), walletRepo
}

func TestCreateTransaction_ExpenseThenDeleteRestoresBalance(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	service, walletRepo := newMemoryService(t, &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeSavings,
		Balance: decimal.NewFromInt(100000),
	})

	tx, updated, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.NewFromInt(30000),
		Category: "Groceries",
		WalletID: ptr(walletID),
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.True(t, updated[0].Balance.Equal(decimal.NewFromInt(70000)),
		"expected 70000, got %s", updated[0].Balance)

	restored, err := service.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.True(t, restored[0].Balance.Equal(decimal.NewFromInt(100000)),
		"expected 100000, got %s", restored[0].Balance)

	wallet, err := walletRepo.GetByID(ctx, walletID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100000)))
}

func TestCreateTransaction_TransferMovesExactAmount(t *testing.T) {
	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()

	service, walletRepo := newMemoryService(t,
		&domain.Wallet{ID: fromID, Name: "Checking", Type: domain.WalletTypeTransactional, Balance: decimal.NewFromInt(50000)},
		&domain.Wallet{ID: toID, Name: "Savings", Type: domain.WalletTypeSavings, Balance: decimal.Zero},
	)

	_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:         domain.TransactionTypeTransfer,
		Amount:       decimal.NewFromInt(20000),
		FromWalletID: ptr(fromID),
		ToWalletID:   ptr(toID),
	})
	require.NoError(t, err)

	from, err := walletRepo.GetByID(ctx, fromID)
	require.NoError(t, err)
	to, err := walletRepo.GetByID(ctx, toID)
	require.NoError(t, err)

	assert.True(t, from.Balance.Equal(decimal.NewFromInt(30000)), "source: %s", from.Balance)
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(20000)), "destination: %s", to.Balance)
}

func TestCreateTransaction_InsufficientFundsLeavesBalanceUntouched(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	service, walletRepo := newMemoryService(t, &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeTransactional,
		Balance: decimal.NewFromInt(1000),
	})

	_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.NewFromInt(999999),
		WalletID: ptr(walletID),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	wallet, err := walletRepo.GetByID(ctx, walletID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(1000)))

	// No record may exist for the rejected mutation.
	txs, err := service.TransactionRepo.List(ctx, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()
	service, _ := newMemoryService(t, &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeSavings,
		Balance: decimal.NewFromInt(1000),
	})

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name: "non-positive amount",
			input: CreateTransactionInput{
				Type:     domain.TransactionTypeIncome,
				Amount:   decimal.Zero,
				WalletID: ptr(walletID),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown wallet",
			input: CreateTransactionInput{
				Type:     domain.TransactionTypeIncome,
				Amount:   decimal.NewFromInt(10),
				WalletID: ptr(uuid.New()),
			},
			wantErr: domain.ErrWalletNotFound,
		},
		{
			name: "transfer to same wallet",
			input: CreateTransactionInput{
				Type:         domain.TransactionTypeTransfer,
				Amount:       decimal.NewFromInt(10),
				FromWalletID: ptr(walletID),
				ToWalletID:   ptr(walletID),
			},
			wantErr: domain.ErrSameWalletTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.CreateTransaction(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateTransaction_DefaultsDateAndCategory(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()
	service, _ := newMemoryService(t, &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeSavings,
		Balance: decimal.Zero,
	})

	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	tx, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.NewFromInt(500),
		WalletID: ptr(walletID),
	})
	require.NoError(t, err)
	assert.Equal(t, fixed, tx.Date)
	assert.Equal(t, domain.CategoryUncategorized, tx.Category)
}

func TestCreateTransaction_BalanceWriteFailureRollsBackRecord(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	mockWalletRepo := new(MockWalletRepository)
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockWalletRepo, mockTxRepo)

	wallet := &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeSavings,
		Balance: decimal.NewFromInt(1000),
	}

	storeErr := errors.New("connection reset")
	mockWalletRepo.On("GetByID", ctx, walletID).Return(wallet, nil)
	mockTxRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	mockWalletRepo.On("AdjustBalances", ctx, mock.Anything).Return(storeErr)
	mockTxRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.NewFromInt(100),
		WalletID: ptr(walletID),
	})

	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.ErrorIs(t, err, storeErr)
	mockTxRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	ctx := context.Background()
	service, _ := newMemoryService(t)

	_, err := service.DeleteTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDeleteTransaction_ReversesTransfer(t *testing.T) {
	ctx := context.Background()
	fromID := uuid.New()
	toID := uuid.New()

	service, walletRepo := newMemoryService(t,
		&domain.Wallet{ID: fromID, Name: "A", Type: domain.WalletTypeSavings, Balance: decimal.NewFromInt(500)},
		&domain.Wallet{ID: toID, Name: "B", Type: domain.WalletTypeSavings, Balance: decimal.NewFromInt(100)},
	)

	tx, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
		Type:         domain.TransactionTypeTransfer,
		Amount:       decimal.RequireFromString("123.45"),
		FromWalletID: ptr(fromID),
		ToWalletID:   ptr(toID),
	})
	require.NoError(t, err)

	_, err = service.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)

	from, err := walletRepo.GetByID(ctx, fromID)
	require.NoError(t, err)
	to, err := walletRepo.GetByID(ctx, toID)
	require.NoError(t, err)

	assert.True(t, from.Balance.Equal(decimal.NewFromInt(500)))
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(100)))
}

func TestCreateTransaction_ConcurrentExpensesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()

	service, walletRepo := newMemoryService(t, &domain.Wallet{
		ID:      walletID,
		Name:    "Main",
		Type:    domain.WalletTypeTransactional,
		Balance: decimal.NewFromInt(100),
	})

	// 20 concurrent expenses of 10 against a balance of 100: exactly 10
	// may succeed, and the rest must be rejected without losing updates.
	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
				Type:     domain.TransactionTypeExpense,
				Amount:   decimal.NewFromInt(10),
				WalletID: ptr(walletID),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)

	wallet, err := walletRepo.GetByID(ctx, walletID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "final balance: %s", wallet.Balance)
}

func TestCreateTransaction_OpposingConcurrentTransfersDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	aID := uuid.New()
	bID := uuid.New()

	service, walletRepo := newMemoryService(t,
		&domain.Wallet{ID: aID, Name: "A", Type: domain.WalletTypeSavings, Balance: decimal.NewFromInt(10000)},
		&domain.Wallet{ID: bID, Name: "B", Type: domain.WalletTypeSavings, Balance: decimal.NewFromInt(10000)},
	)

	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
				Type:         domain.TransactionTypeTransfer,
				Amount:       decimal.NewFromInt(1),
				FromWalletID: ptr(aID),
				ToWalletID:   ptr(bID),
			})
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, _, err := service.CreateTransaction(ctx, CreateTransactionInput{
				Type:         domain.TransactionTypeTransfer,
				Amount:       decimal.NewFromInt(1),
				FromWalletID: ptr(bID),
				ToWalletID:   ptr(aID),
			})
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	// Equal opposing volume: both balances end where they started.
	a, err := walletRepo.GetByID(ctx, aID)
	require.NoError(t, err)
	b, err := walletRepo.GetByID(ctx, bID)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(10000)))
}
