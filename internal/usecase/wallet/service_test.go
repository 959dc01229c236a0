package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/backend/internal/adapter/repository/memory"
	"github.com/dompetku/backend/internal/domain"
)

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(memory.NewWalletRepository(store), memory.NewTransactionRepository(store)), store
}

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	wallet, err := service.CreateWallet(ctx, CreateWalletInput{
		Name:           "Emergency Fund",
		Type:           domain.WalletTypeSavings,
		InitialBalance: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100000)))

	fetched, err := service.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emergency Fund", fetched.Name)
}

func TestCreateWallet_Invalid(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	_, err := service.CreateWallet(ctx, CreateWalletInput{
		Type: domain.WalletTypeSavings,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyWalletName)

	_, err = service.CreateWallet(ctx, CreateWalletInput{
		Name: "Stocks",
		Type: domain.WalletType("investment"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWalletType)
}

func TestUpdateWallet_NeverTouchesBalance(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	wallet, err := service.CreateWallet(ctx, CreateWalletInput{
		Name:           "Main",
		Type:           domain.WalletTypeTransactional,
		InitialBalance: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	budget := decimal.NewFromInt(2500)
	updated, err := service.UpdateWallet(ctx, wallet.ID, UpdateWalletInput{
		Name:   "Daily",
		Type:   domain.WalletTypeSavings,
		Budget: &budget,
	})
	require.NoError(t, err)
	assert.Equal(t, "Daily", updated.Name)
	assert.Equal(t, domain.WalletTypeSavings, updated.Type)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(5000)))

	fetched, err := service.GetWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Balance.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, fetched.Budget)
	assert.True(t, fetched.Budget.Equal(budget))
}

func TestDeleteWallet_RejectedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	service, store := newService()
	txRepo := memory.NewTransactionRepository(store)

	wallet, err := service.CreateWallet(ctx, CreateWalletInput{
		Name:           "Main",
		Type:           domain.WalletTypeSavings,
		InitialBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	tx := &domain.Transaction{
		ID:       uuid.New(),
		Type:     domain.TransactionTypeExpense,
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
		WalletID: ptr(wallet.ID),
	}
	require.NoError(t, txRepo.Create(ctx, tx))

	err = service.DeleteWallet(ctx, wallet.ID)
	assert.ErrorIs(t, err, domain.ErrWalletHasTransactions)

	// After the reference is gone, deletion succeeds.
	require.NoError(t, txRepo.Delete(ctx, tx.ID))
	require.NoError(t, service.DeleteWallet(ctx, wallet.ID))

	_, err = service.GetWallet(ctx, wallet.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestTotalByType(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	_, err := service.CreateWallet(ctx, CreateWalletInput{
		Name: "Savings A", Type: domain.WalletTypeSavings, InitialBalance: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	_, err = service.CreateWallet(ctx, CreateWalletInput{
		Name: "Savings B", Type: domain.WalletTypeSavings, InitialBalance: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	_, err = service.CreateWallet(ctx, CreateWalletInput{
		Name: "Spending", Type: domain.WalletTypeTransactional, InitialBalance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	savings, err := service.TotalByType(ctx, domain.WalletTypeSavings)
	require.NoError(t, err)
	assert.True(t, savings.Equal(decimal.NewFromInt(500)))

	all, err := service.TotalByType(ctx, "")
	require.NoError(t, err)
	assert.True(t, all.Equal(decimal.NewFromInt(550)))
}
