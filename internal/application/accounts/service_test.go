package accounts

import (
	"context"
	"testing"

	"carbon-ledger/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAccountsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	return &Service{DB: db}, db
}

func TestDeposit_CreatesAndAccumulates(t *testing.T) {
	svc, _ := setupAccountsTest(t)
	ctx := context.Background()

	bal, err := svc.Deposit(ctx, "PRN-AAAAAAAA-AAAA", 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)

	bal, err = svc.Deposit(ctx, "PRN-AAAAAAAA-AAAA", 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(1250), bal)
}

func TestBalance_UnknownPrincipalIsZero(t *testing.T) {
	svc, _ := setupAccountsTest(t)

	bal, err := svc.Balance(context.Background(), "PRN-ZZZZZZZZ-ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)
}

func TestTransferTx_MovesFunds(t *testing.T) {
	svc, db := setupAccountsTest(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, "PRN-AAAAAAAA-AAAA", 1000)
	require.NoError(t, err)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.TransferTx(tx, "PRN-AAAAAAAA-AAAA", "PRN-BBBBBBBB-BBBB", 400)
	}))

	src, err := svc.Balance(ctx, "PRN-AAAAAAAA-AAAA")
	require.NoError(t, err)
	assert.Equal(t, uint64(600), src)
	dst, err := svc.Balance(ctx, "PRN-BBBBBBBB-BBBB")
	require.NoError(t, err)
	assert.Equal(t, uint64(400), dst)
}

func TestTransferTx_InsufficientBalance(t *testing.T) {
	svc, db := setupAccountsTest(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, "PRN-AAAAAAAA-AAAA", 100)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.TransferTx(tx, "PRN-AAAAAAAA-AAAA", "PRN-BBBBBBBB-BBBB", 500)
	})
	ce, ok := domain.AsCodeError(err)
	require.True(t, ok)
	assert.Equal(t, uint(1), ce.Code)

	// Rolled back: source keeps its funds, destination was never created.
	src, err := svc.Balance(ctx, "PRN-AAAAAAAA-AAAA")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), src)
	dst, err := svc.Balance(ctx, "PRN-BBBBBBBB-BBBB")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), dst)
}

func TestTransferTx_UnknownSource(t *testing.T) {
	svc, db := setupAccountsTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.TransferTx(tx, "PRN-ZZZZZZZZ-ZZZZ", "PRN-BBBBBBBB-BBBB", 1)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}
