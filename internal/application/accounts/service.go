package accounts

import (
	"context"

	"carbon-ledger/internal/domain"

	"gorm.io/gorm"
)

// Service is the value-transfer capability: an atomic "debit A, credit B"
// primitive. Settlement is its only in-tree caller besides the funding
// endpoints.
type Service struct {
	DB *gorm.DB
}

// Deposit credits a principal's account, creating it on first use.
func (s *Service) Deposit(ctx context.Context, principal string, amount uint64) (uint64, error) {
	var balance uint64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct := domain.Account{Principal: principal}
		if err := tx.Where("principal = ?", principal).FirstOrCreate(&acct).Error; err != nil {
			return err
		}
		acct.Balance += amount
		balance = acct.Balance
		return tx.Save(&acct).Error
	})
	return balance, err
}

// Balance returns the spendable balance; unknown principals hold zero.
func (s *Service) Balance(ctx context.Context, principal string) (uint64, error) {
	var acct domain.Account
	if err := s.DB.WithContext(ctx).Where("principal = ?", principal).First(&acct).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return acct.Balance, nil
}

// TransferTx debits from and credits to inside the caller's transaction.
// An insufficient balance surfaces as a coded error and rolls back every
// other effect of the enclosing operation.
func (s *Service) TransferTx(tx *gorm.DB, from, to string, amount uint64) error {
	var src domain.Account
	if err := tx.Where("principal = ?", from).First(&src).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrInsufficientBalance
		}
		return err
	}
	if src.Balance < amount {
		return domain.ErrInsufficientBalance
	}
	src.Balance -= amount
	if err := tx.Save(&src).Error; err != nil {
		return err
	}

	dst := domain.Account{Principal: to}
	if err := tx.Where("principal = ?", to).FirstOrCreate(&dst).Error; err != nil {
		return err
	}
	dst.Balance += amount
	return tx.Save(&dst).Error
}
