package repositories

import (
	"context"
	"errors"
	"fmt"

	"peerpay/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed TransactionRepository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if tx.PayerID == tx.PayeeID {
		return ErrSameAccount
	}
	if tx.Reference == "" {
		tx.Reference = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.StatusPending
	}
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("payer_id = ? OR payee_id = ?", accountID, accountID).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Transition applies a guarded status update. The WHERE clause only matches
// pending rows, so a lost race against another resolver shows up as zero
// rows affected rather than a double transition.
func (r *transactionRepository) Transition(ctx context.Context, id uint, newStatus string) error {
	if newStatus != models.StatusApplied && newStatus != models.StatusDeclined {
		return ErrIllegalTransition
	}
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", newStatus)
	if result.Error != nil {
		return fmt.Errorf("failed to transition transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrIllegalTransition
	}
	return nil
}

// Delete purges a record. Only declined transactions are purgeable; applied
// records are the audit trail and pending ones are still live.
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusDeclined).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrIllegalDelete
	}
	return nil
}
