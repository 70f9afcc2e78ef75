package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

func (r *Repo) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *Repo) SetTransactionReturned(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("return_status", true).Error
}

func (r *Repo) OpenTransactionExists(ctx context.Context, borrowID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("borrow_borrow_id = ? AND return_status = FALSE", borrowID).
		Count(&n).Error
	return n > 0, err
}

// ListTransactionsByUser returns settlements where the user was on either
// side of the loan. ULID primary keys sort by creation time.
func (r *Repo) ListTransactionsByUser(ctx context.Context, studentID string) ([]models.Transaction, error) {
	var ts []models.Transaction
	err := r.DB.WithContext(ctx).
		Where("borrow_lender_id = ? OR borrow_borrower_id = ?", studentID, studentID).
		Order("id DESC").
		Find(&ts).Error
	return ts, err
}
