package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

func (r *Repo) GetBorrow(ctx context.Context, id string) (*models.Borrow, error) {
	var b models.Borrow
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("borrow not found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) CreateBorrow(ctx context.Context, b *models.Borrow) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) SetBorrowPending(ctx context.Context, id string, pending bool) error {
	return r.DB.WithContext(ctx).Model(&models.Borrow{}).
		Where("id = ?", id).
		Update("pending_stat", pending).Error
}

func (r *Repo) DeleteBorrow(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.Borrow{}, "id = ?", id).Error
}

func (r *Repo) ListBorrowsByBorrower(ctx context.Context, borrowerID string) ([]models.Borrow, error) {
	var bs []models.Borrow
	err := r.DB.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").
		Find(&bs).Error
	return bs, err
}

func (r *Repo) ListBorrowsByLender(ctx context.Context, lenderID string) ([]models.Borrow, error) {
	var bs []models.Borrow
	err := r.DB.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC").
		Find(&bs).Error
	return bs, err
}
