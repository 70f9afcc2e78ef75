package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/models"
)

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

// ListItems returns all items, optionally only those listed by one owner
// (student id).
func (r *Repo) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	q := r.DB.WithContext(ctx).Order("created_at DESC")
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	var items []models.Item
	err := q.Find(&items).Error
	return items, err
}

// UpdateItemFields applies a whitelisted partial update. Callers must never
// put "available" in fields; that flag belongs to the lifecycle engine.
func (r *Repo) UpdateItemFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Item, error) {
	res := r.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("item not found")
	}
	return r.GetItem(ctx, id)
}

func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}

// SetItemAvailability is the compare-and-swap the engine's transitions hang
// on: the update only lands when the flag still holds the expected value.
func (r *Repo) SetItemAvailability(ctx context.Context, itemID string, from, to bool) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND available = ?", itemID, from).
		Update("available", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) UnavailableItemIDsWithoutBorrow(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("available = FALSE").
		Where(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s b WHERE b.item_id = %s.id)",
			models.BorrowTable, models.ItemTable)).
		Pluck("id", &ids).Error
	return ids, err
}
