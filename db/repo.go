package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/goodjobguy1234/LendItApi/apperr"
	"github.com/goodjobguy1234/LendItApi/lifecycle"
	"github.com/goodjobguy1234/LendItApi/models"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// InTx satisfies lifecycle.Store: every write inside fn rides the same
// database transaction.
func (r *Repo) InTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{DB: tx})
	})
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// FindUserByStudentID looks up the public 7-char id, not the storage uuid.
func (r *Repo) FindUserByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user " + studentID + " does not exist")
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) UserExists(ctx context.Context, studentID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("student_id = ?", studentID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}
