package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidshare/internal/model"
)

type UserRepository struct {
	conn DBProvider
}

func NewUserRepository(conn DBProvider) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts the user with a fresh id. A duplicate email surfaces as an
// error wrapping gorm.ErrDuplicatedKey.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}
