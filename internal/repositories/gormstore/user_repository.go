package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"messaging-service/internal/models"
	"messaging-service/internal/normalize"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user after checking the username is free.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Username = normalize.Username(user.Username)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("username = ?", user.Username).First(&existing).Error
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: check username: %w", ErrStorage, err)
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: create user: %w", ErrStorage, err)
		}

		slog.Debug("User created", "id", user.ID, "username", user.Username)
		return nil
	})
}

// FindByUsername resolves a username case-insensitively.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", normalize.Username(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrStorage, err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrStorage, err)
	}
	return &user, nil
}

// UpdateDisplayName changes the live display name only; usernames are fixed.
func (r *UserRepository) UpdateDisplayName(ctx context.Context, id uint, displayName string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("display_name", displayName)
	if res.Error != nil {
		return fmt.Errorf("%w: update user: %w", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
