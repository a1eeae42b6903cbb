package models

import (
	"context"
	"strings"
	"time"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username" binding:"required"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, utils.NewValidationError("username", "is required")
	}
	if len(input.Password) < 8 {
		return nil, utils.NewValidationError("password", "must be at least 8 characters")
	}
	if err := utils.ValidateUnique[User](ctx, "username", username, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username: username,
		Password: string(hashed),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser checks the credentials. A missing user and a wrong
// password are indistinguishable to the caller.
func AuthenticateUser(ctx context.Context, input *LoginInput) (*User, error) {

	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(input.Username)).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorUnauthorized
		}
		return nil, err
	}

	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, utils.ErrorUnauthorized
	}
	return &user, nil
}
