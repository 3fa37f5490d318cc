package database

import (
	"errors"

	"grillmaster-pos/internal/models"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no staff account has the username.
var ErrUserNotFound = errors.New("user not found")

// Users reads and writes staff accounts.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (u *Users) Create(user *models.User) error {
	return u.db.Create(user).Error
}

func (u *Users) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := u.db.Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// Count is used to let the very first account be created as admin.
func (u *Users) Count() (int64, error) {
	var n int64
	err := u.db.Model(&models.User{}).Count(&n).Error
	return n, err
}
