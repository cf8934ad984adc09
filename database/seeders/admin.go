package seeders

import (
	"errors"
	"fmt"
	"strings"

	"narration-desk/constants"
	"narration-desk/logger"
	"narration-desk/models/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted for dashboard accounts.
const MinPasswordLength = 10

// SeedAdmin creates a dashboard account with full permissions unless the username is taken.
// It returns true when a new account was created.
func SeedAdmin(db *gorm.DB, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, errors.New("admin username is required")
	}
	if len(password) < MinPasswordLength {
		return false, fmt.Errorf("admin password must be at least %d characters", MinPasswordLength)
	}

	var existing user.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		logger.Debug("Admin user already exists: " + username)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := user.User{
		Uuid:         uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Permissions:  user.StringSlice{constants.PermAdminFull},
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	logger.Success("Seeded admin user: " + username)
	return true, nil
}
