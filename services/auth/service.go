package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"narration-desk/models/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers unknown usernames and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash keeps the response time of unknown usernames close to that of wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("narration-desk-placeholder"), bcrypt.DefaultCost)

// Service checks dashboard credentials.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Authenticate returns the account for a correct username and password and records the login time.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	var u user.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND deleted_at IS NULL", strings.TrimSpace(username)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	at := s.now()
	if err := s.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", u.ID).Update("last_login_at", at).Error; err != nil {
		return nil, fmt.Errorf("record login for %q: %w", username, err)
	}
	u.LastLoginAt = &at
	return &u, nil
}
