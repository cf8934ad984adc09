package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User is a dashboard account allowed to manage bookings
type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string      `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username     string      `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName    string      `gorm:"type:varchar(255)" json:"legal_name"`
	Email        *string     `gorm:"type:varchar(255);unique" json:"email"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"`
	Permissions  StringSlice `gorm:"type:text" json:"permissions"` // JSON encoded slice of strings

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "admin_users"
}

// StringSlice is a custom type to handle JSON serialization for the permissions column
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
