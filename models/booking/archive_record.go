package booking

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ArchiveRecord keeps a snapshot of a booted request.
type ArchiveRecord struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID     uint         `gorm:"not null;index" json:"request_id"`
	OriginalData  JSONSnapshot `gorm:"type:text;not null" json:"original_data"`
	Reason        string       `gorm:"type:text" json:"reason"`
	IsBlacklisted bool         `gorm:"default:false;index" json:"is_blacklisted"`
	ArchivedAt    time.Time    `gorm:"not null" json:"archived_at"`
	ArchivedBy    string       `gorm:"type:varchar(255)" json:"archived_by"`
}

func (ArchiveRecord) TableName() string {
	return "7_archive"
}

// JSONSnapshot stores a JSON document in a text column
type JSONSnapshot json.RawMessage

// Scan implements the Scanner interface for database deserialization
func (js *JSONSnapshot) Scan(value interface{}) error {
	if value == nil {
		*js = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*js = append((*js)[0:0], v...)
	case string:
		*js = JSONSnapshot(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return nil
}

// Value implements the driver Valuer interface for database serialization
func (js JSONSnapshot) Value() (driver.Value, error) {
	if len(js) == 0 {
		return nil, nil
	}
	return string(js), nil
}

func (js JSONSnapshot) MarshalJSON() ([]byte, error) {
	if len(js) == 0 {
		return []byte("null"), nil
	}
	return js, nil
}

func (js *JSONSnapshot) UnmarshalJSON(data []byte) error {
	*js = append((*js)[0:0], data...)
	return nil
}

// Decode reads the snapshot back into a BookingRequest
func (js JSONSnapshot) Decode() (*BookingRequest, error) {
	var req BookingRequest
	if err := json.Unmarshal(js, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
