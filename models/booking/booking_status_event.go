package booking

import (
	"time"
)

// BookingStatusEvent represents a status change event for a booking request
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Source table of the row that changed, e.g. 2_booking_requests or bookings
	Subject   string `gorm:"type:varchar(50);not null;index:idx_status_events_subject" json:"subject"`
	SubjectID uint   `gorm:"not null;index:idx_status_events_subject" json:"subject_id"`

	FromStatus BookingStatus `gorm:"size:30" json:"from_status"`
	ToStatus   BookingStatus `gorm:"size:30;not null" json:"to_status"`
	Action     string        `gorm:"size:30;not null" json:"action"`
	CreatedBy  string        `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
