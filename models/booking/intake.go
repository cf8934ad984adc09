package booking

import "time"

// Booking is an enquiry submitted through the public site's booking form.
type Booking struct {
	ID        uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);not null" json:"email"`
	Project   string        `gorm:"type:varchar(255)" json:"project"`
	Message   string        `gorm:"type:text" json:"message"`
	WordCount int           `gorm:"default:0" json:"word_count"`
	Status    BookingStatus `gorm:"type:varchar(30);not null;default:pending;index" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
