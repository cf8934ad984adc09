package booking

import (
	"time"
)

// BookingRequest is a narration job tracked through the production lifecycle.
type BookingRequest struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	RefNumber     string        `gorm:"type:varchar(32);not null;unique" json:"ref_number"`
	BookTitle     string        `gorm:"type:varchar(255);not null" json:"book_title"`
	ClientName    string        `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientType    ClientType    `gorm:"type:varchar(20);not null" json:"client_type"`
	Email         *string       `gorm:"type:varchar(255)" json:"email,omitempty"`
	WordCount     int           `gorm:"default:0" json:"word_count"`
	StartDate     *time.Time    `json:"start_date,omitempty"`
	EndDate       *time.Time    `json:"end_date,omitempty"`
	Status        BookingStatus `gorm:"type:varchar(30);not null;default:pending" json:"status"`
	Notes         string        `gorm:"type:text" json:"notes"`
	CoverImageURL *string       `gorm:"type:varchar(2048)" json:"cover_image_url,omitempty"`

	// Set while the request sits in the archive table after a boot
	ArchiveID *uint `gorm:"index" json:"archive_id,omitempty"`
	// Set when the request was booked from an audition
	AuditionID *uint `gorm:"index" json:"audition_id,omitempty"`

	FirstFifteen *FirstFifteen `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"first_fifteen,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name the dashboard has always used
func (BookingRequest) TableName() string {
	return "2_booking_requests"
}

// Onboarding tracks the paperwork collected once a request is approved.
type Onboarding struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID          uint      `gorm:"not null;uniqueIndex" json:"request_id"`
	ContractSigned     bool      `gorm:"default:false" json:"contract_signed"`
	ManuscriptReceived bool      `gorm:"default:false" json:"manuscript_received"`
	PronunciationNotes string    `gorm:"type:text" json:"pronunciation_notes"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Onboarding) TableName() string {
	return "3_onboarding"
}
