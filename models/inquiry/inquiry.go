package inquiry

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// ParseRequest records one attempt to turn a client inquiry into booking fields
type ParseRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Source           string `json:"source" gorm:"type:varchar(20);not null"` // text or image
	MimeType         string `json:"mime_type" gorm:"type:varchar(100)"`
	InputHash        string `json:"input_hash" gorm:"type:varchar(128);index"` // SHA256 of the submitted text or file
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"`
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Parsed data fields
	BookTitle  string `json:"book_title" gorm:"type:varchar(255);default:''"`
	ClientName string `json:"client_name" gorm:"type:varchar(255);default:''"`
	Email      string `json:"email" gorm:"type:varchar(255);default:''"`
	WordCount  int    `json:"word_count" gorm:"default:0"`
	StartDate  string `json:"start_date" gorm:"type:varchar(20);default:''"`
	EndDate    string `json:"end_date" gorm:"type:varchar(20);default:''"`

	// Set when a booking request was created from this parse
	BookingRequestID *uint `json:"booking_request_id,omitempty" gorm:"index"`

	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`
	IPAddress    string `json:"ip_address" gorm:"type:varchar(45);default:''"`
	CreatedBy    string `json:"created_by" gorm:"type:varchar(255);default:''"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for ParseRequest
func (ParseRequest) TableName() string {
	return "inquiry_parse_requests"
}

// BeforeCreate hook to set default values
func (pr *ParseRequest) BeforeCreate(tx *gorm.DB) error {
	if pr.Status == "" {
		pr.Status = StatusProcessing
	}
	return nil
}

// IsProcessing checks if the request is still processing
func (pr *ParseRequest) IsProcessing() bool {
	return pr.Status == StatusProcessing
}

// Extracted is the structured result the parser returns
type Extracted struct {
	BookTitle  string `json:"book_title"`
	ClientName string `json:"client_name"`
	Email      string `json:"email"`
	WordCount  int    `json:"word_count"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD or empty
	EndDate    string `json:"end_date"`
}
