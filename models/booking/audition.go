package booking

import "time"

// Audition is a roster or direct audition that may turn into a booking.
type Audition struct {
	ID               uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	BookTitle        string           `gorm:"type:varchar(255);not null" json:"book_title"`
	ClientName       string           `gorm:"type:varchar(255);not null" json:"client_name"`
	RosterProducer   string           `gorm:"type:varchar(255)" json:"roster_producer"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	MaterialURL      string           `gorm:"type:varchar(2048)" json:"material_url"`
	ProductionStatus ProductionStatus `gorm:"type:varchar(20);not null;default:auditioning" json:"production_status"`
	Status           AuditionStatus   `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Audition) TableName() string {
	return "5_auditions"
}
