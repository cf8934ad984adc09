package booking

import "time"

// MaxF15Strikes is the number of revision rounds a first fifteen may go through.
const MaxF15Strikes = 3

// FirstFifteen is the sample recording gate a request passes before full production.
type FirstFifteen struct {
	ID                    uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID             uint       `gorm:"not null;uniqueIndex" json:"request_id"`
	BreakdownReceivedDate *time.Time `json:"breakdown_received_date,omitempty"`
	DueDate               *time.Time `gorm:"index" json:"due_date,omitempty"`
	SentDate              *time.Time `json:"sent_date,omitempty"`
	ClientFeedbackDate    *time.Time `json:"client_feedback_date,omitempty"`
	RevisionReq           bool       `gorm:"default:false" json:"revision_req"`
	StrikeCount           int        `gorm:"default:0" json:"strike_count"`
	Approved              bool       `gorm:"default:false" json:"approved"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FirstFifteen) TableName() string {
	return "4_first_15"
}

// StrikesLeft returns how many revision rounds remain
func (f *FirstFifteen) StrikesLeft() int {
	if f.StrikeCount >= MaxF15Strikes {
		return 0
	}
	return MaxF15Strikes - f.StrikeCount
}
