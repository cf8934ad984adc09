package booking

import (
	"narration-desk/types"
)

// CreateRequestPayload is the admin form for entering a booking request by hand
type CreateRequestPayload struct {
	BookTitle  string `json:"book_title" validate:"required,max=255"`
	ClientName string `json:"client_name" validate:"required,max=255"`
	ClientType string `json:"client_type" validate:"omitempty,oneof=Direct Roster Audition"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	WordCount  int    `json:"word_count" validate:"gte=0"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes" validate:"max=5000"`
}

func (r *CreateRequestPayload) Validate() error {
	return types.Validate(r)
}

// MovePayload moves a request to another status, optionally editing columns in the same write
type MovePayload struct {
	Status string                 `json:"status" validate:"required"`
	Extras map[string]interface{} `json:"extras"`
}

func (r *MovePayload) Validate() error {
	return types.Validate(r)
}

// ActionPayload runs a named lifecycle action
type ActionPayload struct {
	Action string `json:"action" validate:"required"`
}

func (r *ActionPayload) Validate() error {
	return types.Validate(r)
}

// StartF15Payload opens the first fifteen stage
type StartF15Payload struct {
	BreakdownReceived string `json:"breakdown_received" validate:"omitempty,datetime=2006-01-02"`
}

func (r *StartF15Payload) Validate() error {
	return types.Validate(r)
}

// F15FeedbackPayload records a delivery or a round of client feedback
type F15FeedbackPayload struct {
	RevisionRequested  bool   `json:"revision_requested"`
	SentDate           string `json:"sent_date" validate:"omitempty,datetime=2006-01-02"`
	ClientFeedbackDate string `json:"client_feedback_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *F15FeedbackPayload) Validate() error {
	return types.Validate(r)
}

// BootPayload removes a request into the archive table
type BootPayload struct {
	Reason string `json:"reason" validate:"max=500"`
}

func (r *BootPayload) Validate() error {
	return types.Validate(r)
}

// LegacyStatusPatch is the body of PATCH /api/bookings
type LegacyStatusPatch struct {
	ID     uint   `json:"id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required"`
}

func (r *LegacyStatusPatch) Validate() error {
	return types.Validate(r)
}

// IntakePayload is the booking form on the public site
type IntakePayload struct {
	Name      string `json:"name" form:"name" validate:"required,max=255"`
	Email     string `json:"email" form:"email" validate:"required,email,max=255"`
	Project   string `json:"project" form:"project" validate:"max=255"`
	Message   string `json:"message" form:"message" validate:"max=5000"`
	WordCount int    `json:"word_count" form:"word_count" validate:"gte=0"`
}

func (r *IntakePayload) Validate() error {
	return types.Validate(r)
}

// CreateAuditionPayload records a new audition
type CreateAuditionPayload struct {
	BookTitle        string `json:"book_title" validate:"required,max=255"`
	ClientName       string `json:"client_name" validate:"required,max=255"`
	RosterProducer   string `json:"roster_producer" validate:"max=255"`
	EndDate          string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MaterialURL      string `json:"material_url" validate:"omitempty,url,max=2048"`
	ProductionStatus string `json:"production_status" validate:"omitempty,oneof=auditioning callback shortlist"`
}

func (r *CreateAuditionPayload) Validate() error {
	return types.Validate(r)
}

// AuditionProgressPayload updates how far an audition has got
type AuditionProgressPayload struct {
	ProductionStatus string `json:"production_status" validate:"required,oneof=auditioning callback shortlist"`
}

func (r *AuditionProgressPayload) Validate() error {
	return types.Validate(r)
}

// BookAuditionPayload converts an audition into a booking request
type BookAuditionPayload struct {
	ClientType string `json:"client_type" validate:"required,oneof=Direct Roster Audition"`
}

func (r *BookAuditionPayload) Validate() error {
	return types.Validate(r)
}
