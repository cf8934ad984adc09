package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingModel "narration-desk/models/booking"
	"narration-desk/services/booking_event"
	"narration-desk/services/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subjects used in the status event log.
const (
	SubjectRequest = "2_booking_requests"
	SubjectIntake  = "bookings"
)

// Service runs lifecycle operations against the record store. Every operation
// that touches more than one row does so in a single transaction, and status
// writes are conditional on the status the caller observed.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a lifecycle service over db
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewRequest holds the fields accepted when a request is entered by hand.
type NewRequest struct {
	BookTitle  string
	ClientName string
	ClientType bookingModel.ClientType
	Email      *string
	WordCount  int
	StartDate  *time.Time
	EndDate    *time.Time
	Notes      string
	AuditionID *uint
}

func (in NewRequest) validate() error {
	if strings.TrimSpace(in.BookTitle) == "" {
		return fmt.Errorf("%w: book title is required", ErrValidation)
	}
	if strings.TrimSpace(in.ClientName) == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if !in.ClientType.IsValid() {
		return fmt.Errorf("%w: client type must be Direct, Roster or Audition", ErrValidation)
	}
	if in.WordCount < 0 {
		return fmt.Errorf("%w: word count cannot be negative", ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrValidation)
	}
	return nil
}

// NewRefNumber builds a human friendly reference such as NB-2026-3F9A0C12.
func NewRefNumber(at time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("NB-%d-%s", at.Year(), strings.ToUpper(id[:8]))
}

// CreateRequest stores a new pending request.
func (s *Service) CreateRequest(ctx context.Context, actor string, in NewRequest) (*bookingModel.BookingRequest, error) {
	if in.ClientType == "" {
		in.ClientType = bookingModel.ClientTypeDirect
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var req *bookingModel.BookingRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		req, err = s.insertRequest(tx, actor, in)
		return err
	})
	observe("create", err)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) insertRequest(tx *gorm.DB, actor string, in NewRequest) (*bookingModel.BookingRequest, error) {
	req := bookingModel.BookingRequest{
		RefNumber:  NewRefNumber(s.now()),
		BookTitle:  strings.TrimSpace(in.BookTitle),
		ClientName: strings.TrimSpace(in.ClientName),
		ClientType: in.ClientType,
		Email:      in.Email,
		WordCount:  in.WordCount,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Notes:      in.Notes,
		AuditionID: in.AuditionID,
		Status:     bookingModel.BookingStatusPending,
		CreatedBy:  actor,
	}
	if err := tx.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create booking request: %w", err)
	}
	if err := booking_event.RecordStatusEvent(tx, SubjectRequest, req.ID, "", req.Status, "create", actor); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequest loads a request together with its first fifteen row.
func (s *Service) GetRequest(ctx context.Context, id uint) (*bookingModel.BookingRequest, error) {
	var req bookingModel.BookingRequest
	if err := s.db.WithContext(ctx).Preload("FirstFifteen").First(&req, id).Error; err != nil {
		return nil, notFound(err, "booking request", id)
	}
	return &req, nil
}

// RequestFilter narrows ListRequests. An empty Statuses hides deleted requests.
type RequestFilter struct {
	Statuses []bookingModel.BookingStatus
	Search   string
	Limit    int
}

// ListRequests returns requests newest first.
func (s *Service) ListRequests(ctx context.Context, f RequestFilter) ([]bookingModel.BookingRequest, error) {
	q := s.db.WithContext(ctx).Preload("FirstFifteen").Order("created_at DESC, id DESC")
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	} else {
		q = q.Where("status <> ?", bookingModel.BookingStatusDeleted)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(book_title) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(ref_number) LIKE ?", like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []bookingModel.BookingRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list booking requests: %w", err)
	}
	return out, nil
}

// UpdateRequest edits request fields without touching the status.
func (s *Service) UpdateRequest(ctx context.Context, actor string, id uint, fields map[string]interface{}) (*bookingModel.BookingRequest, error) {
	clean, err := sanitizeExtras(fields)
	if err != nil {
		return nil, err
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	clean["updated_by"] = actor

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, id)
		if err != nil {
			return err
		}
		if req.Status == bookingModel.BookingStatusDeleted {
			return &TransitionError{From: req.Status, Action: "edit"}
		}
		return tx.Model(&bookingModel.BookingRequest{}).Where("id = ?", id).Updates(clean).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

// transitionOptions carries per-action inputs through apply.
type transitionOptions struct {
	extras            map[string]interface{}
	breakdownReceived *time.Time
	reason            string
}

// Transition applies a named action to a request.
func (s *Service) Transition(ctx context.Context, actor string, id uint, action Action) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, action, transitionOptions{})
}

// MoveBooking moves a request to newStatus, writing extra column updates in
// the same statement. The move must be an edge of the state machine; the
// side effects of the resolved action (onboarding row, first fifteen row,
// archive snapshot) are applied in the same transaction.
func (s *Service) MoveBooking(ctx context.Context, actor string, id uint, newStatus bookingModel.BookingStatus, extras map[string]interface{}) (*bookingModel.BookingRequest, error) {
	clean, err := sanitizeExtras(extras)
	if err != nil {
		observe("move", err)
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, id)
		if err != nil {
			return err
		}
		action, err := Resolve(req.Status, newStatus)
		if err != nil {
			return err
		}
		opts := transitionOptions{extras: clean}
		if action == ActionBoot {
			opts.reason = "moved to booted"
		}
		return s.apply(tx, actor, req, action, opts)
	})
	observe("move", err)
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

func (s *Service) run(ctx context.Context, actor string, id uint, action Action, opts transitionOptions) (*bookingModel.BookingRequest, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, id)
		if err != nil {
			return err
		}
		return s.apply(tx, actor, req, action, opts)
	})
	observe(string(action), err)
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

// apply checks the transition table, performs the action's dependent writes
// and then flips the status. It must run inside a transaction.
func (s *Service) apply(tx *gorm.DB, actor string, req *bookingModel.BookingRequest, action Action, opts transitionOptions) error {
	to, err := Next(req.Status, action)
	if err != nil {
		return err
	}

	updates := make(map[string]interface{}, len(opts.extras)+3)
	for k, v := range opts.extras {
		updates[k] = v
	}

	switch action {
	case ActionApprove:
		ob := bookingModel.Onboarding{RequestID: req.ID}
		if err := tx.Where("request_id = ?", req.ID).FirstOrCreate(&ob).Error; err != nil {
			return fmt.Errorf("create onboarding for request %d: %w", req.ID, err)
		}
	case ActionStartF15:
		if err := s.openFirstFifteen(tx, req.ID, opts.breakdownReceived); err != nil {
			return err
		}
	case ActionApproveF15:
		if err := markFirstFifteen(tx, req.ID, map[string]interface{}{"approved": true, "revision_req": false}); err != nil {
			return err
		}
	case ActionFailF15:
		if err := markFirstFifteen(tx, req.ID, map[string]interface{}{"approved": false, "revision_req": false}); err != nil {
			return err
		}
	case ActionBoot:
		reason := opts.reason
		if reason == "" {
			reason = "booted"
		}
		record, err := booking_event.SnapshotRequestToArchive(tx, req, reason, actor, s.now())
		if err != nil {
			return err
		}
		updates["archive_id"] = record.ID
	case ActionRevive:
		if req.Status == bookingModel.BookingStatusBooted && req.ArchiveID != nil {
			if err := tx.Delete(&bookingModel.ArchiveRecord{}, *req.ArchiveID).Error; err != nil {
				return fmt.Errorf("delete archive record %d: %w", *req.ArchiveID, err)
			}
			updates["archive_id"] = nil
		}
	}

	return s.setStatus(tx, actor, req, to, string(action), updates)
}

// setStatus performs the compare-and-set status write and logs the event.
func (s *Service) setStatus(tx *gorm.DB, actor string, req *bookingModel.BookingRequest, to bookingModel.BookingStatus, action string, updates map[string]interface{}) error {
	from := req.Status
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_by"] = actor

	res := tx.Model(&bookingModel.BookingRequest{}).Where("id = ? AND status = ?", req.ID, from).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update booking request %d: %w", req.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking request %d is no longer %s", ErrConflict, req.ID, from)
	}
	if err := booking_event.RecordStatusEvent(tx, SubjectRequest, req.ID, from, to, action, actor); err != nil {
		return err
	}
	req.Status = to
	return nil
}

// History returns the status events recorded for a subject row.
func (s *Service) History(ctx context.Context, subject string, id uint) ([]bookingModel.BookingStatusEvent, error) {
	events, err := booking_event.History(s.db.WithContext(ctx), subject, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return events, nil
}

func loadRequest(tx *gorm.DB, id uint) (*bookingModel.BookingRequest, error) {
	var req bookingModel.BookingRequest
	if err := tx.First(&req, id).Error; err != nil {
		return nil, notFound(err, "booking request", id)
	}
	return &req, nil
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return fmt.Errorf("load %s %d: %w", what, id, err)
}

func observe(action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidState):
		result = "rejected"
	case errors.Is(err, ErrConflict):
		result = "conflict"
	case errors.Is(err, ErrValidation):
		result = "invalid"
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.ObserveTransition(action, result)
}
