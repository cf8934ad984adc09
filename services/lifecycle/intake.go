package lifecycle

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	bookingModel "narration-desk/models/booking"
	"narration-desk/services/booking_event"

	"gorm.io/gorm"
)

// NewIntake is a booking enquiry sent from the public site.
type NewIntake struct {
	Name      string
	Email     string
	Project   string
	Message   string
	WordCount int
}

// CreateIntake stores a site enquiry as a pending booking.
func (s *Service) CreateIntake(ctx context.Context, in NewIntake) (*bookingModel.Booking, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if in.WordCount < 0 {
		return nil, fmt.Errorf("%w: word count cannot be negative", ErrValidation)
	}

	b := bookingModel.Booking{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Project:   strings.TrimSpace(in.Project),
		Message:   in.Message,
		WordCount: in.WordCount,
		Status:    bookingModel.BookingStatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return booking_event.RecordStatusEvent(tx, SubjectIntake, b.ID, "", b.Status, "create", "site")
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListIntake returns site enquiries that are not deleted, newest first.
func (s *Service) ListIntake(ctx context.Context) ([]bookingModel.Booking, error) {
	var out []bookingModel.Booking
	err := s.db.WithContext(ctx).
		Where("status <> ?", bookingModel.BookingStatusDeleted).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// SetIntakeStatus moves a site enquiry along the same state machine as requests.
func (s *Service) SetIntakeStatus(ctx context.Context, actor string, id uint, to bookingModel.BookingStatus) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return notFound(err, "booking", id)
		}
		action, err := Resolve(b.Status, to)
		if err != nil {
			return err
		}
		return setIntakeStatus(tx, actor, &b, to, string(action))
	})
	observe("intake_status", err)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// PromoteIntake copies a pending enquiry into the request pipeline and marks the enquiry approved.
func (s *Service) PromoteIntake(ctx context.Context, actor string, id uint) (*bookingModel.BookingRequest, error) {
	var created *bookingModel.BookingRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b bookingModel.Booking
		if err := tx.First(&b, id).Error; err != nil {
			return notFound(err, "booking", id)
		}
		if _, err := Next(b.Status, ActionApprove); err != nil {
			return err
		}
		title := b.Project
		if title == "" {
			return fmt.Errorf("%w: booking %d has no project title to promote", ErrValidation, id)
		}
		email := b.Email
		req, err := s.insertRequest(tx, actor, NewRequest{
			BookTitle:  title,
			ClientName: b.Name,
			ClientType: bookingModel.ClientTypeDirect,
			Email:      &email,
			WordCount:  b.WordCount,
			Notes:      b.Message,
		})
		if err != nil {
			return err
		}
		created = req
		return setIntakeStatus(tx, actor, &b, bookingModel.BookingStatusApproved, "promote")
	})
	observe("promote", err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func setIntakeStatus(tx *gorm.DB, actor string, b *bookingModel.Booking, to bookingModel.BookingStatus, action string) error {
	from := b.Status
	res := tx.Model(&bookingModel.Booking{}).Where("id = ? AND status = ?", b.ID, from).Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %d is no longer %s", ErrConflict, b.ID, from)
	}
	if err := booking_event.RecordStatusEvent(tx, SubjectIntake, b.ID, from, to, action, actor); err != nil {
		return err
	}
	b.Status = to
	return nil
}
