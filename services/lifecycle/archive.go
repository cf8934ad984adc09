package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingModel "narration-desk/models/booking"
	postModel "narration-desk/models/post"
	"narration-desk/services/booking_event"

	"gorm.io/gorm"
)

// Tables that HardDelete accepts.
const (
	TableRequests  = "2_booking_requests"
	TableAuditions = "5_auditions"
	TableArchive   = "7_archive"
	TableBookings  = "bookings"
	TablePosts     = "posts"
)

// Boot snapshots the request into the archive table and marks it booted.
func (s *Service) Boot(ctx context.Context, actor string, id uint, reason string) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionBoot, transitionOptions{reason: strings.TrimSpace(reason)})
}

// Revive sends a closed request back to pending. Reviving a booted request
// removes its archive snapshot in the same transaction.
func (s *Service) Revive(ctx context.Context, actor string, id uint) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionRevive, transitionOptions{})
}

// ArchiveFilter narrows ListArchive.
type ArchiveFilter struct {
	BlacklistedOnly bool
}

// ListArchive returns archive records, most recent first.
func (s *Service) ListArchive(ctx context.Context, f ArchiveFilter) ([]bookingModel.ArchiveRecord, error) {
	q := s.db.WithContext(ctx).Order("archived_at DESC, id DESC")
	if f.BlacklistedOnly {
		q = q.Where("is_blacklisted = ?", true)
	}
	var out []bookingModel.ArchiveRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	return out, nil
}

// ToggleBlacklist flips the blacklist flag of an archive record in one statement.
func (s *Service) ToggleBlacklist(ctx context.Context, archiveID uint) (*bookingModel.ArchiveRecord, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&bookingModel.ArchiveRecord{}).
		Where("id = ?", archiveID).
		Update("is_blacklisted", gorm.Expr("NOT is_blacklisted"))
	observe("toggle_blacklist", res.Error)
	if res.Error != nil {
		return nil, fmt.Errorf("toggle blacklist on archive record %d: %w", archiveID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: archive record %d", ErrNotFound, archiveID)
	}

	var record bookingModel.ArchiveRecord
	if err := db.First(&record, archiveID).Error; err != nil {
		return nil, notFound(err, "archive record", archiveID)
	}
	return &record, nil
}

// HardDelete removes a row for good. Deleting a booking request also removes
// its first fifteen, onboarding and archive rows; all deletes share one
// transaction so a failure leaves everything in place.
func (s *Service) HardDelete(ctx context.Context, actor string, table string, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch table {
		case TableRequests:
			return hardDeleteRequest(tx, actor, id)
		case TableAuditions:
			if err := tx.Model(&bookingModel.BookingRequest{}).Where("audition_id = ?", id).Update("audition_id", nil).Error; err != nil {
				return fmt.Errorf("unlink audition %d: %w", id, err)
			}
			return deleteOne(tx, &bookingModel.Audition{}, "audition", id)
		case TableArchive:
			var backing bookingModel.BookingRequest
			err := tx.Where("archive_id = ? AND status = ?", id, bookingModel.BookingStatusBooted).Take(&backing).Error
			if err == nil {
				return fmt.Errorf("%w: archive record %d belongs to booted request %s, revive or delete the request first", ErrInvalidState, id, backing.RefNumber)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check archive record %d: %w", id, err)
			}
			if err := tx.Model(&bookingModel.BookingRequest{}).Where("archive_id = ?", id).Update("archive_id", nil).Error; err != nil {
				return fmt.Errorf("unlink archive record %d: %w", id, err)
			}
			return deleteOne(tx, &bookingModel.ArchiveRecord{}, "archive record", id)
		case TableBookings:
			return deleteOne(tx, &bookingModel.Booking{}, "booking", id)
		case TablePosts:
			return deleteOne(tx, &postModel.Post{}, "post", id)
		default:
			return fmt.Errorf("%w: unknown table %q", ErrValidation, table)
		}
	})
	observe("hard_delete", err)
	return err
}

func hardDeleteRequest(tx *gorm.DB, actor string, id uint) error {
	req, err := loadRequest(tx, id)
	if err != nil {
		return err
	}
	children := []struct {
		model interface{}
		what  string
	}{
		{&bookingModel.FirstFifteen{}, "first fifteen"},
		{&bookingModel.Onboarding{}, "onboarding"},
		{&bookingModel.ArchiveRecord{}, "archive"},
	}
	for _, c := range children {
		if err := tx.Where("request_id = ?", id).Delete(c.model).Error; err != nil {
			return fmt.Errorf("delete %s rows of request %d: %w", c.what, id, err)
		}
	}
	if err := deleteOne(tx, &bookingModel.BookingRequest{}, "booking request", id); err != nil {
		return err
	}
	// The event log outlives the row
	return booking_event.RecordStatusEvent(tx, SubjectRequest, id, req.Status, bookingModel.BookingStatusDeleted, "hard_delete", actor)
}

func deleteOne(tx *gorm.DB, model interface{}, what string, id uint) error {
	res := tx.Delete(model, id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", what, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return nil
}
