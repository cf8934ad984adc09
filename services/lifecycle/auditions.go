package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	bookingModel "narration-desk/models/booking"

	"gorm.io/gorm"
)

// NewAudition holds the fields of an audition entered on the dashboard.
type NewAudition struct {
	BookTitle        string
	ClientName       string
	RosterProducer   string
	EndDate          *time.Time
	MaterialURL      string
	ProductionStatus bookingModel.ProductionStatus
}

// CreateAudition stores an active audition.
func (s *Service) CreateAudition(ctx context.Context, in NewAudition) (*bookingModel.Audition, error) {
	if strings.TrimSpace(in.BookTitle) == "" {
		return nil, fmt.Errorf("%w: book title is required", ErrValidation)
	}
	if strings.TrimSpace(in.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if in.ProductionStatus == "" {
		in.ProductionStatus = bookingModel.ProductionStatusAuditioning
	}
	if !in.ProductionStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown production status %q", ErrValidation, in.ProductionStatus)
	}

	a := bookingModel.Audition{
		BookTitle:        strings.TrimSpace(in.BookTitle),
		ClientName:       strings.TrimSpace(in.ClientName),
		RosterProducer:   in.RosterProducer,
		EndDate:          in.EndDate,
		MaterialURL:      in.MaterialURL,
		ProductionStatus: in.ProductionStatus,
		Status:           bookingModel.AuditionStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create audition: %w", err)
	}
	return &a, nil
}

// ListAuditions returns auditions in the given status, active when empty.
func (s *Service) ListAuditions(ctx context.Context, status bookingModel.AuditionStatus) ([]bookingModel.Audition, error) {
	if status == "" {
		status = bookingModel.AuditionStatusActive
	}
	var out []bookingModel.Audition
	err := s.db.WithContext(ctx).Where("status = ?", status).Order("end_date ASC, id ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list auditions: %w", err)
	}
	return out, nil
}

// SetAuditionProgress records callback or shortlist news for an active audition.
func (s *Service) SetAuditionProgress(ctx context.Context, id uint, progress bookingModel.ProductionStatus) (*bookingModel.Audition, error) {
	if !progress.IsValid() {
		return nil, fmt.Errorf("%w: unknown production status %q", ErrValidation, progress)
	}
	res := s.db.WithContext(ctx).Model(&bookingModel.Audition{}).
		Where("id = ? AND status = ?", id, bookingModel.AuditionStatusActive).
		Update("production_status", progress)
	if res.Error != nil {
		return nil, fmt.Errorf("update audition %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.auditionMiss(ctx, id, "update")
	}
	return s.getAudition(ctx, id)
}

// ArchiveAudition hides an active audition.
func (s *Service) ArchiveAudition(ctx context.Context, id uint) (*bookingModel.Audition, error) {
	return s.moveAudition(ctx, id, bookingModel.AuditionStatusActive, bookingModel.AuditionStatusArchive, "archive")
}

// RestoreAudition brings an archived audition back to the active list.
func (s *Service) RestoreAudition(ctx context.Context, id uint) (*bookingModel.Audition, error) {
	return s.moveAudition(ctx, id, bookingModel.AuditionStatusArchive, bookingModel.AuditionStatusActive, "restore")
}

// BookAudition turns an active audition into a pending booking request and
// marks the audition booked. Both writes commit together or not at all.
func (s *Service) BookAudition(ctx context.Context, actor string, id uint, clientType bookingModel.ClientType) (*bookingModel.BookingRequest, error) {
	if !clientType.IsValid() {
		err := fmt.Errorf("%w: client type must be Direct, Roster or Audition", ErrValidation)
		observe("book_audition", err)
		return nil, err
	}

	var created *bookingModel.BookingRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a bookingModel.Audition
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "audition", id)
		}
		if a.Status != bookingModel.AuditionStatusActive {
			return fmt.Errorf("%w: audition %d is %s, only active auditions can be booked", ErrInvalidState, id, a.Status)
		}

		notes := fmt.Sprintf("Booked from audition #%d", a.ID)
		if a.RosterProducer != "" {
			notes += " (producer: " + a.RosterProducer + ")"
		}
		req, err := s.insertRequest(tx, actor, NewRequest{
			BookTitle:  a.BookTitle,
			ClientName: a.ClientName,
			ClientType: clientType,
			Notes:      notes,
			AuditionID: &a.ID,
		})
		if err != nil {
			return err
		}

		res := tx.Model(&bookingModel.Audition{}).
			Where("id = ? AND status = ?", a.ID, bookingModel.AuditionStatusActive).
			Update("status", bookingModel.AuditionStatusBooked)
		if res.Error != nil {
			return fmt.Errorf("mark audition %d booked: %w", a.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: audition %d is no longer active", ErrConflict, a.ID)
		}
		created = req
		return nil
	})
	observe("book_audition", err)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) moveAudition(ctx context.Context, id uint, from, to bookingModel.AuditionStatus, op string) (*bookingModel.Audition, error) {
	res := s.db.WithContext(ctx).Model(&bookingModel.Audition{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, fmt.Errorf("%s audition %d: %w", op, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.auditionMiss(ctx, id, op)
	}
	return s.getAudition(ctx, id)
}

// auditionMiss explains why a conditional audition update matched nothing.
func (s *Service) auditionMiss(ctx context.Context, id uint, op string) error {
	a, err := s.getAudition(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: cannot %s audition %d in status %s", ErrInvalidState, op, id, a.Status)
}

func (s *Service) getAudition(ctx context.Context, id uint) (*bookingModel.Audition, error) {
	var a bookingModel.Audition
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err, "audition", id)
	}
	return &a, nil
}

