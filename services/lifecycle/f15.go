package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	bookingModel "narration-desk/models/booking"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// F15Turnaround is the time allowed between receiving the breakdown and
// delivering the first fifteen minutes.
const F15Turnaround = 14 * 24 * time.Hour

// F15DueDate returns the end of the day the first fifteen is due.
func F15DueDate(breakdownReceived time.Time) time.Time {
	return now.With(breakdownReceived.Add(F15Turnaround)).EndOfDay()
}

// Approve moves a pending request to approved and opens its onboarding row.
func (s *Service) Approve(ctx context.Context, actor string, id uint) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionApprove, transitionOptions{})
}

// StartF15 opens the first fifteen stage. A nil breakdownReceived means today.
func (s *Service) StartF15(ctx context.Context, actor string, id uint, breakdownReceived *time.Time) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionStartF15, transitionOptions{breakdownReceived: breakdownReceived})
}

// ApproveF15 marks the first fifteen approved and moves the request into production.
func (s *Service) ApproveF15(ctx context.Context, actor string, id uint) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionApproveF15, transitionOptions{})
}

// FailF15 rejects the request and closes its first fifteen as not approved.
func (s *Service) FailF15(ctx context.Context, actor string, id uint) (*bookingModel.BookingRequest, error) {
	return s.run(ctx, actor, id, ActionFailF15, transitionOptions{})
}

// F15Feedback is a round of client feedback on a first fifteen.
type F15Feedback struct {
	RevisionRequested  bool
	SentDate           *time.Time
	ClientFeedbackDate *time.Time
}

// RecordF15Feedback stores delivery and feedback dates. A requested revision
// costs one strike; once MaxF15Strikes are used the request has to be failed
// or approved.
func (s *Service) RecordF15Feedback(ctx context.Context, actor string, id uint, fb F15Feedback) (*bookingModel.BookingRequest, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, id)
		if err != nil {
			return err
		}
		if _, err := Next(req.Status, ActionRequestRevision); err != nil {
			return err
		}
		f, err := loadFirstFifteen(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if fb.SentDate != nil {
			updates["sent_date"] = *fb.SentDate
		}
		if fb.ClientFeedbackDate != nil {
			updates["client_feedback_date"] = *fb.ClientFeedbackDate
		}
		if fb.RevisionRequested {
			if f.StrikeCount >= bookingModel.MaxF15Strikes {
				return fmt.Errorf("%w: first fifteen for request %d has used all %d revisions", ErrInvalidState, id, bookingModel.MaxF15Strikes)
			}
			updates["strike_count"] = f.StrikeCount + 1
			updates["revision_req"] = true
		} else if fb.ClientFeedbackDate != nil {
			updates["revision_req"] = false
		}
		if len(updates) == 0 {
			return fmt.Errorf("%w: no feedback to record", ErrValidation)
		}

		res := tx.Model(&bookingModel.FirstFifteen{}).
			Where("id = ? AND strike_count = ?", f.ID, f.StrikeCount).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update first fifteen %d: %w", f.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: first fifteen %d changed", ErrConflict, f.ID)
		}

		if fb.RevisionRequested {
			return s.setStatus(tx, actor, req, bookingModel.BookingStatusF15Production, string(ActionRequestRevision), nil)
		}
		return nil
	})
	observe(string(ActionRequestRevision), err)
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

// FirstFifteenQueue lists requests in the first fifteen stage, soonest due first.
func (s *Service) FirstFifteenQueue(ctx context.Context) ([]bookingModel.BookingRequest, error) {
	var out []bookingModel.BookingRequest
	err := s.db.WithContext(ctx).
		Preload("FirstFifteen").
		Where("status = ?", bookingModel.BookingStatusF15Production).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list first fifteen queue: %w", err)
	}
	sortByDueDate(out)
	return out, nil
}

func (s *Service) openFirstFifteen(tx *gorm.DB, requestID uint, breakdownReceived *time.Time) error {
	received := s.now()
	if breakdownReceived != nil {
		received = *breakdownReceived
	}
	due := F15DueDate(received)

	// A revived request that re-enters the stage starts over with a clean row
	if err := tx.Where("request_id = ?", requestID).Delete(&bookingModel.FirstFifteen{}).Error; err != nil {
		return fmt.Errorf("reset first fifteen for request %d: %w", requestID, err)
	}
	f := bookingModel.FirstFifteen{
		RequestID:             requestID,
		BreakdownReceivedDate: &received,
		DueDate:               &due,
	}
	if err := tx.Create(&f).Error; err != nil {
		return fmt.Errorf("create first fifteen for request %d: %w", requestID, err)
	}
	return nil
}

func markFirstFifteen(tx *gorm.DB, requestID uint, updates map[string]interface{}) error {
	res := tx.Model(&bookingModel.FirstFifteen{}).Where("request_id = ?", requestID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update first fifteen for request %d: %w", requestID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: request %d has no first fifteen", ErrInvalidState, requestID)
	}
	return nil
}

func loadFirstFifteen(tx *gorm.DB, requestID uint) (*bookingModel.FirstFifteen, error) {
	var f bookingModel.FirstFifteen
	if err := tx.Where("request_id = ?", requestID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d has no first fifteen", ErrInvalidState, requestID)
		}
		return nil, fmt.Errorf("load first fifteen for request %d: %w", requestID, err)
	}
	return &f, nil
}

func sortByDueDate(reqs []bookingModel.BookingRequest) {
	due := func(r bookingModel.BookingRequest) time.Time {
		if r.FirstFifteen == nil || r.FirstFifteen.DueDate == nil {
			return time.Time{}
		}
		return *r.FirstFifteen.DueDate
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return due(reqs[i]).Before(due(reqs[j]))
	})
}
