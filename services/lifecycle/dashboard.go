package lifecycle

import (
	"context"
	"fmt"
	"time"

	bookingModel "narration-desk/models/booking"

	"github.com/jinzhu/now"
)

// Dashboard is the snapshot the admin dashboard renders its tabs from.
type Dashboard struct {
	Counts       map[bookingModel.BookingStatus]int64 `json:"counts"`
	Intake       []bookingModel.Booking               `json:"intake"`
	Pending      []bookingModel.BookingRequest        `json:"pending"`
	FirstFifteen []bookingModel.BookingRequest        `json:"first_fifteen"`
	DueThisWeek  []bookingModel.BookingRequest        `json:"due_this_week"`
	Production   []bookingModel.BookingRequest        `json:"production"`
	Archive      []bookingModel.ArchiveRecord         `json:"archive"`
	Auditions    []bookingModel.Audition              `json:"auditions"`
	GeneratedAt  time.Time                            `json:"generated_at"`
}

// Dashboard gathers every tab in one call.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Counts: counts, GeneratedAt: s.now()}

	if d.Intake, err = s.ListIntake(ctx); err != nil {
		return nil, err
	}
	if d.Pending, err = s.ListRequests(ctx, RequestFilter{Statuses: []bookingModel.BookingStatus{
		bookingModel.BookingStatusPending, bookingModel.BookingStatusApproved,
	}}); err != nil {
		return nil, err
	}
	if d.FirstFifteen, err = s.FirstFifteenQueue(ctx); err != nil {
		return nil, err
	}
	d.DueThisWeek = dueWithin(d.FirstFifteen, s.now())
	if d.Production, err = s.ListRequests(ctx, RequestFilter{Statuses: []bookingModel.BookingStatus{
		bookingModel.BookingStatusProduction,
	}}); err != nil {
		return nil, err
	}
	if d.Archive, err = s.ListArchive(ctx, ArchiveFilter{}); err != nil {
		return nil, err
	}
	if d.Auditions, err = s.ListAuditions(ctx, bookingModel.AuditionStatusActive); err != nil {
		return nil, err
	}
	return d, nil
}

// StatusCounts returns the number of requests in each status.
func (s *Service) StatusCounts(ctx context.Context) (map[bookingModel.BookingStatus]int64, error) {
	var rows []struct {
		Status bookingModel.BookingStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&bookingModel.BookingRequest{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	counts := make(map[bookingModel.BookingStatus]int64, len(rows))
	for _, st := range bookingModel.GetAllBookingStatuses() {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// dueWithin keeps first fifteens not yet approved that are due in the calendar week of at.
func dueWithin(queue []bookingModel.BookingRequest, at time.Time) []bookingModel.BookingRequest {
	week := now.With(at)
	start, end := week.BeginningOfWeek(), week.EndOfWeek()

	out := []bookingModel.BookingRequest{}
	for _, r := range queue {
		f := r.FirstFifteen
		if f == nil || f.Approved || f.DueDate == nil {
			continue
		}
		if !f.DueDate.Before(start) && !f.DueDate.After(end) {
			out = append(out, r)
		}
	}
	return out
}
