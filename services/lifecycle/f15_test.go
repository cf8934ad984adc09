package lifecycle

import (
	"context"
	"testing"
	"time"

	bookingModel "narration-desk/models/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestF15DueDate(t *testing.T) {
	received := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	due := F15DueDate(received)
	assert.Equal(t, time.Date(2026, time.March, 16, 23, 59, 59, 999999999, time.UTC), due)
}

func TestStartF15OpensRow(t *testing.T) {
	s, db := newTestService(t)
	req := requestIn(t, s, approved)
	received := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

	got, err := s.StartF15(context.Background(), "tester", req.ID, &received)
	require.NoError(t, err)
	assert.Equal(t, f15Production, got.Status)
	require.NotNil(t, got.FirstFifteen)
	require.NotNil(t, got.FirstFifteen.DueDate)
	assert.Equal(t, "2026-03-16", got.FirstFifteen.DueDate.UTC().Format(DateLayout))
	assert.Equal(t, 0, got.FirstFifteen.StrikeCount)
	assert.Equal(t, int64(1), countRows(t, db, &bookingModel.FirstFifteen{}, "request_id = ?", req.ID))
}

func TestApproveF15MovesToProduction(t *testing.T) {
	s, db := newTestService(t)
	req := requestIn(t, s, f15Production)

	got, err := s.ApproveF15(context.Background(), "tester", req.ID)
	require.NoError(t, err)
	assert.Equal(t, production, got.Status)
	require.NotNil(t, got.FirstFifteen)
	assert.True(t, got.FirstFifteen.Approved)
	assert.Equal(t, int64(1), countRows(t, db, &bookingModel.FirstFifteen{}, "request_id = ? AND approved = ?", req.ID, true))
}

func TestApproveF15WithoutRowChangesNothing(t *testing.T) {
	s, db := newTestService(t)
	req := requestIn(t, s, f15Production)
	require.NoError(t, db.Where("request_id = ?", req.ID).Delete(&bookingModel.FirstFifteen{}).Error)

	_, err := s.ApproveF15(context.Background(), "tester", req.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	got, err := s.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, f15Production, got.Status)
}

func TestFailF15MarksRowAndRejects(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, f15Production)

	_, err := s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{RevisionRequested: true})
	require.NoError(t, err)

	got, err := s.FailF15(ctx, "tester", req.ID)
	require.NoError(t, err)
	assert.Equal(t, rejected, got.Status)
	require.NotNil(t, got.FirstFifteen)
	assert.False(t, got.FirstFifteen.Approved)
	assert.False(t, got.FirstFifteen.RevisionReq)
}

func TestRecordF15FeedbackClampsStrikes(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, f15Production)

	for i := 1; i <= bookingModel.MaxF15Strikes; i++ {
		got, err := s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{RevisionRequested: true})
		require.NoError(t, err)
		assert.Equal(t, i, got.FirstFifteen.StrikeCount)
		assert.True(t, got.FirstFifteen.RevisionReq)
		assert.Equal(t, bookingModel.MaxF15Strikes-i, got.FirstFifteen.StrikesLeft())
	}

	_, err := s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{RevisionRequested: true})
	assert.ErrorIs(t, err, ErrInvalidState)

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.MaxF15Strikes, got.FirstFifteen.StrikeCount)
	assert.Equal(t, f15Production, got.Status)
}

func TestRecordF15FeedbackDates(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, f15Production)
	sent := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	feedback := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	got, err := s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{SentDate: &sent, ClientFeedbackDate: &feedback})
	require.NoError(t, err)
	require.NotNil(t, got.FirstFifteen.SentDate)
	assert.Equal(t, "2026-03-05", got.FirstFifteen.SentDate.UTC().Format(DateLayout))
	assert.Equal(t, 0, got.FirstFifteen.StrikeCount)

	_, err = s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordF15FeedbackOutsideStage(t *testing.T) {
	s, _ := newTestService(t)
	req := requestIn(t, s, production)

	_, err := s.RecordF15Feedback(context.Background(), "tester", req.ID, F15Feedback{RevisionRequested: true})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRestartF15AfterReviveStartsClean(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, f15Production)

	_, err := s.RecordF15Feedback(ctx, "tester", req.ID, F15Feedback{RevisionRequested: true})
	require.NoError(t, err)
	_, err = s.FailF15(ctx, "tester", req.ID)
	require.NoError(t, err)
	_, err = s.Revive(ctx, "tester", req.ID)
	require.NoError(t, err)
	_, err = s.Approve(ctx, "tester", req.ID)
	require.NoError(t, err)

	got, err := s.StartF15(ctx, "tester", req.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FirstFifteen.StrikeCount)
	assert.Equal(t, int64(1), countRows(t, db, &bookingModel.FirstFifteen{}, "request_id = ?", req.ID))
}

func TestFirstFifteenQueueOrdersByDueDate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	late := requestIn(t, s, approved)
	early := requestIn(t, s, approved)
	lateDate := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	earlyDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.StartF15(ctx, "tester", late.ID, &lateDate)
	require.NoError(t, err)
	_, err = s.StartF15(ctx, "tester", early.ID, &earlyDate)
	require.NoError(t, err)

	queue, err := s.FirstFifteenQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, early.ID, queue[0].ID)
	assert.Equal(t, late.ID, queue[1].ID)
}
