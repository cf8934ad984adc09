package lifecycle

import (
	"context"
	"testing"

	bookingModel "narration-desk/models/booking"
	postModel "narration-desk/models/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootSnapshotsRequest(t *testing.T) {
	s, db := newTestService(t)
	req := requestIn(t, s, approved)

	got, err := s.Boot(context.Background(), "tester", req.ID, "missed three deadlines")
	require.NoError(t, err)
	assert.Equal(t, booted, got.Status)
	require.NotNil(t, got.ArchiveID)

	var record bookingModel.ArchiveRecord
	require.NoError(t, db.First(&record, *got.ArchiveID).Error)
	assert.Equal(t, req.ID, record.RequestID)
	assert.Equal(t, "missed three deadlines", record.Reason)
	assert.False(t, record.IsBlacklisted)

	snapshot, err := record.OriginalData.Decode()
	require.NoError(t, err)
	assert.Equal(t, req.RefNumber, snapshot.RefNumber)
	assert.Equal(t, approved, snapshot.Status)
}

func TestReviveBootedRemovesArchiveRecord(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, booted)
	require.NotNil(t, req.ArchiveID)
	archiveID := *req.ArchiveID

	got, err := s.Revive(ctx, "tester", req.ID)
	require.NoError(t, err)
	assert.Equal(t, pending, got.Status)
	assert.Nil(t, got.ArchiveID)
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.ArchiveRecord{}, "id = ?", archiveID))
}

func TestReviveArchivedKeepsOtherArchiveRows(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	bootedReq := requestIn(t, s, booted)
	archivedReq := requestIn(t, s, archived)

	got, err := s.Revive(ctx, "tester", archivedReq.ID)
	require.NoError(t, err)
	assert.Equal(t, pending, got.Status)
	assert.Equal(t, int64(1), countRows(t, db, &bookingModel.ArchiveRecord{}, "request_id = ?", bootedReq.ID))
}

func TestToggleBlacklist(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, booted)

	record, err := s.ToggleBlacklist(ctx, *req.ArchiveID)
	require.NoError(t, err)
	assert.True(t, record.IsBlacklisted)

	listed, err := s.ListArchive(ctx, ArchiveFilter{BlacklistedOnly: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	record, err = s.ToggleBlacklist(ctx, *req.ArchiveID)
	require.NoError(t, err)
	assert.False(t, record.IsBlacklisted)

	_, err = s.ToggleBlacklist(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHardDeleteRequestRemovesChildren(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, f15Production)

	require.NoError(t, s.HardDelete(ctx, "tester", TableRequests, req.ID))

	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.FirstFifteen{}, "request_id = ?", req.ID))
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.Onboarding{}, "request_id = ?", req.ID))
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.BookingRequest{}, "id = ?", req.ID))

	events, err := s.History(ctx, SubjectRequest, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "hard_delete", events[len(events)-1].Action)

	err = s.HardDelete(ctx, "tester", TableRequests, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHardDeleteBootedRequestRemovesSnapshot(t *testing.T) {
	s, db := newTestService(t)
	req := requestIn(t, s, booted)

	require.NoError(t, s.HardDelete(context.Background(), "tester", TableRequests, req.ID))
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.ArchiveRecord{}, "request_id = ?", req.ID))
}

func TestHardDeleteAuditionUnlinksRequests(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	a := createAudition(t, s)
	req, err := s.BookAudition(ctx, "tester", a.ID, bookingModel.ClientTypeRoster)
	require.NoError(t, err)

	require.NoError(t, s.HardDelete(ctx, "tester", TableAuditions, a.ID))

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AuditionID)
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.Audition{}, "id = ?", a.ID))
}

func TestHardDeleteArchiveRecordOfBootedRequestRefused(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, booted)
	archiveID := *req.ArchiveID

	err := s.HardDelete(ctx, "tester", TableArchive, archiveID)
	assert.ErrorIs(t, err, ErrInvalidState)

	got, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ArchiveID)
	assert.Equal(t, archiveID, *got.ArchiveID)
	assert.Equal(t, int64(1), countRows(t, db, &bookingModel.ArchiveRecord{}, "id = ?", archiveID))
}

func TestHardDeleteArchiveRecordUnlinksDeletedRequest(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	req := requestIn(t, s, booted)
	archiveID := *req.ArchiveID

	_, err := s.Transition(ctx, "tester", req.ID, ActionDelete)
	require.NoError(t, err)
	require.NoError(t, s.HardDelete(ctx, "tester", TableArchive, archiveID))

	var got bookingModel.BookingRequest
	require.NoError(t, db.First(&got, req.ID).Error)
	assert.Nil(t, got.ArchiveID)
	assert.Equal(t, deleted, got.Status)
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.ArchiveRecord{}, "id = ?", archiveID))
}

func TestHardDeleteSingleRowTables(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	b, err := s.CreateIntake(ctx, NewIntake{Name: "Ada", Email: "ada@example.com", Project: "Memoir"})
	require.NoError(t, err)
	p := postModel.Post{Title: "Studio notes", Slug: "studio-notes", CreatedBy: "tester"}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, s.HardDelete(ctx, "tester", TableBookings, b.ID))
	require.NoError(t, s.HardDelete(ctx, "tester", TablePosts, p.ID))
	assert.Equal(t, int64(0), countRows(t, db, &bookingModel.Booking{}, "1 = 1"))
	assert.Equal(t, int64(0), countRows(t, db, &postModel.Post{}, "1 = 1"))
}

func TestHardDeleteUnknownTable(t *testing.T) {
	s, _ := newTestService(t)
	err := s.HardDelete(context.Background(), "tester", "admin_users", 1)
	assert.ErrorIs(t, err, ErrValidation)
}
