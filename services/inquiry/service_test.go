package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"narration-desk/database"
	bookingModel "narration-desk/models/booking"
	inquiryModel "narration-desk/models/inquiry"
	"narration-desk/services/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubExtractor struct {
	out   *inquiryModel.Extracted
	err   error
	calls int
}

func (s *stubExtractor) Extract(ctx context.Context, in Input) (*inquiryModel.Extracted, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.out
	return &cp, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func sample() *inquiryModel.Extracted {
	return &inquiryModel.Extracted{
		BookTitle:  "  The Salt Road ",
		ClientName: "Mara Quinn",
		Email:      "Mara Quinn <mara@example.com>",
		WordCount:  88000,
		StartDate:  "2026-04-01",
		EndDate:    "not a date",
	}
}

func TestParseRecordsSuccess(t *testing.T) {
	db := newTestDB(t)
	ex := &stubExtractor{out: sample()}
	svc := NewService(db, ex, lifecycle.NewService(db))

	res, err := svc.Parse(context.Background(), Input{Text: "Hello, I'd like to book..."}, ParseOptions{Actor: "owner", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Nil(t, res.Request)
	assert.Equal(t, 1, ex.calls)

	var stored inquiryModel.ParseRequest
	require.NoError(t, db.First(&stored, res.Parse.ID).Error)
	assert.Equal(t, inquiryModel.StatusSuccess, stored.Status)
	assert.Equal(t, "text", stored.Source)
	assert.Equal(t, "The Salt Road", stored.BookTitle)
	assert.Equal(t, "mara@example.com", stored.Email)
	assert.Equal(t, "owner", stored.CreatedBy)
	assert.Len(t, stored.InputHash, 64)
}

func TestParseCreatesRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &stubExtractor{out: sample()}, lifecycle.NewService(db))

	res, err := svc.Parse(context.Background(), Input{Text: "inquiry"}, ParseOptions{Actor: "owner", Create: true})
	require.NoError(t, err)
	require.NotNil(t, res.Request)
	assert.Equal(t, bookingModel.BookingStatusPending, res.Request.Status)
	assert.Equal(t, bookingModel.ClientTypeDirect, res.Request.ClientType)
	require.NotNil(t, res.Request.StartDate)
	assert.Nil(t, res.Request.EndDate)

	var stored inquiryModel.ParseRequest
	require.NoError(t, db.First(&stored, res.Parse.ID).Error)
	require.NotNil(t, stored.BookingRequestID)
	assert.Equal(t, res.Request.ID, *stored.BookingRequestID)
}

func TestParseCreateRefusedKeepsParse(t *testing.T) {
	db := newTestDB(t)
	ex := sample()
	ex.BookTitle = ""
	svc := NewService(db, &stubExtractor{out: ex}, lifecycle.NewService(db))

	res, err := svc.Parse(context.Background(), Input{Text: "inquiry"}, ParseOptions{Create: true})
	require.ErrorIs(t, err, lifecycle.ErrValidation)
	require.NotNil(t, res)
	assert.Equal(t, inquiryModel.StatusSuccess, res.Parse.Status)
	assert.Contains(t, res.Parse.ErrorMessage, "booking request not created")

	var count int64
	require.NoError(t, db.Model(&bookingModel.BookingRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestParseRecordsFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &stubExtractor{err: errors.New("quota exceeded")}, lifecycle.NewService(db))

	_, err := svc.Parse(context.Background(), Input{Data: []byte{0xff, 0xd8}, MimeType: "image/jpeg"}, ParseOptions{})
	require.Error(t, err)

	failed, err := svc.Recent(context.Background(), inquiryModel.StatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "image", failed[0].Source)
	assert.Equal(t, "quota exceeded", failed[0].ErrorMessage)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	db := newTestDB(t)
	ex := &stubExtractor{out: sample()}
	svc := NewService(db, ex, lifecycle.NewService(db))

	_, err := svc.Parse(context.Background(), Input{Text: "   "}, ParseOptions{})
	require.ErrorIs(t, err, lifecycle.ErrValidation)
	assert.Zero(t, ex.calls)

	_, err = NewService(db, nil, lifecycle.NewService(db)).Parse(context.Background(), Input{Text: "hi"}, ParseOptions{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDecodeExtracted(t *testing.T) {
	got, err := decodeExtracted("```json\n{\"book_title\":\"Wren\",\"word_count\":50000}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Wren", got.BookTitle)
	assert.Equal(t, 50000, got.WordCount)

	_, err = decodeExtracted("I could not read this inquiry")
	assert.Error(t, err)
}
