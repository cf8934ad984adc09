package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"narration-desk/database"
	bookingModel "narration-desk/models/booking"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testClock = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC) // a Wednesday

// newTestDB opens a private in-memory database with the full schema.
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

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db).WithClock(func() time.Time { return testClock }), db
}

func createRequest(t *testing.T, s *Service, title string) *bookingModel.BookingRequest {
	t.Helper()
	req, err := s.CreateRequest(context.Background(), "tester", NewRequest{
		BookTitle:  title,
		ClientName: "Harbor Press",
		ClientType: bookingModel.ClientTypeDirect,
		WordCount:  82000,
	})
	require.NoError(t, err)
	return req
}

// requestIn creates a request and walks it to the wanted status through real actions.
func requestIn(t *testing.T, s *Service, status bookingModel.BookingStatus) *bookingModel.BookingRequest {
	t.Helper()
	ctx := context.Background()
	req := createRequest(t, s, "The Lighthouse Keeper")

	var path []Action
	switch status {
	case pending:
	case approved:
		path = []Action{ActionApprove}
	case f15Production:
		path = []Action{ActionApprove, ActionStartF15}
	case production:
		path = []Action{ActionApprove, ActionStartF15, ActionApproveF15}
	case completed:
		path = []Action{ActionApprove, ActionStartF15, ActionApproveF15, ActionComplete}
	case archived:
		path = []Action{ActionArchive}
	case rejected:
		path = []Action{ActionReject}
	case booted:
		path = []Action{ActionBoot}
	default:
		t.Fatalf("no path to %s", status)
	}

	var err error
	for _, a := range path {
		req, err = s.Transition(ctx, "tester", req.ID, a)
		require.NoError(t, err, "action %s", a)
	}
	require.Equal(t, status, req.Status)
	return req
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
