package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"narration-desk/database"
	bookingModel "narration-desk/models/booking"
	"narration-desk/services/lifecycle"
	"narration-desk/services/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	put     []string
	deleted []string
}

func (f *fakeStore) Put(_ context.Context, prefix, _ string, r io.Reader, _ int64, contentType string) (storage.Object, error) {
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return storage.Object{}, err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return storage.Object{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s/cover-%d%s", prefix, len(f.put)+1, ext)
	f.put = append(f.put, key)
	return storage.Object{Key: key, URL: "https://cdn.example/" + key}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
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

func setup(t *testing.T) (*fiber.App, *gorm.DB, *fakeStore, uint) {
	t.Helper()
	db := newTestDB(t)
	svc := lifecycle.NewService(db)
	req, err := svc.CreateRequest(context.Background(), "tester", lifecycle.NewRequest{
		BookTitle:  "Glass Orchard",
		ClientName: "Fernhill Books",
	})
	require.NoError(t, err)

	store := &fakeStore{}
	rc := NewRequestController(db, nil, svc, store)
	app := fiber.New()
	app.Post("/requests/:id/cover", rc.UploadCover)
	return app, db, store, req.ID
}

func coverRequest(t *testing.T, target, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="cover"; filename="cover.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadCover(t *testing.T) {
	app, db, store, id := setup(t)

	resp, err := app.Test(coverRequest(t, fmt.Sprintf("/requests/%d/cover", id), "image/png", []byte("\x89PNG fake")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got bookingModel.BookingRequest
	require.NoError(t, db.First(&got, id).Error)
	require.NotNil(t, got.CoverImageURL)
	assert.Equal(t, "https://cdn.example/"+store.put[0], *got.CoverImageURL)
	assert.Empty(t, store.deleted)
}

func TestUploadCoverRemovesObjectWhenSaveFails(t *testing.T) {
	app, db, store, id := setup(t)
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_cover_update", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == lifecycle.TableRequests {
			tx.AddError(errors.New("connection reset"))
		}
	}))

	resp, err := app.Test(coverRequest(t, fmt.Sprintf("/requests/%d/cover", id), "image/png", []byte("\x89PNG fake")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.Len(t, store.put, 1)
	assert.Equal(t, store.put, store.deleted)
}

func TestUploadCoverRejectsBadInput(t *testing.T) {
	app, _, store, id := setup(t)

	resp, err := app.Test(coverRequest(t, fmt.Sprintf("/requests/%d/cover", id), "application/pdf", []byte("%PDF")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(coverRequest(t, "/requests/9999/cover", "image/png", []byte("\x89PNG fake")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Empty(t, store.put)
}

func TestStoredRequestTakesCover(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	rc := NewRequestController(db, nil, lifecycle.NewService(db), store)
	app := fiber.New()
	app.Post("/requests", rc.Store)
	app.Post("/requests/:id/cover", rc.UploadCover)

	req := httptest.NewRequest(fiber.MethodPost, "/requests", strings.NewReader(`{"book_title":"Salt Ledger","client_name":"Marrow Press"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created bookingModel.BookingRequest
	require.NoError(t, db.Where("book_title = ?", "Salt Ledger").First(&created).Error)

	resp, err = app.Test(coverRequest(t, fmt.Sprintf("/requests/%d/cover", created.ID), "image/webp", []byte("RIFF fake")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, store.put, 1)
	assert.True(t, strings.HasSuffix(store.put[0], ".webp"))
}
