package post

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"narration-desk/database"
	postModel "narration-desk/models/post"
	"narration-desk/services/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return NewService(db), db
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Recording in a Closet":     "recording-in-a-closet",
		"  What's new? (2026)  ":    "what-s-new-2026",
		"---":                       "",
		"Ünicode & ampersands":      "nicode-ampersands",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateRequiresTitleBeforeWriting(t *testing.T) {
	s, db := newTestService(t)

	_, err := s.Create(context.Background(), "tester", Input{Body: "text only"})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	var n int64
	require.NoError(t, db.Model(&postModel.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateMakesSlugsUnique(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "tester", Input{Title: "Studio Diary", Published: true})
	require.NoError(t, err)
	second, err := s.Create(ctx, "tester", Input{Title: "Studio diary"})
	require.NoError(t, err)

	assert.Equal(t, "studio-diary", first.Slug)
	assert.Equal(t, "studio-diary-2", second.Slug)
	assert.NotNil(t, first.PublishedAt)
	assert.Nil(t, second.PublishedAt)
}

func TestPublishedOnlyOnPublicReads(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "tester", Input{Title: "Live", Published: true})
	require.NoError(t, err)
	draft, err := s.Create(ctx, "tester", Input{Title: "Draft"})
	require.NoError(t, err)

	public, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "live", public[0].Slug)

	all, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.PublishedBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "tester", Input{Title: "Taken"})
	require.NoError(t, err)
	p, err := s.Create(ctx, "tester", Input{Title: "Original"})
	require.NoError(t, err)

	got, err := s.Update(ctx, p.ID, Input{Title: "Renamed", Slug: "taken", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "taken-2", got.Slug)
	assert.NotNil(t, got.PublishedAt)

	got, err = s.Update(ctx, p.ID, Input{Title: "Renamed"})
	require.NoError(t, err)
	assert.False(t, got.Published)
	assert.Nil(t, got.PublishedAt)

	_, err = s.Update(ctx, p.ID, Input{Title: " "})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
	_, err = s.Update(ctx, 999, Input{Title: "Nope"})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
