package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"narration-desk/database"
	"narration-desk/database/seeders"
	"narration-desk/models/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

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

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	created, err := seeders.SeedAdmin(db, "narrator", "correct horse battery")
	require.NoError(t, err)
	require.True(t, created)

	s := NewService(db)
	ctx := context.Background()

	u, err := s.Authenticate(ctx, "narrator", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "narrator", u.Username)
	assert.NotNil(t, u.LastLoginAt)

	_, err = s.Authenticate(ctx, "narrator", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, err := seeders.SeedAdmin(db, "narrator", "correct horse battery")
	require.NoError(t, err)

	created, err := seeders.SeedAdmin(db, "narrator", "another long password")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = seeders.SeedAdmin(db, "short", "tiny")
	assert.Error(t, err)
}

func TestIssue(t *testing.T) {
	_, err := NewIssuer("short", time.Hour)
	require.Error(t, err)

	issuer, err := NewIssuer(testSecret, 8*time.Hour)
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Unix(1_800_000_000, 0) }

	signed, exp, err := issuer.Issue(&user.User{Uuid: "u-1", Username: "narrator", Permissions: user.StringSlice{"p.one"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1_800_000_000+8*3600), exp.Unix())

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return time.Unix(1_800_000_100, 0) }))
	require.NoError(t, err)
	assert.Equal(t, "narrator", claims["username"])
	assert.Equal(t, []interface{}{"p.one"}, claims["permissions"])
}
