package logger

import (
	"testing"
	"time"

	log_model "narration-desk/models/log"
	"narration-desk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestAsyncLoggerDropsEntriesAfterClose(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:async_logger?mode=memory&cache=shared"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&log_model.Log{}))

	asyncLogger := NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	asyncLogger.Log(types.LogEntry{Method: "GET", URL: "/api/bookings", StatusCode: 200, CreatedAt: time.Now()})
	asyncLogger.Close()

	// a handler that outlived the shutdown timeout
	assert.NotPanics(t, func() {
		asyncLogger.Log(types.LogEntry{Method: "PATCH", URL: "/api/bookings", StatusCode: 200, CreatedAt: time.Now()})
	})
	assert.NotPanics(t, asyncLogger.Close)

	var count int64
	require.NoError(t, db.Model(&log_model.Log{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
