package database

import (
	"fmt"
	"os"

	"narration-desk/logger"
	"narration-desk/models/booking"
	"narration-desk/models/inquiry"
	"narration-desk/models/log"
	"narration-desk/models/post"
	"narration-desk/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, using process environment")
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	logger.Info(fmt.Sprintf("Connecting to database %s on %s:%s", database, host, port))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(DB); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	return DB, nil
}

// Migrate creates or updates every table and the secondary indexes.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	if err := createIndexes(db); err != nil {
		return err
	}
	return nil
}

// autoMigrate runs auto migration for all models
func autoMigrate(db *gorm.DB) error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&booking.Audition{},
		&booking.Booking{},
		&post.Post{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Booking requests and the rows that hang off them
	stage2Models := []interface{}{
		&booking.BookingRequest{},
		&booking.Onboarding{},
		&booking.FirstFifteen{},
		&booking.ArchiveRecord{},
		&booking.BookingStatusEvent{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Remaining models
	remainingModels := []interface{}{
		&inquiry.ParseRequest{},
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		// Booking request indexes
		{"request status", `CREATE INDEX IF NOT EXISTS idx_requests_status ON "2_booking_requests"(status)`},
		{"request client_type", `CREATE INDEX IF NOT EXISTS idx_requests_client_type ON "2_booking_requests"(client_type)`},
		{"request created_at", `CREATE INDEX IF NOT EXISTS idx_requests_created_at ON "2_booking_requests"(created_at)`},

		// Archive indexes
		{"archive archived_at", `CREATE INDEX IF NOT EXISTS idx_archive_archived_at ON "7_archive"(archived_at)`},

		// Intake indexes
		{"bookings created_at", `CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)`},
		{"bookings email", `CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email)`},

		// Log indexes
		{"log method", `CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)`},
		{"log status_code", `CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)`},
		{"log created_at", `CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)`},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s index: %w", idx.name, err)
		}
	}
	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_onboarding_request",
			sql: `ALTER TABLE "3_onboarding" ADD CONSTRAINT fk_onboarding_request
				  FOREIGN KEY (request_id) REFERENCES "2_booking_requests"(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_requests_audition",
			sql: `ALTER TABLE "2_booking_requests" ADD CONSTRAINT fk_requests_audition
				  FOREIGN KEY (audition_id) REFERENCES "5_auditions"(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_requests_archive",
			sql: `ALTER TABLE "2_booking_requests" ADD CONSTRAINT fk_requests_archive
				  FOREIGN KEY (archive_id) REFERENCES "7_archive"(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := db.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := db.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
