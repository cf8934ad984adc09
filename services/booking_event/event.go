package booking_event

import (
	"encoding/json"
	"fmt"
	"time"

	bookingModel "narration-desk/models/booking"

	"gorm.io/gorm"
)

// RecordStatusEvent appends a status change row inside the caller's transaction.
func RecordStatusEvent(tx *gorm.DB, subject string, subjectID uint, from, to bookingModel.BookingStatus, action string, createdBy string) error {
	ev := bookingModel.BookingStatusEvent{
		Subject:    subject,
		SubjectID:  subjectID,
		FromStatus: from,
		ToStatus:   to,
		Action:     action,
		CreatedBy:  createdBy,
	}
	if err := tx.Create(&ev).Error; err != nil {
		return fmt.Errorf("record status event: %w", err)
	}
	return nil
}

// SnapshotRequestToArchive writes a full copy of a request row into the archive table.
func SnapshotRequestToArchive(tx *gorm.DB, req *bookingModel.BookingRequest, reason string, archivedBy string, at time.Time) (*bookingModel.ArchiveRecord, error) {
	// Reload so the snapshot reflects what is stored, including the first fifteen row
	var fresh bookingModel.BookingRequest
	if err := tx.Preload("FirstFifteen").First(&fresh, req.ID).Error; err != nil {
		return nil, err
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	record := bookingModel.ArchiveRecord{
		RequestID:    fresh.ID,
		OriginalData: bookingModel.JSONSnapshot(data),
		Reason:       reason,
		ArchivedAt:   at,
		ArchivedBy:   archivedBy,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create archive record: %w", err)
	}
	return &record, nil
}

// History returns the status events of one subject, oldest first.
func History(db *gorm.DB, subject string, subjectID uint) ([]bookingModel.BookingStatusEvent, error) {
	var events []bookingModel.BookingStatusEvent
	err := db.Where("subject = ? AND subject_id = ?", subject, subjectID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}
