package booking

import (
	"fmt"
	"strings"
)

// BookingStatus is the lifecycle state of a booking request.
type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "pending"
	BookingStatusApproved      BookingStatus = "approved"
	BookingStatusF15Production BookingStatus = "f15_production"
	BookingStatusProduction    BookingStatus = "production"
	BookingStatusCompleted     BookingStatus = "completed"
	BookingStatusArchived      BookingStatus = "archived"
	BookingStatusRejected      BookingStatus = "rejected"
	BookingStatusBooted        BookingStatus = "booted"
	BookingStatusDeleted       BookingStatus = "deleted"
)

// statusAliases maps legacy spellings written by the old dashboard.
var statusAliases = map[string]BookingStatus{
	"archive": BookingStatusArchived,
	"f15":     BookingStatusF15Production,
}

// Helper methods for BookingStatus
func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusApproved, BookingStatusF15Production, BookingStatusProduction,
		BookingStatusCompleted, BookingStatusArchived, BookingStatusRejected, BookingStatusBooted, BookingStatusDeleted:
		return true
	default:
		return false
	}
}

// IsActive returns true while the booking is still being worked on
func (bs BookingStatus) IsActive() bool {
	switch bs {
	case BookingStatusPending, BookingStatusApproved, BookingStatusF15Production, BookingStatusProduction:
		return true
	default:
		return false
	}
}

// ParseBookingStatus normalizes raw input into a known status.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := statusAliases[s]; ok {
		return alias, nil
	}
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}
	return status, nil
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusApproved,
		BookingStatusF15Production,
		BookingStatusProduction,
		BookingStatusCompleted,
		BookingStatusArchived,
		BookingStatusRejected,
		BookingStatusBooted,
		BookingStatusDeleted,
	}
}

// ClientType tells where a booking came from.
type ClientType string

const (
	ClientTypeDirect   ClientType = "Direct"
	ClientTypeRoster   ClientType = "Roster"
	ClientTypeAudition ClientType = "Audition"
)

func (ct ClientType) IsValid() bool {
	return ct == ClientTypeDirect || ct == ClientTypeRoster || ct == ClientTypeAudition
}

// AuditionStatus is the visibility state of an audition.
type AuditionStatus string

const (
	AuditionStatusActive  AuditionStatus = "active"
	AuditionStatusBooked  AuditionStatus = "booked"
	AuditionStatusArchive AuditionStatus = "archive"
)

// ProductionStatus is how far an audition has progressed with the producer.
type ProductionStatus string

const (
	ProductionStatusAuditioning ProductionStatus = "auditioning"
	ProductionStatusCallback    ProductionStatus = "callback"
	ProductionStatusShortlist   ProductionStatus = "shortlist"
)

func (ps ProductionStatus) IsValid() bool {
	return ps == ProductionStatusAuditioning || ps == ProductionStatusCallback || ps == ProductionStatusShortlist
}
