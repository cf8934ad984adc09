package inquiry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"narration-desk/logger"
	bookingModel "narration-desk/models/booking"
	inquiryModel "narration-desk/models/inquiry"
	"narration-desk/services/lifecycle"
	"narration-desk/services/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxImageSize is the largest inquiry screenshot accepted.
const MaxImageSize = 10 * 1024 * 1024

// ErrNotConfigured is returned when no extractor was set up, e.g. without GEMINI_API_KEY.
var ErrNotConfigured = errors.New("inquiry parser is not configured")

// Service records inquiry parses and can turn a result into a booking request.
type Service struct {
	db        *gorm.DB
	extractor Extractor
	bookings  *lifecycle.Service
	timeout   time.Duration
}

func NewService(db *gorm.DB, extractor Extractor, bookings *lifecycle.Service) *Service {
	return &Service{db: db, extractor: extractor, bookings: bookings, timeout: 60 * time.Second}
}

// ParseOptions carries request metadata for the parse record.
type ParseOptions struct {
	Actor     string
	IPAddress string
	// Create also stores a pending booking request from the result.
	Create bool
}

// Result is a finished parse.
type Result struct {
	Parse   *inquiryModel.ParseRequest  `json:"parse"`
	Request *bookingModel.BookingRequest `json:"request,omitempty"`
}

// Parse extracts booking fields from the inquiry. The attempt is recorded
// whether or not extraction succeeds.
func (s *Service) Parse(ctx context.Context, in Input, opts ParseOptions) (*Result, error) {
	if strings.TrimSpace(in.Text) == "" && len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: inquiry text or image is required", lifecycle.ErrValidation)
	}
	if len(in.Data) > MaxImageSize {
		return nil, fmt.Errorf("%w: image is larger than %d bytes", lifecycle.ErrValidation, MaxImageSize)
	}
	if s.extractor == nil {
		return nil, ErrNotConfigured
	}

	record := &inquiryModel.ParseRequest{
		RequestID: uuid.NewString(),
		Source:    in.source(),
		MimeType:  in.MimeType,
		InputHash: inputHash(in),
		IPAddress: opts.IPAddress,
		CreatedBy: opts.Actor,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}

	start := time.Now()
	extractCtx, cancel := context.WithTimeout(ctx, s.timeout)
	extracted, err := s.extractor.Extract(extractCtx, in)
	cancel()
	elapsed := time.Since(start)
	metrics.ObserveInquiryParse(elapsed.Seconds())

	if err != nil {
		s.markFailed(ctx, record, err, elapsed)
		return nil, fmt.Errorf("inquiry parse %s: %w", record.RequestID, err)
	}
	normalize(extracted)

	record.Status = inquiryModel.StatusSuccess
	record.ProcessingTimeMs = elapsed.Milliseconds()
	record.BookTitle = extracted.BookTitle
	record.ClientName = extracted.ClientName
	record.Email = extracted.Email
	record.WordCount = extracted.WordCount
	record.StartDate = extracted.StartDate
	record.EndDate = extracted.EndDate

	result := &Result{Parse: record}
	if opts.Create {
		req, err := s.bookings.CreateRequest(ctx, opts.Actor, ToNewRequest(extracted))
		if err != nil {
			record.ErrorMessage = "booking request not created: " + err.Error()
			s.save(ctx, record)
			return result, err
		}
		record.BookingRequestID = &req.ID
		result.Request = req
	}
	s.save(ctx, record)

	logger.Success(fmt.Sprintf("Inquiry parsed in %dms, request %s", record.ProcessingTimeMs, record.RequestID))
	return result, nil
}

// Recent lists the latest parse records, optionally by status.
func (s *Service) Recent(ctx context.Context, status string, limit int) ([]inquiryModel.ParseRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []inquiryModel.ParseRequest
	if err := q.Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list parse requests: %w", err)
	}
	return out, nil
}

// ToNewRequest maps extracted fields to a Direct booking request. Unparseable
// dates are dropped rather than failing the whole request.
func ToNewRequest(ex *inquiryModel.Extracted) lifecycle.NewRequest {
	in := lifecycle.NewRequest{
		BookTitle:  ex.BookTitle,
		ClientName: ex.ClientName,
		ClientType: bookingModel.ClientTypeDirect,
		WordCount:  ex.WordCount,
		Notes:      "Created from a parsed inquiry",
	}
	if ex.Email != "" {
		email := ex.Email
		in.Email = &email
	}
	if t, err := lifecycle.ParseDate(ex.StartDate); err == nil {
		in.StartDate = &t
	}
	if t, err := lifecycle.ParseDate(ex.EndDate); err == nil {
		in.EndDate = &t
	}
	return in
}

func (s *Service) markFailed(ctx context.Context, record *inquiryModel.ParseRequest, cause error, elapsed time.Duration) {
	record.Status = inquiryModel.StatusFailed
	record.ProcessingTimeMs = elapsed.Milliseconds()
	record.ErrorMessage = cause.Error()
	s.save(ctx, record)
	logger.Error("Inquiry parse failed for request "+record.RequestID, cause)
}

func (s *Service) save(ctx context.Context, record *inquiryModel.ParseRequest) {
	// Written with a fresh context so a cancelled request still leaves a final status
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		logger.Error("Failed to save parse request "+record.RequestID, err)
	}
}

// normalize trims the fields and blanks an email that does not parse.
func normalize(ex *inquiryModel.Extracted) {
	ex.BookTitle = strings.TrimSpace(ex.BookTitle)
	ex.ClientName = strings.TrimSpace(ex.ClientName)
	ex.Email = strings.TrimSpace(ex.Email)
	ex.StartDate = strings.TrimSpace(ex.StartDate)
	ex.EndDate = strings.TrimSpace(ex.EndDate)
	if ex.Email != "" {
		if addr, err := mail.ParseAddress(ex.Email); err == nil {
			ex.Email = addr.Address
		} else {
			ex.Email = ""
		}
	}
	if ex.WordCount < 0 {
		ex.WordCount = 0
	}
}

func inputHash(in Input) string {
	h := sha256.New()
	h.Write([]byte(in.Text))
	h.Write(in.Data)
	return hex.EncodeToString(h.Sum(nil))
}
