package requests

import (
	"fmt"
	"strings"
	"time"

	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	bookingModel "narration-desk/models/booking"
	"narration-desk/services/lifecycle"
	"narration-desk/services/storage"
	"narration-desk/types"
	bookingTypes "narration-desk/types/booking"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestController handles the booking request pipeline of the dashboard
type RequestController struct {
	DB        *gorm.DB
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
	Covers    storage.Store
}

// NewRequestController creates a new request controller
func NewRequestController(db *gorm.DB, asyncLogger *logger.AsyncLogger, svc *lifecycle.Service, store storage.Store) *RequestController {
	return &RequestController{
		DB:        db,
		Logger:    asyncLogger,
		Lifecycle: svc,
		Covers:    store,
	}
}

// requestView is a request plus the actions the dashboard may offer for it
type requestView struct {
	*bookingModel.BookingRequest
	AllowedActions []lifecycle.Action `json:"allowed_actions"`
}

func view(req *bookingModel.BookingRequest) requestView {
	return requestView{BookingRequest: req, AllowedActions: lifecycle.Allowed(req.Status)}
}

// logAPIRequest logs API request and response details
func (rc *RequestController) logAPIRequest(c *fiber.Ctx) {
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

// sendResponseWithLog sends response and logs the API request
func (rc *RequestController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// fail maps a service error onto the response
func (rc *RequestController) fail(c *fiber.Ctx, err error, what string) error {
	status := httperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(what, err)
	} else {
		logger.Warning(fmt.Sprintf("%s: %v", what, err))
	}
	return rc.sendResponseWithLog(c, status, types.ApiResponse{
		Message: httperr.Message(err, what),
		Status:  status,
	})
}

func (rc *RequestController) badRequest(c *fiber.Ctx, message string) error {
	return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

func (rc *RequestController) ok(c *fiber.Ctx, message string, data interface{}) error {
	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Data:    data,
	})
}

// Index lists requests, filtered by ?status=a,b and ?q=
func (rc *RequestController) Index(c *fiber.Ctx) error {
	filter := lifecycle.RequestFilter{
		Search: c.Query("q"),
		Limit:  c.QueryInt("limit", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := bookingModel.ParseBookingStatus(part)
			if err != nil {
				return rc.badRequest(c, err.Error())
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	reqs, err := rc.Lifecycle.ListRequests(c.UserContext(), filter)
	if err != nil {
		return rc.fail(c, err, "Failed to list booking requests")
	}
	return rc.ok(c, "Booking requests retrieved successfully", reqs)
}

// Show returns one request with its allowed actions
func (rc *RequestController) Show(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	req, err := rc.Lifecycle.GetRequest(c.UserContext(), id)
	if err != nil {
		return rc.fail(c, err, "Failed to load booking request")
	}
	return rc.ok(c, "Booking request retrieved successfully", view(req))
}

// Store creates a request entered by hand
func (rc *RequestController) Store(c *fiber.Ctx) error {
	var body bookingTypes.CreateRequestPayload
	if err := c.BodyParser(&body); err != nil {
		return rc.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}

	in := lifecycle.NewRequest{
		BookTitle:  body.BookTitle,
		ClientName: body.ClientName,
		ClientType: bookingModel.ClientType(body.ClientType),
		WordCount:  body.WordCount,
		Notes:      body.Notes,
	}
	if body.Email != "" {
		email := body.Email
		in.Email = &email
	}
	if body.StartDate != "" {
		d, _ := lifecycle.ParseDate(body.StartDate)
		in.StartDate = &d
	}
	if body.EndDate != "" {
		d, _ := lifecycle.ParseDate(body.EndDate)
		in.EndDate = &d
	}

	req, err := rc.Lifecycle.CreateRequest(c.UserContext(), middleware.Actor(c), in)
	if err != nil {
		return rc.fail(c, err, "Failed to create booking request")
	}
	logger.Success("Booking request created: " + req.RefNumber)
	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Booking request created successfully",
		Status:  fiber.StatusCreated,
		Data:    view(req),
	})
}

// Update edits request columns; the status is changed through Move only
func (rc *RequestController) Update(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return rc.badRequest(c, "Invalid request body")
	}
	req, err := rc.Lifecycle.UpdateRequest(c.UserContext(), middleware.Actor(c), id, fields)
	if err != nil {
		return rc.fail(c, err, "Failed to update booking request")
	}
	return rc.ok(c, "Booking request updated successfully", view(req))
}

// Move sends a request to another status with optional column updates
func (rc *RequestController) Move(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var body bookingTypes.MovePayload
	if err := c.BodyParser(&body); err != nil {
		return rc.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}
	status, err := bookingModel.ParseBookingStatus(body.Status)
	if err != nil {
		return rc.badRequest(c, err.Error())
	}
	if lifecycle.DestructiveTarget(status) && !middleware.Confirmed(c) {
		return middleware.ConfirmRequired(c)
	}

	req, err := rc.Lifecycle.MoveBooking(c.UserContext(), middleware.Actor(c), id, status, body.Extras)
	if err != nil {
		return rc.fail(c, err, "Failed to move booking request")
	}
	logger.Info(fmt.Sprintf("Booking request %d moved to %s", id, req.Status))
	return rc.ok(c, "Booking request moved successfully", view(req))
}

// Transition runs a named action such as complete, archive, reject or delete
func (rc *RequestController) Transition(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var body bookingTypes.ActionPayload
	if err := c.BodyParser(&body); err != nil {
		return rc.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}
	action, err := lifecycle.ParseAction(body.Action)
	if err != nil {
		return rc.badRequest(c, err.Error())
	}
	// Actions with their own inputs have dedicated endpoints
	switch action {
	case lifecycle.ActionStartF15, lifecycle.ActionRequestRevision, lifecycle.ActionBoot:
		return rc.badRequest(c, fmt.Sprintf("Use the %s endpoint for this action", action))
	}
	if action.Destructive() && !middleware.Confirmed(c) {
		return middleware.ConfirmRequired(c)
	}

	req, err := rc.Lifecycle.Transition(c.UserContext(), middleware.Actor(c), id, action)
	if err != nil {
		return rc.fail(c, err, "Failed to update booking request")
	}
	return rc.ok(c, "Booking request updated successfully", view(req))
}

// Approve accepts a pending request and opens its onboarding checklist
func (rc *RequestController) Approve(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	req, err := rc.Lifecycle.Approve(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return rc.fail(c, err, "Failed to approve booking request")
	}
	return rc.ok(c, "Booking request approved", view(req))
}

// Boot removes a request into the archive table
func (rc *RequestController) Boot(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var body bookingTypes.BootPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return rc.badRequest(c, "Invalid request body")
		}
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}
	req, err := rc.Lifecycle.Boot(c.UserContext(), middleware.Actor(c), id, body.Reason)
	if err != nil {
		return rc.fail(c, err, "Failed to boot booking request")
	}
	return rc.ok(c, "Booking request booted", view(req))
}

// Revive sends a closed request back to pending
func (rc *RequestController) Revive(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	req, err := rc.Lifecycle.Revive(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return rc.fail(c, err, "Failed to revive booking request")
	}
	return rc.ok(c, "Booking request revived", view(req))
}

// History lists the status events of a request
func (rc *RequestController) History(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	events, err := rc.Lifecycle.History(c.UserContext(), lifecycle.SubjectRequest, id)
	if err != nil {
		return rc.fail(c, err, "Failed to load history")
	}
	return rc.ok(c, "History retrieved successfully", events)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := lifecycle.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
