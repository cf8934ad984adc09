package bookings

import (
	"fmt"
	"strconv"

	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	bookingModel "narration-desk/models/booking"
	"narration-desk/services/lifecycle"
	"narration-desk/types"
	bookingTypes "narration-desk/types/booking"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// BookingController serves the public booking form and the legacy
// /api/bookings collection the old dashboard still calls. Failures on that
// collection answer {error} with the matching status code (400 bad input,
// 404 unknown id, 409 disallowed move, 428 unconfirmed delete, 500 store
// failure).
type BookingController struct {
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

func NewBookingController(asyncLogger *logger.AsyncLogger, svc *lifecycle.Service) *BookingController {
	return &BookingController{Logger: asyncLogger, Lifecycle: svc}
}

// legacyResponse is the body shape of the old collection endpoints
type legacyResponse struct {
	Success bool        `json:"success,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (bc *BookingController) sendLegacy(c *fiber.Ctx, status int, response legacyResponse) error {
	result := c.Status(status).JSON(response)
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (bc *BookingController) legacyError(c *fiber.Ctx, err error, what string) error {
	status := httperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(what, err)
	}
	return bc.sendLegacy(c, status, legacyResponse{Error: httperr.Message(err, what)})
}

// Intake accepts the public site's booking form as JSON or a form post
func (bc *BookingController) Intake(c *fiber.Ctx) error {
	var body bookingTypes.IntakePayload
	if err := c.BodyParser(&body); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := body.Validate(); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	b, err := bc.Lifecycle.CreateIntake(c.UserContext(), lifecycle.NewIntake{
		Name:      body.Name,
		Email:     body.Email,
		Project:   body.Project,
		Message:   body.Message,
		WordCount: body.WordCount,
	})
	if err != nil {
		status := httperr.Status(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("Failed to store booking enquiry", err)
		}
		return bc.sendResponseWithLog(c, status, types.ApiResponse{
			Message: httperr.Message(err, "Failed to submit booking"),
			Status:  status,
		})
	}
	logger.Info(fmt.Sprintf("Booking enquiry %d received from %s", b.ID, b.Email))
	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Thank you, your booking request has been received",
		Status:  fiber.StatusCreated,
		Data:    fiber.Map{"id": b.ID},
	})
}

// Promote copies a site enquiry into the request pipeline
func (bc *BookingController) Promote(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid booking id",
			Status:  fiber.StatusBadRequest,
		})
	}
	req, err := bc.Lifecycle.PromoteIntake(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		status := httperr.Status(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("Failed to promote booking", err)
		}
		return bc.sendResponseWithLog(c, status, types.ApiResponse{
			Message: httperr.Message(err, "Failed to promote booking"),
			Status:  status,
		})
	}
	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Booking promoted to request " + req.RefNumber,
		Status:  fiber.StatusCreated,
		Data:    req,
	})
}

// LegacyIndex lists site enquiries
func (bc *BookingController) LegacyIndex(c *fiber.Ctx) error {
	items, err := bc.Lifecycle.ListIntake(c.UserContext())
	if err != nil {
		return bc.legacyError(c, err, "Failed to fetch bookings")
	}
	return bc.sendLegacy(c, fiber.StatusOK, legacyResponse{Success: true, Data: items})
}

// LegacyPatch moves an enquiry to the status in {id, status}
func (bc *BookingController) LegacyPatch(c *fiber.Ctx) error {
	var body bookingTypes.LegacyStatusPatch
	if err := c.BodyParser(&body); err != nil {
		return bc.sendLegacy(c, fiber.StatusBadRequest, legacyResponse{Error: "Invalid request body"})
	}
	if err := body.Validate(); err != nil {
		return bc.sendLegacy(c, fiber.StatusBadRequest, legacyResponse{Error: err.Error()})
	}
	status, err := bookingModel.ParseBookingStatus(body.Status)
	if err != nil {
		return bc.sendLegacy(c, fiber.StatusBadRequest, legacyResponse{Error: err.Error()})
	}
	if _, err := bc.Lifecycle.SetIntakeStatus(c.UserContext(), middleware.Actor(c), body.ID, status); err != nil {
		return bc.legacyError(c, err, "Failed to update booking")
	}
	return bc.sendLegacy(c, fiber.StatusOK, legacyResponse{Success: true})
}

// LegacyDelete removes the enquiry named by ?id= once confirmed
func (bc *BookingController) LegacyDelete(c *fiber.Ctx) error {
	n, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || n == 0 {
		return bc.sendLegacy(c, fiber.StatusBadRequest, legacyResponse{Error: "A numeric id is required"})
	}
	if c.Query("confirm") != "true" {
		return bc.sendLegacy(c, fiber.StatusPreconditionRequired, legacyResponse{Error: "Repeat the request with confirm=true to delete"})
	}
	if err := bc.Lifecycle.HardDelete(c.UserContext(), middleware.Actor(c), lifecycle.TableBookings, uint(n)); err != nil {
		return bc.legacyError(c, err, "Failed to delete booking")
	}
	return bc.sendLegacy(c, fiber.StatusOK, legacyResponse{Success: true})
}
