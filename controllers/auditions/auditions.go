package auditions

import (
	"fmt"

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

// AuditionController manages auditions and their conversion into bookings
type AuditionController struct {
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

func NewAuditionController(asyncLogger *logger.AsyncLogger, svc *lifecycle.Service) *AuditionController {
	return &AuditionController{Logger: asyncLogger, Lifecycle: svc}
}

func (ac *AuditionController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (ac *AuditionController) fail(c *fiber.Ctx, err error, what string) error {
	status := httperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(what, err)
	}
	return ac.sendResponseWithLog(c, status, types.ApiResponse{
		Message: httperr.Message(err, what),
		Status:  status,
	})
}

func (ac *AuditionController) badRequest(c *fiber.Ctx, message string) error {
	return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

// Index lists auditions; ?status= defaults to active
func (ac *AuditionController) Index(c *fiber.Ctx) error {
	status := bookingModel.AuditionStatus(c.Query("status", string(bookingModel.AuditionStatusActive)))
	switch status {
	case bookingModel.AuditionStatusActive, bookingModel.AuditionStatusBooked, bookingModel.AuditionStatusArchive:
	default:
		return ac.badRequest(c, fmt.Sprintf("Unknown audition status %q", status))
	}
	items, err := ac.Lifecycle.ListAuditions(c.UserContext(), status)
	if err != nil {
		return ac.fail(c, err, "Failed to list auditions")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Auditions retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    items,
	})
}

// Store records a new audition
func (ac *AuditionController) Store(c *fiber.Ctx) error {
	var body bookingTypes.CreateAuditionPayload
	if err := c.BodyParser(&body); err != nil {
		return ac.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}
	in := lifecycle.NewAudition{
		BookTitle:        body.BookTitle,
		ClientName:       body.ClientName,
		RosterProducer:   body.RosterProducer,
		MaterialURL:      body.MaterialURL,
		ProductionStatus: bookingModel.ProductionStatus(body.ProductionStatus),
	}
	if body.EndDate != "" {
		d, err := lifecycle.ParseDate(body.EndDate)
		if err != nil {
			return ac.badRequest(c, err.Error())
		}
		in.EndDate = &d
	}

	item, err := ac.Lifecycle.CreateAudition(c.UserContext(), in)
	if err != nil {
		return ac.fail(c, err, "Failed to create audition")
	}
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Audition created successfully",
		Status:  fiber.StatusCreated,
		Data:    item,
	})
}

// Progress updates the production status of an active audition
func (ac *AuditionController) Progress(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.badRequest(c, "Invalid audition id")
	}
	var body bookingTypes.AuditionProgressPayload
	if err := c.BodyParser(&body); err != nil {
		return ac.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}
	item, err := ac.Lifecycle.SetAuditionProgress(c.UserContext(), id, bookingModel.ProductionStatus(body.ProductionStatus))
	if err != nil {
		return ac.fail(c, err, "Failed to update audition")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Audition updated successfully",
		Status:  fiber.StatusOK,
		Data:    item,
	})
}

// Archive hides an active audition
func (ac *AuditionController) Archive(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.badRequest(c, "Invalid audition id")
	}
	item, err := ac.Lifecycle.ArchiveAudition(c.UserContext(), id)
	if err != nil {
		return ac.fail(c, err, "Failed to archive audition")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Audition archived",
		Status:  fiber.StatusOK,
		Data:    item,
	})
}

// Restore brings an archived audition back to active
func (ac *AuditionController) Restore(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.badRequest(c, "Invalid audition id")
	}
	item, err := ac.Lifecycle.RestoreAudition(c.UserContext(), id)
	if err != nil {
		return ac.fail(c, err, "Failed to restore audition")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Audition restored",
		Status:  fiber.StatusOK,
		Data:    item,
	})
}

// Book turns an active audition into a pending booking request
func (ac *AuditionController) Book(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.badRequest(c, "Invalid audition id")
	}
	var body bookingTypes.BookAuditionPayload
	if err := c.BodyParser(&body); err != nil {
		return ac.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}
	req, err := ac.Lifecycle.BookAudition(c.UserContext(), middleware.Actor(c), id, bookingModel.ClientType(body.ClientType))
	if err != nil {
		return ac.fail(c, err, "Failed to book audition")
	}
	logger.Success(fmt.Sprintf("Audition %d booked as %s", id, req.RefNumber))
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Audition booked successfully",
		Status:  fiber.StatusCreated,
		Data:    req,
	})
}
