package archive

import (
	"fmt"

	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/services/lifecycle"
	"narration-desk/types"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// ArchiveController serves the archive table and permanent deletes
type ArchiveController struct {
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

func NewArchiveController(asyncLogger *logger.AsyncLogger, svc *lifecycle.Service) *ArchiveController {
	return &ArchiveController{Logger: asyncLogger, Lifecycle: svc}
}

func (ac *ArchiveController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (ac *ArchiveController) fail(c *fiber.Ctx, err error, what string) error {
	status := httperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(what, err)
	}
	return ac.sendResponseWithLog(c, status, types.ApiResponse{
		Message: httperr.Message(err, what),
		Status:  status,
	})
}

// Index lists archive records; ?blacklisted=true keeps only blacklisted ones
func (ac *ArchiveController) Index(c *fiber.Ctx) error {
	records, err := ac.Lifecycle.ListArchive(c.UserContext(), lifecycle.ArchiveFilter{
		BlacklistedOnly: c.QueryBool("blacklisted", false),
	})
	if err != nil {
		return ac.fail(c, err, "Failed to list archive")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Archive retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    records,
	})
}

// ToggleBlacklist flips the blacklist flag of an archive record
func (ac *ArchiveController) ToggleBlacklist(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid archive id",
			Status:  fiber.StatusBadRequest,
		})
	}
	record, err := ac.Lifecycle.ToggleBlacklist(c.UserContext(), id)
	if err != nil {
		return ac.fail(c, err, "Failed to toggle blacklist")
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Blacklist updated",
		Status:  fiber.StatusOK,
		Data:    record,
	})
}

// HardDelete removes a row permanently. Routed behind RequireConfirm.
func (ac *ArchiveController) HardDelete(c *fiber.Ctx) error {
	table := c.Params("table")
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid record id",
			Status:  fiber.StatusBadRequest,
		})
	}
	actor := middleware.Actor(c)
	if err := ac.Lifecycle.HardDelete(c.UserContext(), actor, table, id); err != nil {
		return ac.fail(c, err, "Failed to delete record")
	}
	logger.Warning(fmt.Sprintf("Record %s/%d permanently deleted by %s", table, id, actor))
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Record deleted",
		Status:  fiber.StatusOK,
	})
}
