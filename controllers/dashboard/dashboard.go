package dashboard

import (
	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/resource"
	"narration-desk/services/lifecycle"
	"narration-desk/types"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

func NewDashboardController(asyncLogger *logger.AsyncLogger, svc *lifecycle.Service) *DashboardController {
	return &DashboardController{Logger: asyncLogger, Lifecycle: svc}
}

// Snapshot returns every dashboard tab as JSON
func (dc *DashboardController) Snapshot(c *fiber.Ctx) error {
	d, err := dc.Lifecycle.Dashboard(c.UserContext())
	if err != nil {
		logger.Error("Failed to build dashboard", err)
		status := httperr.Status(err)
		return c.Status(status).JSON(types.ApiResponse{
			Message: httperr.Message(err, "Failed to build dashboard"),
			Status:  status,
		})
	}
	result := c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Dashboard retrieved successfully",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"dashboard": d,
			"modules":   resource.Modules(middleware.GetUserPermissions(c)),
		},
	})
	dc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Page renders the dashboard for a browser session
func (dc *DashboardController) Page(c *fiber.Ctx) error {
	d, err := dc.Lifecycle.Dashboard(c.UserContext())
	if err != nil {
		logger.Error("Failed to build dashboard", err)
		return c.Status(fiber.StatusInternalServerError).SendString("The dashboard is unavailable right now.")
	}
	return c.Render("dashboard", fiber.Map{
		"actor":     middleware.Actor(c),
		"modules":   resource.Modules(middleware.GetUserPermissions(c)),
		"dashboard": d,
	})
}
