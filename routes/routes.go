package routes

import (
	"narration-desk/constants"
	"narration-desk/controllers/archive"
	"narration-desk/controllers/auditions"
	"narration-desk/controllers/auth"
	"narration-desk/controllers/bookings"
	"narration-desk/controllers/dashboard"
	inquiryController "narration-desk/controllers/inquiry"
	"narration-desk/controllers/posts"
	"narration-desk/controllers/requests"
	"narration-desk/controllers/user"
	"narration-desk/logger"
	"narration-desk/middleware"
	authService "narration-desk/services/auth"
	"narration-desk/services/inquiry"
	"narration-desk/services/lifecycle"
	"narration-desk/services/post"
	"narration-desk/services/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options carries the collaborators built from configuration in main.
type Options struct {
	Verifier  middleware.Verifier
	Issuer    *authService.Issuer
	Store     storage.Store
	Extractor inquiry.Extractor
	Lifecycle *lifecycle.Service
}

// SetupRoutes registers every route and starts the async request logger,
// which the caller closes on shutdown.
func SetupRoutes(app *fiber.App, db *gorm.DB, opts Options) *logger.AsyncLogger {
	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	svc := opts.Lifecycle
	if svc == nil {
		svc = lifecycle.NewService(db)
	}
	gate := middleware.NewAuth(opts.Verifier, "/login")

	authController := auth.NewAuthController(authService.NewService(db), opts.Issuer, asyncLogger)
	requestController := requests.NewRequestController(db, asyncLogger, svc, opts.Store)
	auditionController := auditions.NewAuditionController(asyncLogger, svc)
	archiveController := archive.NewArchiveController(asyncLogger, svc)
	bookingController := bookings.NewBookingController(asyncLogger, svc)
	dashboardController := dashboard.NewDashboardController(asyncLogger, svc)
	postController := posts.NewPostController(asyncLogger, post.NewService(db), svc)
	userController := user.NewUserController(db)
	inquiryCtl := inquiryController.NewInquiryController(asyncLogger, inquiry.NewService(db, opts.Extractor, svc))

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"title": "Home",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/login", authController.LoginPage)

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.LogOut)
	api.Post("/bookings/intake", bookingController.Intake)
	api.Get("/posts", postController.PublicIndex)
	api.Get("/posts/:slug", postController.PublicShow)

	/*=============================================================================
	| Legacy Booking Collection
	| {success}/{error} bodies; errors carry 400/404/409/428/500, not only 500
	===============================================================================*/
	manageBookings := gate.RequirePermissions(constants.BookingManagerPermissions...)
	api.Get("/bookings", manageBookings, bookingController.LegacyIndex)
	api.Patch("/bookings", manageBookings, bookingController.LegacyPatch)
	api.Delete("/bookings", manageBookings, bookingController.LegacyDelete)

	/*=============================================================================
	| Admin API
	===============================================================================*/
	admin := api.Group("/admin", gate.RequirePermissions(constants.DashboardPermissions...))
	admin.Get("/dashboard", dashboardController.Snapshot)
	admin.Get("/profile", userController.GetUserInfo)

	requestGroup := admin.Group("/requests", manageBookings)
	requestGroup.Get("/", requestController.Index)
	requestGroup.Post("/", requestController.Store)
	requestGroup.Get("/:id", requestController.Show)
	requestGroup.Patch("/:id", requestController.Update)
	requestGroup.Get("/:id/history", requestController.History)
	// archive, boot and delete through these two need confirm=true as well
	requestGroup.Post("/:id/move", requestController.Move)
	requestGroup.Post("/:id/actions", requestController.Transition)
	requestGroup.Post("/:id/approve", requestController.Approve)
	requestGroup.Post("/:id/f15/start", requestController.StartF15)
	requestGroup.Post("/:id/f15/approve", requestController.ApproveF15)
	requestGroup.Post("/:id/f15/fail", requestController.FailF15)
	requestGroup.Post("/:id/f15/feedback", requestController.Feedback)
	requestGroup.Post("/:id/boot", middleware.RequireConfirm(), requestController.Boot)
	requestGroup.Post("/:id/revive", requestController.Revive)
	requestGroup.Post("/:id/cover", requestController.UploadCover)
	admin.Get("/f15", manageBookings, requestController.Queue)

	admin.Post("/intake/:id/promote", manageBookings, bookingController.Promote)

	auditionGroup := admin.Group("/auditions", manageBookings)
	auditionGroup.Get("/", auditionController.Index)
	auditionGroup.Post("/", auditionController.Store)
	auditionGroup.Patch("/:id", auditionController.Progress)
	auditionGroup.Post("/:id/book", auditionController.Book)
	auditionGroup.Post("/:id/archive", auditionController.Archive)
	auditionGroup.Post("/:id/restore", auditionController.Restore)

	admin.Get("/archive", manageBookings, archiveController.Index)
	admin.Post("/archive/:id/blacklist", manageBookings, archiveController.ToggleBlacklist)
	admin.Delete("/records/:table/:id", gate.RequirePermissions(constants.PermAdminFull), middleware.RequireConfirm(), archiveController.HardDelete)

	admin.Post("/inquiries/parse", manageBookings, inquiryCtl.Parse)
	admin.Get("/inquiries", manageBookings, inquiryCtl.History)

	managePosts := gate.RequirePermissions(constants.PostManagerPermissions...)
	postGroup := admin.Group("/posts", managePosts)
	postGroup.Get("/", postController.Index)
	postGroup.Post("/", postController.Store)
	postGroup.Put("/:id", postController.Update)
	postGroup.Delete("/:id", middleware.RequireConfirm(), postController.Destroy)

	/*=============================================================================
	| Admin Pages
	===============================================================================*/
	pages := app.Group("/admin", gate.RequireSession(constants.DashboardPermissions...))
	pages.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/dashboard", fiber.StatusFound)
	})
	pages.Get("/dashboard", dashboardController.Page)

	return asyncLogger
}
