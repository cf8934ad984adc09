package auth

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"narration-desk/logger"
	"narration-desk/middleware"
	authService "narration-desk/services/auth"
	"narration-desk/types"
	authTypes "narration-desk/types/auth"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// DefaultRedirect is where a form login lands without a redirect target.
const DefaultRedirect = "/admin/dashboard"

type AuthController struct {
	service        *authService.Service
	issuer         *authService.Issuer
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(service *authService.Service, issuer *authService.Issuer, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{service: service, issuer: issuer, loggerInstance: asyncLogger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction, // Only secure in production (HTTPS)
		SameSite: "Lax",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func isFormPost(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm)
}

// LoginPage renders the sign-in form
func (h *AuthController) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"redirect": utils.SafeRedirect(c.Query("redirect"), DefaultRedirect),
		"error":    c.Query("error"),
	})
}

// Login checks credentials and sets the access cookie. Browser form posts
// are answered with 303 to the redirect target, API clients get JSON.
func (h *AuthController) Login(c *fiber.Ctx) error {
	form := isFormPost(c)

	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return h.loginFailed(c, form, req.Redirect, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := req.Validate(); err != nil {
		return h.loginFailed(c, form, req.Redirect, fiber.StatusBadRequest, err.Error())
	}

	u, err := h.service.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			logger.Warning("Failed login for " + req.Username + " from " + c.IP())
			return h.loginFailed(c, form, req.Redirect, fiber.StatusUnauthorized, "Invalid username or password")
		}
		logger.Error("Failed to login user", err)
		return h.loginFailed(c, form, req.Redirect, fiber.StatusInternalServerError, "Failed to login user")
	}

	token, expiresAt, err := h.issuer.Issue(u)
	if err != nil {
		logger.Error("Failed to issue token", err)
		return h.loginFailed(c, form, req.Redirect, fiber.StatusInternalServerError, "Failed to login user")
	}
	h.setSecureCookie(c, middleware.AccessCookie, token, int(h.issuer.TTL()/time.Second))

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("User logged in successfully. uuid: " + u.Uuid + " at " + time.Now().Format("2006-01-02 03:04:05 PM"))

	if form {
		return c.Redirect(utils.SafeRedirect(req.Redirect, DefaultRedirect), fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   token,
		Data: authTypes.LoginResponse{
			Username:    u.Username,
			Permissions: []string(u.Permissions),
			ExpiresAt:   expiresAt.Unix(),
		},
	})
}

func (h *AuthController) loginFailed(c *fiber.Ctx, form bool, redirect string, status int, message string) error {
	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	if form {
		target := "/login?error=" + url.QueryEscape(message) + "&redirect=" + url.QueryEscape(utils.SafeRedirect(redirect, DefaultRedirect))
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
	})
}

// LogOut clears the access cookie
func (h *AuthController) LogOut(c *fiber.Ctx) error {
	h.setSecureCookie(c, middleware.AccessCookie, "", -1) // Expire immediately

	logger.Success("Logout successful")
	if isFormPost(c) || strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Logout successful",
		Status:  fiber.StatusOK,
	})
}
