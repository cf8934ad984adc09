package middleware

import (
	"net/url"
	"strings"

	"narration-desk/constants"
	"narration-desk/logger"
	"narration-desk/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AccessCookie is the session cookie set at login.
const AccessCookie = "access"

// Auth gates routes behind a verified session token.
type Auth struct {
	verifier  Verifier
	loginPath string
}

func NewAuth(verifier Verifier, loginPath string) *Auth {
	return &Auth{verifier: verifier, loginPath: loginPath}
}

// RequirePermissions is a helper function that creates a middleware with specific permissions
func (a *Auth) RequirePermissions(permissions ...string) fiber.Handler {
	return a.IsAuthenticated(permissions)
}

// RequireAuthentication only requires valid authentication without specific permissions
func (a *Auth) RequireAuthentication() fiber.Handler {
	return a.IsAuthenticated([]string{constants.PermAny})
}

// IsAuthenticated answers API callers with 401 or 403 JSON.
func (a *Auth) IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := tokenFromRequest(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Authorization token missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := a.verifier.Verify(token)
		if err != nil || claimString(claims, "username") == "" {
			if err != nil {
				logger.Debug("JWT verification failed: " + err.Error())
			}
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Session expired. Login again.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !hasPermission(claims, requiredPermissions) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Insufficient permissions",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// RequireSession protects server rendered admin pages. Visitors without a
// valid session are sent to the login page with a redirect back to where
// they were going.
func (a *Auth) RequireSession(requiredPermissions ...string) fiber.Handler {
	if len(requiredPermissions) == 0 {
		requiredPermissions = []string{constants.PermAny}
	}
	return func(c *fiber.Ctx) error {
		token, ok := tokenFromRequest(c)
		if ok {
			claims, err := a.verifier.Verify(token)
			if err == nil && claimString(claims, "username") != "" {
				if !hasPermission(claims, requiredPermissions) {
					return c.Status(fiber.StatusForbidden).SendString("Insufficient permissions")
				}
				c.Locals("user", claims)
				return c.Next()
			}
		}
		return c.Redirect(a.loginPath+"?redirect="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
}

// tokenFromRequest reads a Bearer token, falling back to the access cookie.
func tokenFromRequest(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			return "", false
		}
		return tokenParts[1], true
	}
	token := c.Cookies(AccessCookie)
	return token, token != ""
}

func hasPermission(claims jwt.MapClaims, requiredPermissions []string) bool {
	// If "any" is passed, just verify the token without checking specific permissions
	for _, requiredPerm := range requiredPermissions {
		if requiredPerm == constants.PermAny {
			return true
		}
	}
	permissionSet := extractUserPermissionsFromClaims(claims)
	for _, requiredPerm := range requiredPermissions {
		if permissionSet[requiredPerm] {
			return true
		}
	}
	return false
}

// CheckPermissionInController checks if user has specific permission within a controller
func CheckPermissionInController(c *fiber.Ctx, requiredPermission string) bool {
	return GetUserPermissions(c)[requiredPermission]
}

// GetUserPermissions returns all user permissions from context
func GetUserPermissions(c *fiber.Ctx) map[string]bool {
	userClaims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return make(map[string]bool)
	}
	return extractUserPermissionsFromClaims(userClaims)
}

// Actor returns the username of the signed in account, used for created_by columns.
func Actor(c *fiber.Ctx) string {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return "system"
	}
	if name := claimString(claims, "username"); name != "" {
		return name
	}
	return "system"
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func extractUserPermissionsFromClaims(claims jwt.MapClaims) map[string]bool {
	permissionSet := make(map[string]bool)

	userPermissions, ok := claims["permissions"].([]interface{})
	if !ok {
		return permissionSet
	}

	for _, p := range userPermissions {
		if perm, ok := p.(string); ok {
			permissionSet[perm] = true
		}
	}

	return permissionSet
}
