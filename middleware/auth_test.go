package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func validToken(t *testing.T, perms ...string) string {
	list := make([]interface{}, len(perms))
	for i, p := range perms {
		list[i] = p
	}
	return signed(t, jwt.MapClaims{
		"username":    "narrator",
		"permissions": list,
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
}

func newTestApp() *fiber.App {
	auth := NewAuth(NewHMACVerifier(testSecret), "/login")
	app := fiber.New()
	app.Get("/admin/dashboard", auth.RequireSession(), func(c *fiber.Ctx) error {
		return c.SendString("hello " + Actor(c))
	})
	app.Get("/api/admin/ping", auth.RequirePermissions("perm.bookings"), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Delete("/api/admin/thing", RequireConfirm(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard?tab=f15", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fadmin%2Fdashboard%3Ftab%3Df15", resp.Header.Get("Location"))
}

func TestRequireSessionAcceptsCookie(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: validToken(t)})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSessionRejectsExpiredToken(t *testing.T) {
	app := newTestApp()
	expired := signed(t, jwt.MapClaims{"username": "narrator", "exp": time.Now().Add(-time.Minute).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: expired})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"malformed header", "Token abc", fiber.StatusUnauthorized},
		{"bad signature", "Bearer " + signedWith(t, []byte("another-secret-another-secret-xx")), fiber.StatusUnauthorized},
		{"missing permission", "Bearer " + validToken(t, "perm.posts"), fiber.StatusForbidden},
		{"allowed", "Bearer " + validToken(t, "perm.bookings"), fiber.StatusOK},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHMACVerifierRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "x", "exp": time.Now().Add(time.Hour).Unix()})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewHMACVerifier(testSecret).Verify(s)
	assert.Error(t, err)
}

func TestRequireConfirm(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/admin/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPreconditionRequired, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/admin/thing?confirm=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func signedWith(t *testing.T, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "narrator",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	return s
}
