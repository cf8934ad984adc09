package utils

import (
	"encoding/json"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"narration-desk/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GetEnv returns the environment value for key or fallback when it is unset or blank
func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt parses an integer environment value, falling back on absence or parse errors
func GetEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool parses a boolean environment value, falling back on absence or parse errors
func GetEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// SafeRedirect returns target when it is a same-origin path, otherwise fallback.
// Protocol-relative ("//host") and absolute URLs are rejected to avoid open redirects.
func SafeRedirect(target, fallback string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") {
		return fallback
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}

// ParseUintParam reads a positive numeric route parameter
func ParseUintParam(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

var sensitiveFieldPattern = regexp.MustCompile(`("(?:password|password_hash|token|access|secret)"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// redactSecrets blanks credential fields inside a JSON body
func redactSecrets(body string) string {
	return sensitiveFieldPattern.ReplaceAllString(body, `$1"[REDACTED]"`)
}

var sensitiveHeaderPattern = regexp.MustCompile(`(?im)^(authorization|cookie|set-cookie):.*$`)

// redactHeaders blanks credential headers in a raw header block
func redactHeaders(raw string) string {
	return sensitiveHeaderPattern.ReplaceAllString(raw, "$1: [REDACTED]\r")
}

// sanitizeRequestBody sanitizes request body for file uploads and large content
func sanitizeRequestBody(c *fiber.Ctx) string {
	// Check if this is a multipart form (file upload)
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		// For multipart requests, create a sanitized representation
		formData := make(map[string]interface{})

		if form, err := c.MultipartForm(); err == nil {
			// Add text fields
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0] // Take first value
				}
			}

			// Add file field information without content
			for key, files := range form.File {
				fileInfo := make([]map[string]interface{}, len(files))
				for i, file := range files {
					fileInfo[i] = map[string]interface{}{
						"filename": file.Filename,
						"size":     file.Size,
						"content":  "[FILE_CONTENT_REMOVED]",
					}
				}
				formData[key] = fileInfo
			}
		}

		if jsonBytes, err := json.Marshal(formData); err == nil {
			return redactSecrets(string(jsonBytes))
		}
		return "[MULTIPART_FORM_DATA]"
	}

	// Login forms post credentials urlencoded
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(string(c.Body()))
		if err != nil {
			return "[FORM_DATA]"
		}
		for key := range values {
			if key == "password" {
				values.Set(key, "[REDACTED]")
			}
		}
		return values.Encode()
	}

	// For regular requests, return the body but check for base64 encoded content
	body := string(c.Body())
	if len(body) > 1000 && (strings.Contains(body, "data:image/") ||
		strings.Contains(body, "base64") ||
		isLikelyBase64(body)) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}

	return redactSecrets(body)
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for logging.
// File content, credentials and auth headers never reach the log table.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	// Create deep copies of all data to prevent memory reference issues
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := redactSecrets(string(append([]byte(nil), c.Response().Body()...)))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	route := ""
	if r := c.Route(); r != nil {
		route = r.Path
	}
	actor := ""
	if claims, ok := c.Locals("user").(jwt.MapClaims); ok {
		actor, _ = claims["username"].(string)
	}

	return types.LogEntry{
		Method:          method,
		URL:             url,
		Route:           route,
		Actor:           actor,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  redactHeaders(string(requestHeaders)),
		ResponseHeaders: redactHeaders(string(responseHeaders)),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
