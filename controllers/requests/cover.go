package requests

import (
	"context"
	"fmt"
	"time"

	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/services/storage"
	"narration-desk/types"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// MaxCoverSize is the largest cover image accepted.
const MaxCoverSize = 5 * 1024 * 1024

// UploadCover stores a cover image and points the request at it. When the
// database write fails the uploaded object is removed again.
func (rc *RequestController) UploadCover(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	if rc.Covers == nil {
		return rc.sendResponseWithLog(c, fiber.StatusServiceUnavailable, types.ApiResponse{
			Message: "Cover storage is not configured",
			Status:  fiber.StatusServiceUnavailable,
		})
	}

	file, err := c.FormFile("cover")
	if err != nil {
		return rc.badRequest(c, "No cover file provided")
	}
	if file.Size > MaxCoverSize {
		return rc.badRequest(c, fmt.Sprintf("Cover is too large. Maximum size is %d MB", MaxCoverSize/(1024*1024)))
	}
	contentType := file.Header.Get("Content-Type")
	if _, err := storage.ImageExtension(contentType); err != nil {
		return rc.badRequest(c, "Invalid file type. Only JPEG, PNG, WebP and GIF images are allowed")
	}
	// Make sure the request exists before uploading anything
	if _, err := rc.Lifecycle.GetRequest(c.UserContext(), id); err != nil {
		return rc.fail(c, err, "Failed to load booking request")
	}

	src, err := file.Open()
	if err != nil {
		return rc.fail(c, err, "Failed to read uploaded file")
	}
	defer src.Close()

	obj, err := rc.Covers.Put(c.UserContext(), fmt.Sprintf("covers/%d", id), file.Filename, src, file.Size, contentType)
	if err != nil {
		return rc.fail(c, err, "Failed to store cover image")
	}

	req, err := rc.Lifecycle.UpdateRequest(c.UserContext(), middleware.Actor(c), id, map[string]interface{}{
		"cover_image_url": obj.URL,
	})
	if err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if delErr := rc.Covers.Delete(ctx, obj.Key); delErr != nil {
			logger.Error("Failed to remove orphaned cover "+obj.Key, delErr)
		}
		return rc.fail(c, err, "Failed to save cover image")
	}
	logger.Success(fmt.Sprintf("Cover uploaded for booking request %d: %s", id, obj.Key))
	return rc.ok(c, "Cover uploaded successfully", view(req))
}
