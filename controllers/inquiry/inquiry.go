package inquiry

import (
	"errors"
	"fmt"
	"io"

	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	inquiryService "narration-desk/services/inquiry"
	"narration-desk/types"
	inquiryTypes "narration-desk/types/inquiry"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

type InquiryController struct {
	Logger  *logger.AsyncLogger
	Service *inquiryService.Service
}

func NewInquiryController(asyncLogger *logger.AsyncLogger, svc *inquiryService.Service) *InquiryController {
	return &InquiryController{Logger: asyncLogger, Service: svc}
}

func (ic *InquiryController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ic.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func isValidImageType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

// Parse extracts booking fields from pasted inquiry text or an uploaded
// screenshot in the "image" field. With create=true a pending request is
// stored from the result.
func (ic *InquiryController) Parse(c *fiber.Ctx) error {
	var body inquiryTypes.ParsePayload
	if err := c.BodyParser(&body); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return ic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := body.Validate(); err != nil {
		return ic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	in := inquiryService.Input{Text: body.Text}
	if file, err := c.FormFile("image"); err == nil {
		mimeType := file.Header.Get("Content-Type")
		if !isValidImageType(mimeType) {
			return ic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Message: "Invalid file type. Only JPEG, PNG and WebP files are allowed",
				Status:  fiber.StatusBadRequest,
			})
		}
		if file.Size > inquiryService.MaxImageSize {
			return ic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Message: "File size too large. Maximum size is 10MB",
				Status:  fiber.StatusBadRequest,
			})
		}
		src, err := file.Open()
		if err != nil {
			logger.Error("Failed to open uploaded inquiry image", err)
			return ic.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Message: "Failed to read uploaded file",
				Status:  fiber.StatusInternalServerError,
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			logger.Error("Failed to read uploaded inquiry image", err)
			return ic.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Message: "Failed to read uploaded file",
				Status:  fiber.StatusInternalServerError,
			})
		}
		in.Data = data
		in.MimeType = mimeType
	}

	result, err := ic.Service.Parse(c.UserContext(), in, inquiryService.ParseOptions{
		Actor:     middleware.Actor(c),
		IPAddress: c.IP(),
		Create:    body.Create,
	})
	if err != nil {
		if errors.Is(err, inquiryService.ErrNotConfigured) {
			return ic.sendResponseWithLog(c, fiber.StatusServiceUnavailable, types.ApiResponse{
				Message: "Inquiry parsing is not configured",
				Status:  fiber.StatusServiceUnavailable,
			})
		}
		status := httperr.Status(err)
		resp := types.ApiResponse{
			Message: httperr.Message(err, "Failed to parse inquiry"),
			Status:  status,
		}
		// The parse itself may have succeeded even if the request was refused
		if result != nil {
			resp.Data = result
		}
		return ic.sendResponseWithLog(c, status, resp)
	}

	status := fiber.StatusOK
	message := "Inquiry parsed successfully"
	if result.Request != nil {
		status = fiber.StatusCreated
		message = fmt.Sprintf("Inquiry parsed and booking request %s created", result.Request.RefNumber)
	}
	return ic.sendResponseWithLog(c, status, types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    result,
	})
}

// History lists recent parse attempts; ?status= filters by outcome
func (ic *InquiryController) History(c *fiber.Ctx) error {
	list, err := ic.Service.Recent(c.UserContext(), c.Query("status"), c.QueryInt("limit", 50))
	if err != nil {
		logger.Error("Failed to list inquiry parses", err)
		return ic.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to list inquiry parses",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return ic.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Inquiry parses retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    list,
	})
}
