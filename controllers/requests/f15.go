package requests

import (
	"narration-desk/middleware"
	"narration-desk/services/lifecycle"
	bookingTypes "narration-desk/types/booking"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// Queue lists the first fifteen stage, soonest due first
func (rc *RequestController) Queue(c *fiber.Ctx) error {
	reqs, err := rc.Lifecycle.FirstFifteenQueue(c.UserContext())
	if err != nil {
		return rc.fail(c, err, "Failed to load first fifteen queue")
	}
	return rc.ok(c, "First fifteen queue retrieved successfully", reqs)
}

// StartF15 opens the first fifteen stage for an approved request
func (rc *RequestController) StartF15(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var body bookingTypes.StartF15Payload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return rc.badRequest(c, "Invalid request body")
		}
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}
	received, err := parseOptionalDate(body.BreakdownReceived)
	if err != nil {
		return rc.badRequest(c, err.Error())
	}

	req, err := rc.Lifecycle.StartF15(c.UserContext(), middleware.Actor(c), id, received)
	if err != nil {
		return rc.fail(c, err, "Failed to start first fifteen")
	}
	return rc.ok(c, "First fifteen started", view(req))
}

// ApproveF15 approves the sample and moves the request into production
func (rc *RequestController) ApproveF15(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	req, err := rc.Lifecycle.ApproveF15(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return rc.fail(c, err, "Failed to approve first fifteen")
	}
	return rc.ok(c, "First fifteen approved", view(req))
}

// FailF15 rejects the request after a failed sample
func (rc *RequestController) FailF15(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	req, err := rc.Lifecycle.FailF15(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return rc.fail(c, err, "Failed to fail first fifteen")
	}
	return rc.ok(c, "First fifteen failed", view(req))
}

// Feedback records delivery and client feedback dates, and revision strikes
func (rc *RequestController) Feedback(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return rc.badRequest(c, "Invalid request id")
	}
	var body bookingTypes.F15FeedbackPayload
	if err := c.BodyParser(&body); err != nil {
		return rc.badRequest(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return rc.badRequest(c, err.Error())
	}
	sent, err := parseOptionalDate(body.SentDate)
	if err != nil {
		return rc.badRequest(c, err.Error())
	}
	feedback, err := parseOptionalDate(body.ClientFeedbackDate)
	if err != nil {
		return rc.badRequest(c, err.Error())
	}

	req, err := rc.Lifecycle.RecordF15Feedback(c.UserContext(), middleware.Actor(c), id, lifecycle.F15Feedback{
		RevisionRequested:  body.RevisionRequested,
		SentDate:           sent,
		ClientFeedbackDate: feedback,
	})
	if err != nil {
		return rc.fail(c, err, "Failed to record first fifteen feedback")
	}
	return rc.ok(c, "First fifteen feedback recorded", view(req))
}
