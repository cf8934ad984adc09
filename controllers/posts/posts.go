package posts

import (
	"narration-desk/controllers/httperr"
	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/services/lifecycle"
	"narration-desk/services/post"
	"narration-desk/types"
	postTypes "narration-desk/types/post"
	"narration-desk/utils"

	"github.com/gofiber/fiber/v2"
)

// PostController serves the public blog and its admin editor
type PostController struct {
	Logger    *logger.AsyncLogger
	Posts     *post.Service
	Lifecycle *lifecycle.Service
}

func NewPostController(asyncLogger *logger.AsyncLogger, posts *post.Service, svc *lifecycle.Service) *PostController {
	return &PostController{Logger: asyncLogger, Posts: posts, Lifecycle: svc}
}

func (pc *PostController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (pc *PostController) fail(c *fiber.Ctx, err error, what string) error {
	status := httperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(what, err)
	}
	return pc.sendResponseWithLog(c, status, types.ApiResponse{
		Message: httperr.Message(err, what),
		Status:  status,
	})
}

func (pc *PostController) invalid(c *fiber.Ctx, message string) error {
	return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

// PublicIndex lists published posts
func (pc *PostController) PublicIndex(c *fiber.Ctx) error {
	list, err := pc.Posts.List(c.UserContext(), true)
	if err != nil {
		logger.Error("Failed to list posts", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list posts",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return c.JSON(types.ApiResponse{Message: "Posts retrieved successfully", Status: fiber.StatusOK, Data: list})
}

// PublicShow returns one published post by slug
func (pc *PostController) PublicShow(c *fiber.Ctx) error {
	p, err := pc.Posts.PublishedBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		status := httperr.Status(err)
		return c.Status(status).JSON(types.ApiResponse{
			Message: httperr.Message(err, "Failed to load post"),
			Status:  status,
		})
	}
	return c.JSON(types.ApiResponse{Message: "Post retrieved successfully", Status: fiber.StatusOK, Data: p})
}

// Index lists every post including drafts
func (pc *PostController) Index(c *fiber.Ctx) error {
	list, err := pc.Posts.List(c.UserContext(), false)
	if err != nil {
		return pc.fail(c, err, "Failed to list posts")
	}
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Posts retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    list,
	})
}

func toInput(body postTypes.PostPayload) post.Input {
	return post.Input{
		Title:     body.Title,
		Slug:      body.Slug,
		Excerpt:   body.Excerpt,
		Body:      body.Body,
		CoverURL:  body.CoverURL,
		Published: body.Published,
	}
}

// Store creates a post
func (pc *PostController) Store(c *fiber.Ctx) error {
	var body postTypes.PostPayload
	if err := c.BodyParser(&body); err != nil {
		return pc.invalid(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return pc.invalid(c, err.Error())
	}
	p, err := pc.Posts.Create(c.UserContext(), middleware.Actor(c), toInput(body))
	if err != nil {
		return pc.fail(c, err, "Failed to create post")
	}
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Post created successfully",
		Status:  fiber.StatusCreated,
		Data:    p,
	})
}

// Update replaces a post's fields
func (pc *PostController) Update(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return pc.invalid(c, "Invalid post id")
	}
	var body postTypes.PostPayload
	if err := c.BodyParser(&body); err != nil {
		return pc.invalid(c, "Invalid request body")
	}
	if err := body.Validate(); err != nil {
		return pc.invalid(c, err.Error())
	}
	p, err := pc.Posts.Update(c.UserContext(), id, toInput(body))
	if err != nil {
		return pc.fail(c, err, "Failed to update post")
	}
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Post updated successfully",
		Status:  fiber.StatusOK,
		Data:    p,
	})
}

// Destroy deletes a post. Routed behind RequireConfirm.
func (pc *PostController) Destroy(c *fiber.Ctx) error {
	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		return pc.invalid(c, "Invalid post id")
	}
	if err := pc.Lifecycle.HardDelete(c.UserContext(), middleware.Actor(c), lifecycle.TablePosts, id); err != nil {
		return pc.fail(c, err, "Failed to delete post")
	}
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Post deleted",
		Status:  fiber.StatusOK,
	})
}
