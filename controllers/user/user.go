package user

import (
	"errors"

	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/models/user"
	"narration-desk/resource"
	"narration-desk/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetUserInfo returns the signed in account and the dashboard sections it can open
func (uc *UserController) GetUserInfo(c *fiber.Ctx) error {
	claims, _ := c.Locals("user").(jwt.MapClaims)
	uid, ok := claims["uuid"].(string)
	if !ok || uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var account user.User
	if err := uc.DB.WithContext(c.UserContext()).Where("uuid = ? AND deleted_at IS NULL", uid).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warning("Profile requested for unknown account " + uid)
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusNotFound,
			})
		}
		logger.Error("Error fetching user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Error fetching user",
			Status:  fiber.StatusInternalServerError,
		})
	}

	userInfo := map[string]interface{}{
		"uuid":        account.Uuid,
		"username":    account.Username,
		"legal_name":  account.LegalName,
		"email":       account.Email,
		"permissions": account.Permissions,
		"modules":     resource.Modules(middleware.GetUserPermissions(c)),
		"created_at":  account.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if account.LastLoginAt != nil {
		userInfo["last_login_at"] = account.LastLoginAt.Format("2006-01-02 15:04:05")
	}

	return c.JSON(types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    userInfo,
	})
}
