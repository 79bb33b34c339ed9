package handlers

import (
	"errors"

	"github.com/KNehe/alx-files-manager/internal/middleware"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB *gorm.DB
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{DB: db}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Missing email")
	}

	if req.Email == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Missing email")
	}
	if req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Missing password")
	}

	var existing models.User
	err := h.DB.WithContext(c.Context()).First(&existing, "email = ?", req.Email).Error
	if err == nil {
		return utils.Error(c, fiber.StatusBadRequest, "Already exist")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}

	user := models.User{Email: req.Email, PasswordHash: hash}
	if err := h.DB.WithContext(c.Context()).Create(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}

	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"email": user.Email,
	})

	return utils.JSON(c, fiber.StatusCreated, fiber.Map{
		"id":    user.ID.String(),
		"email": user.Email,
	})
}

func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"id":    user.ID.String(),
		"email": user.Email,
	})
}
