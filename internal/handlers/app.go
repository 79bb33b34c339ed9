package handlers

import (
	"github.com/KNehe/alx-files-manager/internal/cache"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AppHandler struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewAppHandler(db *gorm.DB, c cache.Cache) *AppHandler {
	return &AppHandler{DB: db, Cache: c}
}

func (h *AppHandler) Status(c *fiber.Ctx) error {
	redisAlive := h.Cache.Ping(c.Context()) == nil

	dbAlive := false
	if sqlDB, err := h.DB.DB(); err == nil {
		dbAlive = sqlDB.PingContext(c.Context()) == nil
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"redis": redisAlive,
		"db":    dbAlive,
	})
}

func (h *AppHandler) Stats(c *fiber.Ctx) error {
	var users, files int64
	if err := h.DB.WithContext(c.Context()).Model(&models.User{}).Count(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}
	if err := h.DB.WithContext(c.Context()).Model(&models.File{}).Count(&files).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{
		"users": users,
		"files": files,
	})
}
