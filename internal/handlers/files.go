package handlers

import (
	"mime"
	"path/filepath"

	"github.com/KNehe/alx-files-manager/internal/middleware"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Files *services.FileService
}

func NewFilesHandler(files *services.FileService) *FilesHandler {
	return &FilesHandler{Files: files}
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var in services.UploadInput
	if err := c.BodyParser(&in); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := h.Files.Upload(c.Context(), user, in)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusUnauthorized)
	}

	return utils.JSON(c, fiber.StatusCreated, file.View())
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		// Historical quirk of the API, kept for compatibility: listing
		// reports missing auth with status 200 and an error body.
		return utils.Error(c, fiber.StatusOK, "Unauthorized")
	}

	parentID := c.Query("parentId")
	page := c.QueryInt("page", 1)

	files, err := h.Files.List(c.Context(), user, parentID, page)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusOK)
	}

	views := make([]models.FileView, 0, len(files))
	for i := range files {
		views = append(views, files[i].View())
	}

	return utils.JSON(c, fiber.StatusOK, views)
}

func (h *FilesHandler) Show(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		// Same status quirk as List.
		return utils.Error(c, fiber.StatusOK, "Unauthorized")
	}

	file, err := h.Files.Show(c.Context(), user, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusOK)
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{"file": file.View()})
}

// Data serves the stored bytes. Public files need no session.
func (h *FilesHandler) Data(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	data, file, err := h.Files.ReadContent(c.Context(), user, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, fiber.StatusNotFound)
	}

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Set("Content-Type", contentType)
	return c.Send(data)
}
