package handlers

import (
	"errors"

	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps service errors onto the HTTP surface.
// unauthorizedStatus is the status an auth failure is reported with: 401
// for upload and the session endpoints, 200 for listing and show, which
// report auth failures as a success status with an error body.
func respondServiceError(c *fiber.Ctx, err error, unauthorizedStatus int) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.Error(c, fiber.StatusBadRequest, verr.Msg)
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Error(c, unauthorizedStatus, "Unauthorized")
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "Not found")
	default:
		logger.Error("internal_error", err, map[string]interface{}{
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}
}
