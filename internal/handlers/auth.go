package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/KNehe/alx-files-manager/internal/middleware"
	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// Connect exchanges Basic credentials for an opaque session token.
func (h *AuthHandler) Connect(c *fiber.Ctx) error {
	email, password, ok := parseBasicAuth(c.Get("Authorization"))
	if !ok {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	token, err := h.Sessions.Connect(c.Context(), email, password)
	if err != nil {
		return respondServiceError(c, err, fiber.StatusUnauthorized)
	}

	return utils.JSON(c, fiber.StatusOK, fiber.Map{"token": token})
}

func (h *AuthHandler) Disconnect(c *fiber.Ctx) error {
	token := c.Get(middleware.TokenHeader)
	if err := h.Sessions.Disconnect(c.Context(), token); err != nil {
		return respondServiceError(c, err, fiber.StatusUnauthorized)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, ok = strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return "", "", false
	}
	return email, password, true
}
