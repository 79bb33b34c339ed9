package middleware

import (
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/services"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const currentUserKey = "currentUser"

// TokenHeader carries the opaque session token.
const TokenHeader = "X-Token"

type SessionMiddleware struct {
	Sessions *services.SessionService
}

func NewSessionMiddleware(sessions *services.SessionService) *SessionMiddleware {
	return &SessionMiddleware{Sessions: sessions}
}

func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, X-Token",
		AllowMethods: "GET,POST,OPTIONS",
	})
}

// Load resolves the X-Token header into a user and stashes it for the
// handler. It never rejects: each endpoint reports missing auth in its own
// documented shape, so rejection cannot live here.
func (m *SessionMiddleware) Load(c *fiber.Ctx) error {
	token := c.Get(TokenHeader)
	if token == "" {
		return c.Next()
	}

	user, err := m.Sessions.Resolve(c.Context(), token)
	if err != nil {
		logger.Error("session_resolve_failed", err, map[string]interface{}{
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Internal error")
	}
	if user != nil {
		c.Locals(currentUserKey, user)
	}

	return c.Next()
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}
