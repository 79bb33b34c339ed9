package utils

import "github.com/gofiber/fiber/v2"

// JSON writes data as-is with the given status. The API exposes flat
// payloads (no envelope), matching the documented response shapes.
func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Error writes the `{"error": message}` failure body. The status is the
// caller's choice: listing and show report auth failures with status 200
// and an error body, upload reports them with 401.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
