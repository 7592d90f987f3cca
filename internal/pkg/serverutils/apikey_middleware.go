package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// ApiKeyMiddleware guards routes behind a shared bearer key. When no
// key is configured the guard is disabled, which keeps local
// development friction-free.
func ApiKeyMiddleware(accessKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if accessKey == "" {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing API key"))
		}
		provided := authHeader[7:]

		if subtle.ConstantTimeCompare([]byte(provided), []byte(accessKey)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid API key"))
		}

		return ctx.Next()
	}
}
