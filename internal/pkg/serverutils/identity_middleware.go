package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IdentityMiddleware resolves the caller from the X-User-Id header set by
// the upstream auth proxy. Requests without a valid id never reach the
// handlers.
func IdentityMiddleware(ctx *fiber.Ctx) error {
	userIdStr := ctx.Get("X-User-Id")
	if userIdStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing user identity"))
	}
	if _, err := uuid.Parse(userIdStr); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid user identity"))
	}

	ctx.Locals("user_id", userIdStr)
	return ctx.Next()
}
