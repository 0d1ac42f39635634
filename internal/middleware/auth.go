package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/liftledger/liftledger/internal/config"
	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/remote"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    remote.CodeUnauthorized,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}
