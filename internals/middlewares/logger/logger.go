// file: internals/middlewares/logger/logger.go
package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"kantorku_backend/internals/configs"
)

// LoggerMiddleware: access log per request; probe /health tidak dicatat.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		Format:     "[${time}] ${locals:request_id} ${ip} ${header:X-Reader-ID} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
