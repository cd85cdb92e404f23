// file: internals/middlewares/recovery_middleware.go
package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware: panic → 500 (dibentuk FiberErrorHandler), stack dicatat
// bersama request id supaya bisa dicocokkan dengan access log.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] rid=%v %s %s: %v\n%s", c.Locals("request_id"), c.Method(), c.Path(), e, debug.Stack())
		},
	})
}
