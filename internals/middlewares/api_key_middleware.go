package middlewares

import (
	"crypto/subtle"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	helper "kantorku_backend/internals/helpers"
)

const HeaderAPIKey = "X-API-Key"

// APIKeyGuard: header X-API-Key harus sama dengan key. key kosong = guard dimatikan (dev).
func APIKeyGuard(name, key string) fiber.Handler {
	if key == "" {
		log.Printf("[WARN] %s API key kosong, endpoint tidak dilindungi", name)
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	want := []byte(key)
	return keyauth.New(keyauth.Config{
		// KeyLookup non-default → AuthScheme tidak di-set, header dibaca apa adanya
		KeyLookup:  "header:" + HeaderAPIKey,
		ContextKey: "api_key",
		Validator: func(_ *fiber.Ctx, got string) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(got), want) == 1, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "API key wajib diisi")
			}
			return helper.JsonError(c, fiber.StatusUnauthorized, "API key tidak valid")
		},
	})
}
