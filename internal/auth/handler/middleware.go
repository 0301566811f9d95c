package handler

import (
	"strings"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	"github.com/AnthoniusHendriyanto/blog-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "currentUser"

// RequireAuth resolves the bearer token into an authenticated identity and
// stores it in the request locals. Every failure collapses to a single 401 so
// the response never reveals which check failed.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
		}

		user, err := h.userService.ResolveIdentity(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
		}

		c.Locals(userLocalKey, user)

		return c.Next()
	}
}

// RequireRole admits only identities whose role is in the allowed set. It has
// no way to establish identity itself, so it must run after RequireAuth.
func (h *AuthHandler) RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": autherror.ErrUnauthorized.Error()})
		}

		if !user.Role.In(allowed...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": autherror.ErrForbidden.Error()})
		}

		return c.Next()
	}
}

// RateLimit counts the request against the limiter's window, keyed by the
// token subject when one is decodable and the client address otherwise.
func (h *AuthHandler) RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	if limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		identifier := ratelimit.Identifier(h.tokenService, c.Get(fiber.HeaderAuthorization), c.IP())

		if err := limiter.Allow(c.Context(), identifier); err != nil {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": autherror.ErrRateLimited.Error()})
		}

		return c.Next()
	}
}

// CurrentUser returns the identity resolved by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userLocalKey).(*domain.User)
	return user
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimPrefix(header, prefix), true
}
