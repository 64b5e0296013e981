// Package tokenware guards fiber routes with the access token carried in
// the session cookie (or an Authorization header for non-browser
// clients). It deliberately depends only on small local interfaces so the
// token service can live in the parent package without an import cycle.
package tokenware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrMissingOrMalformedToken is returned when no token can be extracted
// from the request
var ErrMissingOrMalformedToken = errors.New("missing or malformed JWT")

// Claims is the validated token payload the middleware stores in the
// request context
type Claims interface {
	UserID() string
	Role() string
}

// Verifier validates a raw token string and returns its claims
type Verifier func(raw string) (Claims, error)

// Config configures the middleware
type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// Verify is required: it validates the raw token
	Verify Verifier
	// ErrorHandler translates extraction/validation failures. The default
	// responds 401 with a uniform body that never distinguishes a missing,
	// expired, or forged token.
	ErrorHandler fiber.ErrorHandler
	// CookieName is where the access token travels for browser clients
	CookieName string
	// AuthScheme is the Authorization header scheme for API clients
	AuthScheme string
	// ContextKey is the Locals key the claims are stored under
	ContextKey string
	// RoleChecker, when set, authorizes the validated claims before the
	// handler runs
	RoleChecker func(Claims) bool
}

// ConfigDefault holds the default settings
var ConfigDefault = Config{
	CookieName: "access_token",
	AuthScheme: "Bearer",
	ContextKey: "user",
	ErrorHandler: func(c *fiber.Ctx, _ error) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	},
}

// New returns the guard middleware
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := extractToken(c, cfg)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Verify(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.RoleChecker != nil && !cfg.RoleChecker(claims) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// ClaimsFromContext returns the claims stored by the middleware, if any
func ClaimsFromContext(c *fiber.Ctx, key string) (Claims, bool) {
	claims, ok := c.Locals(key).(Claims)
	return claims, ok
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CookieName == "" {
		cfg.CookieName = ConfigDefault.CookieName
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = ConfigDefault.AuthScheme
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = ConfigDefault.ContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ConfigDefault.ErrorHandler
	}

	return cfg
}

func extractToken(c *fiber.Ctx, cfg Config) (string, error) {
	if raw := c.Cookies(cfg.CookieName); raw != "" {
		return raw, nil
	}

	header := c.Get(fiber.HeaderAuthorization)
	prefix := cfg.AuthScheme + " "
	if header != "" && strings.HasPrefix(header, prefix) && len(header) > len(prefix) {
		return header[len(prefix):], nil
	}

	return "", ErrMissingOrMalformedToken
}
