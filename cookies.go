package storefront

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Cookie names for the session pair. Handlers never touch these
// directly; the CookieManager owns them.
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
)

// CookieManager attaches and clears the session cookie pair on outgoing
// responses. It holds no per-request state: both methods are pure
// transformations of the response.
type CookieManager struct {
	secure        bool
	accessMaxAge  time.Duration
	refreshMaxAge time.Duration
}

// NewCookieManager returns a CookieManager. secure should be true
// everywhere except local development so the cookies are only sent over
// TLS.
func NewCookieManager(secure bool, accessMaxAge, refreshMaxAge time.Duration) *CookieManager {
	return &CookieManager{
		secure:        secure,
		accessMaxAge:  accessMaxAge,
		refreshMaxAge: refreshMaxAge,
	}
}

// Attach sets both session cookies on the response. The cookies are not
// readable from scripts and are restricted to same-site submission; the
// max-age caps the browser lifetime while the JWT exp stays authoritative.
func (m *CookieManager) Attach(c *fiber.Ctx, access, refresh string) {
	m.set(c, CookieAccessToken, access, m.accessMaxAge)
	m.set(c, CookieRefreshToken, refresh, m.refreshMaxAge)
}

// AttachAccess replaces only the access token cookie, used by the
// refresh exchange where the refresh cookie stays untouched.
func (m *CookieManager) AttachAccess(c *fiber.Ctx, access string) {
	m.set(c, CookieAccessToken, access, m.accessMaxAge)
}

// Clear overwrites both cookies with empty values and an immediate
// expiry, ending the session on the client.
func (m *CookieManager) Clear(c *fiber.Ctx) {
	m.del(c, CookieAccessToken)
	m.del(c, CookieRefreshToken)
}

func (m *CookieManager) set(c *fiber.Ctx, name, val string, maxAge time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: "Lax",
	})
}

func (m *CookieManager) del(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: "Lax",
	})
}
