package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-storefront/middleware/tokenware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ContextKeySession is the Locals key the guard middleware stores
// validated claims under
const ContextKeySession = "session"

// Server assembles the HTTP surface: auth endpoints, catalog CRUD, user
// administration, liveness, and metrics.
type Server struct {
	app     *fiber.App
	cfg     *Config
	auther  *Authenticator
	cookies *CookieManager
	repo    RepositoryManager
	logger  Logger
}

// NewServer wires the fiber application and all routes
func NewServer(cfg *Config, auther *Authenticator, repo RepositoryManager, logger Logger) *Server {
	if logger == nil {
		logger = defLogger{}
	}

	s := &Server{
		cfg:    cfg,
		auther: auther,
		repo:   repo,
		logger: logger,
		cookies: NewCookieManager(
			cfg.IsProduction(),
			cfg.Auth.AccessCookieAge,
			cfg.Auth.RefreshCookieAge,
		),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "go-storefront",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber application, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	authController := &AuthController{
		Auther:  s.auther,
		Cookies: s.cookies,
		Repo:    s.repo,
		Logger:  s.logger,
	}
	productController := &ProductController{Repo: s.repo, Logger: s.logger}
	categoryController := &CategoryController{Repo: s.repo, Logger: s.logger}
	userController := &UserController{Repo: s.repo, Logger: s.logger}

	authenticated := s.guard(nil)
	catalogManager := s.guard(func(claims tokenware.Claims) bool {
		role, ok := ParseRole(claims.Role())
		return ok && role.CanManageCatalog()
	})
	admin := s.guard(func(claims tokenware.Claims) bool {
		role, ok := ParseRole(claims.Role())
		return ok && role.CanManageUsers()
	})

	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh", authController.Refresh)
	auth.Post("/logout", authController.Logout)
	auth.Get("/me", authenticated, authController.Me)

	products := api.Group("/products")
	products.Get("/", productController.List)
	products.Post("/", catalogManager, productController.Create)
	products.Get("/:id", productController.Get)
	products.Put("/:id", catalogManager, productController.Update)
	products.Delete("/:id", catalogManager, productController.Delete)

	category := api.Group("/category")
	category.Get("/", categoryController.List)
	category.Post("/", catalogManager, categoryController.Create)
	category.Get("/:id", categoryController.Get)
	category.Put("/:id", catalogManager, categoryController.Update)
	category.Delete("/:id", admin, categoryController.Delete)

	users := api.Group("/users")
	users.Get("/", admin, userController.List)
	users.Get("/:id", authenticated, userController.Get)
	users.Put("/:id", authenticated, userController.Update)
	users.Delete("/:id", admin, userController.Delete)

	s.app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (s *Server) guard(roleChecker func(tokenware.Claims) bool) fiber.Handler {
	return tokenware.New(tokenware.Config{
		CookieName:  CookieAccessToken,
		ContextKey:  ContextKeySession,
		RoleChecker: roleChecker,
		Verify: func(raw string) (tokenware.Claims, error) {
			claims, err := s.auther.TokenService().VerifyAccess(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
	})
}

// errorHandler is the single place typed failures become transport
// responses. Auth failures collapse into uniform bodies so nothing about
// the underlying cause (unknown email, bad password, expired vs forged
// token) leaks to the client.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if goerrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		s.logger.Error("unhandled error on %s: %v", c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}

	switch richErr.Category {
	case goerrors.CategoryAuth:
		if IsTokenExpiredError(richErr) || IsMalformedError(richErr) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case goerrors.CategoryAuthz:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": richErr.Message})
	case goerrors.CategoryNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case goerrors.CategoryConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": richErr.Message})
	case goerrors.CategoryRateLimit:
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": richErr.Message})
	default:
		s.logger.Error("internal error on %s (%s): %v", c.Path(), richErr.Category, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
}

// parseUUIDParam reads a route parameter as a UUID, failing with a 400
// category error on garbage input
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, goerrors.New("invalid id", goerrors.CategoryBadInput).
			WithTextCode("INVALID_ID")
	}
	return id, nil
}

// sessionClaims pulls the guard-validated claims out of the request
func sessionClaims(c *fiber.Ctx) (tokenware.Claims, error) {
	claims, ok := tokenware.ClaimsFromContext(c, ContextKeySession)
	if !ok {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// FormatValidationErrorToMap flattens ozzo validation failures into a
// field -> message map for 400 responses
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if goerrors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
