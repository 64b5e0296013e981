package storefront

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// AuthController exposes the session lifecycle: register, login, refresh,
// logout, and the current-user lookup.
type AuthController struct {
	Auther  *Authenticator
	Cookies *CookieManager
	Repo    RepositoryManager
	Logger  Logger
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements the repository.Validator interface
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the registration payload. Role is optional and may
// only request buyer or seller; admin accounts are provisioned out of band.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// Validate implements the repository.Validator interface
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&r.FirstName, validation.Length(0, 120)),
		validation.Field(&r.LastName, validation.Length(0, 120)),
		validation.Field(&r.Phone, validation.By(validPhoneNumber)),
		validation.Field(&r.Role, validation.In(string(RoleBuyer), string(RoleSeller))),
	)
}

func validPhoneNumber(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return validation.NewError("validation_phone", "must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return validation.NewError("validation_phone", "must be a valid phone number")
	}
	return nil
}

// Register creates the account, opens a session, and responds 201 with
// the sanitized user
func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := RegisterRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": FormatValidationErrorToMap(err),
		})
	}

	role, _ := ParseRole(payload.Role)

	user, pair, err := a.Auther.Register(c.Context(), RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Role:      role,
	})
	if err != nil {
		return err
	}

	a.Cookies.Attach(c, pair.Access, pair.Refresh)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.Sanitize(),
	})
}

// Login verifies the credentials and opens a session. Every failure mode
// funnels through the central error handler so the 401 body is uniform.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": FormatValidationErrorToMap(err),
		})
	}

	user, pair, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	a.Cookies.Attach(c, pair.Access, pair.Refresh)

	return c.JSON(fiber.Map{
		"user": user.Sanitize(),
	})
}

// Refresh exchanges the refresh cookie for a new access cookie. The
// refresh cookie itself is left untouched so its original expiry holds.
func (a *AuthController) Refresh(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Cookies(CookieRefreshToken))
	if raw == "" {
		return ErrTokenMalformed
	}

	user, access, err := a.Auther.Refresh(c.Context(), raw)
	if err != nil {
		return err
	}

	a.Cookies.AttachAccess(c, access)

	return c.JSON(fiber.Map{
		"user": user.Sanitize(),
	})
}

// Logout clears the session cookies. It succeeds whether or not a
// session was open.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	a.Cookies.Clear(c)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// Me returns the sanitized profile of the session owner
func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ErrTokenMalformed
	}

	user, err := a.Repo.Users().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrTokenMalformed
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load session user")
	}

	return c.JSON(fiber.Map{
		"user": user.Sanitize(),
	})
}
