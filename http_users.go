package storefront

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// UserController exposes account administration. Listing and deletion are
// admin only; a user may read and update their own profile.
type UserController struct {
	Repo   RepositoryManager
	Logger Logger
}

// UserUpdateRequest carries the profile fields a user may change about
// themselves. Email, role, and credentials are not edited through here.
type UserUpdateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

// Validate implements the repository.Validator interface
func (r UserUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 120)),
		validation.Field(&r.LastName, validation.Length(0, 120)),
		validation.Field(&r.AvatarURL, validation.Length(0, 500)),
	)
}

// List returns every account, sanitized
func (u *UserController) List(c *fiber.Ctx) error {
	records, err := u.Repo.Users().List(c.Context())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}

	items := make([]UserProjection, 0, len(records))
	for _, record := range records {
		items = append(items, record.Sanitize())
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// Get returns a sanitized account
func (u *UserController) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := u.Repo.Users().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": record.Sanitize(),
	})
}

// Update changes profile fields. Only the account owner or an admin may
// do it.
func (u *UserController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	claims, err := sessionClaims(c)
	if err != nil {
		return err
	}

	role, _ := ParseRole(claims.Role())
	if claims.UserID() != id.String() && !role.CanManageUsers() {
		return goerrors.New("cannot edit another user", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden)
	}

	payload := UserUpdateRequest{}
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

	record, err := u.Repo.Users().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	record.FirstName = payload.FirstName
	record.LastName = payload.LastName
	record.Phone = payload.Phone
	record.AvatarURL = payload.AvatarURL

	record, err = u.Repo.Users().UpdateProfile(c.Context(), record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user")
	}

	return c.JSON(fiber.Map{
		"user": record.Sanitize(),
	})
}

// Delete removes an account
func (u *UserController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := u.Repo.Users().DeleteByID(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
