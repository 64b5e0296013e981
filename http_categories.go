package storefront

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// CategoryController exposes catalog grouping CRUD. Reads are public;
// creation and edits require seller or admin, deletion admin only.
type CategoryController struct {
	Repo   RepositoryManager
	Logger Logger
}

// CategoryRequest is the create/update payload for a category. The
// optional subcategory names are only honored on create.
type CategoryRequest struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Validate implements the repository.Validator interface
func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Subcategories, validation.Each(validation.Required, validation.Length(1, 120))),
	)
}

// List returns every category ordered by name
func (g *CategoryController) List(c *fiber.Ctx) error {
	items, err := g.Repo.Categories().List(c.Context())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list categories")
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// Get returns a category with its subcategories
func (g *CategoryController) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := g.Repo.Categories().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	subs, err := g.Repo.Categories().Subcategories(c.Context(), id)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load subcategories")
	}

	return c.JSON(fiber.Map{
		"category":      item,
		"subcategories": subs,
	})
}

// Create adds a category, rejecting duplicate names with 409. Any
// subcategory names in the payload are created underneath it.
func (g *CategoryController) Create(c *fiber.Ctx) error {
	payload := CategoryRequest{}
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

	taken, err := g.Repo.Categories().ExistsByName(c.Context(), payload.Name)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check category name")
	}
	if taken {
		return errCategoryNameTaken()
	}

	item, err := g.Repo.Categories().CreateEntry(c.Context(), &Category{Name: payload.Name})
	if err != nil {
		if isUniqueViolation(err) {
			return errCategoryNameTaken()
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create category")
	}

	var subs []*Subcategory
	for _, name := range payload.Subcategories {
		sub, err := g.Repo.Categories().CreateSubcategory(c.Context(), &Subcategory{
			Name:       name,
			CategoryID: item.ID,
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create subcategory")
		}
		subs = append(subs, sub)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"category":      item,
		"subcategories": subs,
	})
}

// Update renames a category
func (g *CategoryController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := CategoryRequest{}
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

	record, err := g.Repo.Categories().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	record.Name = payload.Name

	item, err := g.Repo.Categories().UpdateEntry(c.Context(), record)
	if err != nil {
		if isUniqueViolation(err) {
			return errCategoryNameTaken()
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update category")
	}

	return c.JSON(item)
}

// Delete removes a category
func (g *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := g.Repo.Categories().DeleteByID(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Category deleted",
	})
}

func errCategoryNameTaken() error {
	return goerrors.New("category name already in use", goerrors.CategoryConflict).
		WithTextCode("CATEGORY_NAME_IN_USE")
}
