package storefront

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ProductController exposes catalog item CRUD. Reads are public; writes
// require a seller or admin session.
type ProductController struct {
	Repo   RepositoryManager
	Logger Logger
}

// ProductRequest is the create/update payload for a catalog item
type ProductRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	Currency      string         `json:"currency"`
	Quantity      int            `json:"quantity"`
	Status        string         `json:"status"`
	Images        []ProductImage `json:"images"`
	Tags          []string       `json:"tags"`
	CategoryID    *uuid.UUID     `json:"category_id"`
	SubcategoryID *uuid.UUID     `json:"subcategory_id"`
}

// Validate implements the repository.Validator interface
func (r ProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.Currency, validation.Length(3, 3)),
		validation.Field(&r.Status, validation.By(validProductStatus)),
	)
}

func validProductStatus(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if !ProductStatus(raw).IsValid() {
		return validation.NewError("validation_status", "must be a known product status")
	}
	return nil
}

// List returns the catalog, optionally narrowed by the ?q= substring
// search over title, description, and tags
func (p *ProductController) List(c *fiber.Ctx) error {
	items, err := p.Repo.Products().Search(c.Context(), c.Query("q"))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list products")
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// Get returns a single catalog item
func (p *ProductController) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := p.Repo.Products().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(item)
}

// Create adds a catalog item owned by the session seller
func (p *ProductController) Create(c *fiber.Ctx) error {
	payload := ProductRequest{}
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

	claims, err := sessionClaims(c)
	if err != nil {
		return err
	}

	sellerID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return ErrTokenMalformed
	}

	record := payload.apply(&Product{SellerID: &sellerID})
	if record.Status == "" {
		record.Status = ProductStatusDraft
	}
	if record.Currency == "" {
		record.Currency = "USD"
	}

	item, err := p.Repo.Products().CreateEntry(c.Context(), record)
	if err != nil {
		if isUniqueViolation(err) {
			return goerrors.New("product slug already in use", goerrors.CategoryConflict).
				WithTextCode("SLUG_IN_USE")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create product")
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update replaces the mutable fields of a catalog item
func (p *ProductController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := ProductRequest{}
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

	record, err := p.Repo.Products().GetByIDOrNotFound(c.Context(), id)
	if err != nil {
		return err
	}

	record = payload.apply(record)

	item, err := p.Repo.Products().UpdateEntry(c.Context(), record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update product")
	}

	return c.JSON(item)
}

// Delete removes a catalog item
func (p *ProductController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := p.Repo.Products().DeleteByID(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// apply copies the request fields onto the record, leaving ownership and
// timestamps alone
func (r ProductRequest) apply(record *Product) *Product {
	record.Title = r.Title
	record.Description = r.Description
	record.Price = r.Price
	record.Quantity = r.Quantity
	record.Images = r.Images
	record.Tags = r.Tags
	record.CategoryID = r.CategoryID
	record.SubcategoryID = r.SubcategoryID

	if r.Currency != "" {
		record.Currency = r.Currency
	}
	if r.Status != "" {
		record.Status = ProductStatus(r.Status)
	}

	return record
}
