package storefront

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Categories is the category repository
type Categories interface {
	List(ctx context.Context) ([]*Category, error)
	GetByIDOrNotFound(ctx context.Context, id uuid.UUID) (*Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	CreateEntry(ctx context.Context, record *Category) (*Category, error)
	CreateSubcategory(ctx context.Context, record *Subcategory) (*Subcategory, error)
	UpdateEntry(ctx context.Context, record *Category) (*Category, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	Subcategories(ctx context.Context, categoryID uuid.UUID) ([]*Subcategory, error)
}

type categories struct {
	repository.Repository[*Category]
	db *bun.DB
}

var _ Categories = (*categories)(nil)

// NewCategoriesRepository builds the category repository over a bun handle
func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &categories{
		Repository: repo,
		db:         db,
	}
}

func (a *categories) List(ctx context.Context) ([]*Category, error) {
	var records []*Category
	err := a.db.NewSelect().
		Model(&records).
		Order("name ASC").
		Scan(ctx)

	return records, err
}

func (a *categories) GetByIDOrNotFound(ctx context.Context, id uuid.UUID) (*Category, error) {
	record := &Category{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *categories) ExistsByName(ctx context.Context, name string) (bool, error) {
	return a.db.NewSelect().
		Model((*Category)(nil)).
		Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Exists(ctx)
}

func (a *categories) CreateEntry(ctx context.Context, record *Category) (*Category, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Slug == "" {
		if record.Slug = Slugify(record.Name); record.Slug == "" {
			record.Slug = record.ID.String()
		}
	}

	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *categories) CreateSubcategory(ctx context.Context, record *Subcategory) (*Subcategory, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Slug == "" {
		if record.Slug = Slugify(record.Name); record.Slug == "" {
			record.Slug = record.ID.String()
		}
	}

	_, err := a.db.NewInsert().
		Model(record).
		Exec(ctx)

	return record, err
}

func (a *categories) UpdateEntry(ctx context.Context, record *Category) (*Category, error) {
	return a.Repository.UpdateTx(ctx, a.db, record, repository.UpdateByID(record.ID.String()))
}

func (a *categories) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Category)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *categories) Subcategories(ctx context.Context, categoryID uuid.UUID) ([]*Subcategory, error) {
	var records []*Subcategory
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.category_id = ?", categoryID).
		Order("name ASC").
		Scan(ctx)

	return records, err
}
