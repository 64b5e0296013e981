package storefront

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Products is the catalog item repository
type Products interface {
	repository.Repository[*Product]

	Search(ctx context.Context, query string) ([]*Product, error)
	GetByIDOrNotFound(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateEntry(ctx context.Context, record *Product) (*Product, error)
	UpdateEntry(ctx context.Context, record *Product) (*Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var _ Products = (*products)(nil)

// NewProductsRepository builds the product repository over a bun handle
func NewProductsRepository(db *bun.DB) Products {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

// Search lists products, optionally narrowed by a case-insensitive
// substring match across title, description, and tags.
func (a *products) Search(ctx context.Context, query string) ([]*Product, error) {
	var records []*Product

	q := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC")

	if needle := strings.TrimSpace(query); needle != "" {
		pattern := "%" + strings.ToLower(needle) + "%"
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("lower(?TableAlias.title) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.description) LIKE ?", pattern).
				WhereOr("lower(?TableAlias.tags) LIKE ?", pattern)
		})
	}

	err := q.Scan(ctx)
	return records, err
}

func (a *products) GetByIDOrNotFound(ctx context.Context, id uuid.UUID) (*Product, error) {
	record := &Product{}
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

func (a *products) CreateEntry(ctx context.Context, record *Product) (*Product, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Slug == "" {
		if record.Slug = Slugify(record.Title); record.Slug == "" {
			record.Slug = record.ID.String()
		}
	}

	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *products) UpdateEntry(ctx context.Context, record *Product) (*Product, error) {
	return a.Repository.UpdateTx(ctx, a.db, record, repository.UpdateByID(record.ID.String()))
}

func (a *products) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Product)(nil)).
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
