package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FirstName      string     `bun:"first_name" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name" json:"last_name,omitempty"`
	Phone          string     `bun:"phone_number" json:"phone_number,omitempty"`
	AvatarURL      string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	IsActive       bool       `bun:"is_active" json:"is_active,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LastLoginAt    *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// UserProjection is the subset of a user record that is safe to return
// to a client. The password hash never leaves the storage layer.
type UserProjection struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Sanitize returns the client-safe projection of the user
func (u *User) Sanitize() UserProjection {
	return UserProjection{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      string(u.Role),
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// ProductStatus tracks catalog visibility
type ProductStatus string

const (
	ProductStatusDraft      ProductStatus = "draft"
	ProductStatusActive     ProductStatus = "active"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
	ProductStatusArchived   ProductStatus = "archived"
)

// IsValid checks the status against the known set
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusOutOfStock, ProductStatusArchived:
		return true
	default:
		return false
	}
}

// ProductImage is a catalog image reference stored inline on the product
type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Product is the catalog item model
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string         `bun:"title,notnull" json:"title"`
	Slug          string         `bun:"slug,unique,nullzero" json:"slug,omitempty"`
	Description   string         `bun:"description" json:"description,omitempty"`
	Price         float64        `bun:"price,notnull" json:"price"`
	Currency      string         `bun:"currency,notnull,default:'USD'" json:"currency,omitempty"`
	Quantity      int            `bun:"quantity" json:"quantity"`
	Status        ProductStatus  `bun:"status,notnull,default:'draft'" json:"status,omitempty"`
	Images        []ProductImage `bun:"images,type:jsonb" json:"images,omitempty"`
	Tags          []string       `bun:"tags,type:jsonb" json:"tags,omitempty"`
	CategoryID    *uuid.UUID     `bun:"category_id,type:uuid,nullzero" json:"category_id,omitempty"`
	SubcategoryID *uuid.UUID     `bun:"subcategory_id,type:uuid,nullzero" json:"subcategory_id,omitempty"`
	SellerID      *uuid.UUID     `bun:"seller_id,type:uuid,nullzero" json:"seller_id,omitempty"`
	AverageRating float64        `bun:"average_rating" json:"average_rating,omitempty"`
	ReviewsCount  int            `bun:"reviews_count" json:"reviews_count,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Category groups products at the top level of the catalog
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name"`
	Slug          string     `bun:"slug,unique,nullzero" json:"slug,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Subcategory is a second level grouping under a category
type Subcategory struct {
	bun.BaseModel `bun:"table:subcategories,alias:sub"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	Slug          string     `bun:"slug,unique,nullzero" json:"slug,omitempty"`
	CategoryID    uuid.UUID  `bun:"category_id,notnull,type:uuid" json:"category_id"`
	Category      *Category  `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
