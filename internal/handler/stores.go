package handler

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/jlucero/shop-api/internal/model"
)

// Storage interfaces consumed by the handlers. The repository package
// provides the MySQL implementations; tests substitute in-memory fakes.
// Keeping all storage access behind these interfaces is what lets the
// handlers stay free of SQL.

// UserStore is the credential store: persisted user records with hashed
// passwords.
type UserStore interface {
	Create(ctx context.Context, firstName, lastName, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint64, firstName, lastName, email *string) error
	Delete(ctx context.Context, id uint64) error
}

// ProductStore persists products and performs the atomic purchase decrement.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id uint64, name, description *string, price *float64, stock *int64, imagePath *string) error
	Delete(ctx context.Context, id uint64) error
	DecrementStock(ctx context.Context, id uint64) (int64, error)
}

// TokenStore is the refresh-token revocation blacklist.
type TokenStore interface {
	Blacklist(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	IsBlacklisted(ctx context.Context, tokenHash string) (bool, error)
}

// ImageStore persists uploaded product images and returns the stored
// path relative to the media root.
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(rel string) error
}
