package model

import "time"

// Product represents a sellable item persisted in the `products` table.
// Each product belongs to the user that created it; OwnerID is immutable
// after creation and only the owner may update or delete the row.
// Stock is kept non-negative by the repository's conditional decrement.
type Product struct {
	ID          uint64    // products.id
	OwnerID     uint64    // products.owner_id (references users.id)
	Name        string    // products.name
	Description string    // products.description
	Price       float64   // products.price (DECIMAL(10,2), never negative)
	Stock       int64     // products.stock (never negative)
	ImagePath   string    // products.image_path, empty when no image was uploaded
	IsActive    bool      // products.is_active
	CreatedAt   time.Time // products.created_at
	UpdatedAt   time.Time // products.updated_at
}
