package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jlucero/shop-api/internal/model"
)

// ProductRepo persists product records in the 'products' table.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,owner_id,name,description,price,stock,image_path,is_active,created_at,updated_at"

func scanProduct(scan func(dest ...interface{}) error) (model.Product, error) {
	var (
		p     model.Product
		image sql.NullString
	)
	err := scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if image.Valid {
		p.ImagePath = image.String
	}
	return p, err
}

// Create inserts a new product and populates its generated ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	var image interface{}
	if p.ImagePath != "" {
		image = p.ImagePath
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (owner_id, name, description, price, stock, image_path) VALUES (?,?,?,?,?,?)",
		p.OwnerID, p.Name, p.Description, p.Price, p.Stock, image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches an active product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? AND is_active=1 LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return p, ErrProductNotFound
	}
	return p, err
}

// ListActive returns all active products ordered by id.
func (r *ProductRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields to the product row. OwnerID is never
// part of the SET list: ownership is immutable after creation.
func (r *ProductRepo) Update(ctx context.Context, id uint64, name, description *string, price *float64, stock *int64, imagePath *string) error {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if name != nil {
		sets = append(sets, "name=?")
		args = append(args, *name)
	}
	if description != nil {
		sets = append(sets, "description=?")
		args = append(args, *description)
	}
	if price != nil {
		sets = append(sets, "price=?")
		args = append(args, *price)
	}
	if stock != nil {
		sets = append(sets, "stock=?")
		args = append(args, *stock)
	}
	if imagePath != nil {
		sets = append(sets, "image_path=?")
		args = append(args, *imagePath)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET "+strings.Join(sets, ",")+" WHERE id=? AND is_active=1", args...)
	return err
}

// Delete removes the product row.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock atomically takes one unit of stock. The guard `stock > 0`
// inside the UPDATE makes the read-modify-write a single statement, so two
// concurrent purchases of the last unit cannot both succeed. Returns the
// remaining stock on success, ErrOutOfStock when the row exists with zero
// stock, and ErrProductNotFound when there is no active row.
func (r *ProductRepo) DecrementStock(ctx context.Context, id uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET stock = stock - 1 WHERE id=? AND is_active=1 AND stock > 0", id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		var stock int64
		err := r.DB.QueryRowContext(ctx,
			"SELECT stock FROM products WHERE id=? AND is_active=1", id).Scan(&stock)
		if err == sql.ErrNoRows {
			return 0, ErrProductNotFound
		}
		if err != nil {
			return 0, err
		}
		return 0, ErrOutOfStock
	}
	var remaining int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT stock FROM products WHERE id=?", id).Scan(&remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}
