package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/logger"
	"github.com/jlucero/shop-api/internal/model"
	"github.com/jlucero/shop-api/internal/queue"
	"github.com/jlucero/shop-api/internal/repository"
	"github.com/jlucero/shop-api/internal/validate"
)

// ProductHandler implements the /product/ endpoints. List and Get are
// public; everything else requires a valid access token, and update/delete
// are restricted to the product's owner. InvalidateCache and
// PublishPurchase are optional hooks wired at startup; either may be nil
// (tests, or Redis/RabbitMQ unavailable) and both are best-effort.
type ProductHandler struct {
	Products        ProductStore
	Images          ImageStore
	InvalidateCache func(ctx context.Context) error
	PublishPurchase func(ctx context.Context, ev queue.ProductPurchasedEvent) error
}

func NewProductHandler(p ProductStore, img ImageStore) *ProductHandler {
	return &ProductHandler{Products: p, Images: img}
}

type productResp struct {
	ID          uint64  `json:"id"`
	User        uint64  `json:"user"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Image       *string `json:"image"`
}

func toProductResp(p model.Product) productResp {
	out := productResp{
		ID:          p.ID,
		User:        p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
	if p.ImagePath != "" {
		url := "/media/" + p.ImagePath
		out.Image = &url
	}
	return out
}

func (h *ProductHandler) invalidate(ctx context.Context) {
	if h.InvalidateCache == nil {
		return
	}
	if err := h.InvalidateCache(ctx); err != nil {
		logger.Error(nil, "product_cache_invalidate", err, nil)
	}
}

// List returns all active products. Public; served through the response
// cache when Redis is available.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.ListActive(ctx)
	if err != nil {
		logger.Error(c, "product_list", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single active product by id. Public.
func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid product id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Create creates a product owned by the requester. The body is multipart
// form data so an image can ride along; the image part is optional.
func (h *ProductHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" || len(name) > 255 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "name is required"})
	}
	description := c.FormValue("description")
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || !validate.Price(price) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "price must be a non-negative number"})
	}
	stock, err := strconv.ParseInt(c.FormValue("stock"), 10, 64)
	if err != nil || !validate.Stock(stock) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "stock must be a non-negative integer"})
	}

	var imagePath string
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		imagePath, err = h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
		}
	}

	p := model.Product{
		OwnerID:     userID,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		ImagePath:   imagePath,
		IsActive:    true,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Create(ctx, &p); err != nil {
		logger.Error(c, "product_create", err, map[string]any{"owner_id": userID})
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create product failed"})
	}

	h.invalidate(ctx)
	logger.Info(c, "product_created", map[string]any{"product_id": p.ID, "owner_id": userID})
	return c.JSON(http.StatusCreated, toProductResp(p))
}

type updateProductReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int64   `json:"stock"`
}

// Update partially updates a product. Owner-only: a mismatched requester
// gets a 403, not a 404; the existence of the product is not hidden.
// Accepts either a JSON body or multipart form data (the latter may carry
// a replacement image).
func (h *ProductHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if p.OwnerID != userID {
		logger.Security(c, "product_update_denied", map[string]any{"product_id": id, "user_id": userID})
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "you do not have permission to update this product"})
	}

	var req updateProductReq
	var imagePath *string
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid form"})
		}
		if vs := form.Value["name"]; len(vs) > 0 {
			req.Name = &vs[0]
		}
		if vs := form.Value["description"]; len(vs) > 0 {
			req.Description = &vs[0]
		}
		if vs := form.Value["price"]; len(vs) > 0 {
			v, err := strconv.ParseFloat(vs[0], 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": "price must be a number"})
			}
			req.Price = &v
		}
		if vs := form.Value["stock"]; len(vs) > 0 {
			v, err := strconv.ParseInt(vs[0], 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": "stock must be an integer"})
			}
			req.Stock = &v
		}
		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			rel, err := h.Images.Save(fh)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
			}
			imagePath = &rel
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}

	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		if v == "" || len(v) > 255 {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "name is invalid"})
		}
		req.Name = &v
	}
	if req.Price != nil && !validate.Price(*req.Price) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "price must be a non-negative number"})
	}
	if req.Stock != nil && !validate.Stock(*req.Stock) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "stock must be a non-negative integer"})
	}

	if err := h.Products.Update(ctx, id, req.Name, req.Description, req.Price, req.Stock, imagePath); err != nil {
		logger.Error(c, "product_update", err, map[string]any{"product_id": id})
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update failed"})
	}
	if imagePath != nil && p.ImagePath != "" {
		_ = h.Images.Remove(p.ImagePath)
	}

	updated, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "load product failed"})
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, toProductResp(updated))
}

// Delete removes a product. Owner-only.
func (h *ProductHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if p.OwnerID != userID {
		logger.Security(c, "product_delete_denied", map[string]any{"product_id": id, "user_id": userID})
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "you do not have permission to delete this product"})
	}

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		}
		logger.Error(c, "product_delete", err, map[string]any{"product_id": id})
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}
	_ = h.Images.Remove(p.ImagePath)

	h.invalidate(ctx)
	logger.Info(c, "product_deleted", map[string]any{"product_id": id, "owner_id": userID})
	return c.NoContent(http.StatusNoContent)
}

// Buy purchases one unit of a product. Any authenticated user may buy,
// including the owner. The decrement is a single conditional UPDATE in
// the store, so two buyers racing for the last unit get exactly one
// success and one out-of-stock.
func (h *ProductHandler) Buy(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}

	remaining, err := h.Products.DecrementStock(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOutOfStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "product is out of stock"})
		case errors.Is(err, repository.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "product not found"})
		default:
			logger.Error(c, "product_buy", err, map[string]any{"product_id": id})
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "purchase failed"})
		}
	}

	if h.PublishPurchase != nil {
		// Best effort; the publisher logs its own failures.
		_ = h.PublishPurchase(ctx, queue.ProductPurchasedEvent{
			ProductID:      p.ID,
			ProductName:    p.Name,
			OwnerID:        p.OwnerID,
			BuyerID:        userID,
			Price:          p.Price,
			RemainingStock: remaining,
			PurchasedAt:    time.Now().UTC().Format(time.RFC3339),
		})
	}

	h.invalidate(ctx)
	logger.Info(c, "product_purchased", map[string]any{
		"product_id": id, "buyer_id": userID, "remaining_stock": remaining,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"status":          "Product purchased",
		"remaining_stock": remaining,
	})
}
