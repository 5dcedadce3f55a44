package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/config"
	"github.com/jlucero/shop-api/internal/logger"
	"github.com/jlucero/shop-api/internal/repository"
	"github.com/jlucero/shop-api/internal/validate"
)

// UserHandler implements the /user/ endpoints over the credential store.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, u UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type updateUserReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// List returns the public profiles of all active users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListActive(ctx)
	if err != nil {
		logger.Error(c, "user_list", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new user. Open to unauthenticated callers; this is
// the registration endpoint. The password is hashed inside the store and
// never appears in the response or the logs.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	first, ok := validate.Name(req.FirstName)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "first_name is invalid"})
	}
	last, ok := validate.Name(req.LastName)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "last_name is invalid"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email is invalid"})
	}
	if !validate.Password(req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, first, last, email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email already exists"})
		}
		logger.Error(c, "user_create", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "create user failed"})
	}

	logger.Info(c, "user_created", map[string]any{"user_id": id})
	return c.JSON(http.StatusCreated, userResp{
		ID: id, FirstName: first, LastName: last, Email: email,
	})
}

// Update partially updates a profile. Only the account holder may change
// their own record; anyone else gets a 403 regardless of whether the
// target exists.
func (h *UserHandler) Update(c echo.Context) error {
	requester, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid user id"})
	}
	if requester != id {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "you do not have permission to update this user"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if req.FirstName != nil {
		v, ok := validate.Name(*req.FirstName)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "first_name is invalid"})
		}
		req.FirstName = &v
	}
	if req.LastName != nil {
		v, ok := validate.Name(*req.LastName)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "last_name is invalid"})
		}
		req.LastName = &v
	}
	if req.Email != nil {
		v, ok := validate.Email(*req.Email)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email is invalid"})
		}
		req.Email = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, id, req.FirstName, req.LastName, req.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email already exists"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "user not found"})
		default:
			logger.Error(c, "user_update", err, map[string]any{"user_id": id})
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "update failed"})
		}
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Delete removes an account. Self-only, hard delete; products owned by
// the user go with it via the schema's cascade.
func (h *UserHandler) Delete(c echo.Context) error {
	requester, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid user id"})
	}
	if requester != id {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "you do not have permission to delete this user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "user not found"})
		}
		logger.Error(c, "user_delete", err, map[string]any{"user_id": id})
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "delete failed"})
	}

	logger.Info(c, "user_deleted", map[string]any{"user_id": id})
	return c.NoContent(http.StatusNoContent)
}
