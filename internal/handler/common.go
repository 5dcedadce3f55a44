package handler // handler defines the HTTP handlers behind the router

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/middleware"
	"github.com/jlucero/shop-api/internal/model"
)

// userResp is the public user profile. It is the only user shape ever
// serialized; the password hash has no way to leak through it.
type userResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// getUserID extracts the authenticated user id placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get(middleware.CtxUserID)
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}
