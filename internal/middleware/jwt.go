package middleware // middleware contains reusable HTTP middleware functions

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jlucero/shop-api/internal/utils"
)

// Context keys under which JWTAuth stores the authenticated identity.
const (
    CtxUserID = "user_id"
    CtxEmail  = "email"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity into the request context. The provided
// secret must match the one used when issuing tokens. Protected handlers
// read the identity via c.Get(middleware.CtxUserID).
//
// Expired and otherwise-invalid tokens both produce 401; the body detail
// differs so clients know whether a refresh is worth attempting.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccess(secret, raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid token"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxEmail, claims.Email)
            return next(c)
        }
    }
}
