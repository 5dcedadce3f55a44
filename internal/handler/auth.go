package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jlucero/shop-api/internal/config"
    "github.com/jlucero/shop-api/internal/logger"
    "github.com/jlucero/shop-api/internal/repository"
    "github.com/jlucero/shop-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints: credential
// store, token blacklist and the signing configuration.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}
type refreshReq struct {
	Refresh string `json:"refresh"`
}

type loginResp struct {
	Refresh string   `json:"refresh"`
	Access  string   `json:"access"`
	User    userResp `json:"user"`
}

// Login verifies credentials and returns a fresh token pair with the
// public profile. Unknown email, inactive account and wrong password all
// answer with the same 401 body; the distinction exists only in the
// structured logs so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Security(c, "login_failed", map[string]any{"reason": "user not found", "email": req.Email})
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid credentials"})
		}
		logger.Error(c, "login_query", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if !u.IsActive {
		logger.Security(c, "login_failed", map[string]any{"reason": "inactive account", "user_id": u.ID})
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid credentials"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		logger.Security(c, "login_failed", map[string]any{"reason": "incorrect password", "user_id": u.ID})
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.ID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "issue refresh failed"})
	}

	logger.Info(c, "login", map[string]any{"user_id": u.ID})
	return c.JSON(http.StatusOK, loginResp{
		Refresh: refresh.Token,
		Access:  access.Token,
		User:    toUserResp(u),
	})
}

// Logout blacklists the supplied refresh token. The flow is deliberately
// lenient: a missing or malformed token still yields a 200 so logging out
// never fails from the caller's point of view. Revoking the same token
// twice is also a success; the blacklist insert is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		return c.JSON(http.StatusOK, echo.Map{"detail": "successfully logged out"})
	}

	claims, err := utils.ParseRefresh(h.Cfg.JWTSecret, raw)
	if err != nil {
		// Best effort: a token we cannot parse cannot mint access tokens
		// either, so there is nothing to revoke.
		logger.Security(c, "logout_unparseable_token", nil)
		return c.JSON(http.StatusOK, echo.Map{"detail": "successfully logged out"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Blacklist(ctx, claims.UserID, utils.HashRefreshRaw(raw), claims.ExpiresAt); err != nil {
		logger.Error(c, "logout_blacklist", err, map[string]any{"user_id": claims.UserID})
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "logout failed"})
	}

	logger.Info(c, "logout", map[string]any{"user_id": claims.UserID})
	return c.JSON(http.StatusOK, echo.Map{"detail": "successfully logged out"})
}

// RefreshToken validates a refresh token and mints a new access token for
// the embedded identity. The refresh token itself is not rotated; it keeps
// minting access tokens until it is revoked or expires.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Refresh) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "refresh is required"})
	}
	raw := strings.TrimSpace(req.Refresh)

	claims, err := utils.ParseRefresh(h.Cfg.JWTSecret, raw)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "token expired"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	revoked, err := h.Tokens.IsBlacklisted(ctx, utils.HashRefreshRaw(raw))
	if err != nil {
		logger.Error(c, "refresh_blacklist_check", err, nil)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "query failed"})
	}
	if revoked {
		logger.Security(c, "refresh_rejected", map[string]any{"reason": "blacklisted", "user_id": claims.UserID})
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "token blacklisted"})
	}

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access": access.Token})
}
