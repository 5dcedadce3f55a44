package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/handler"
	"github.com/jlucero/shop-api/internal/middleware"
)

// RegisterRoutes registers routes that carry no business logic. Currently
// it exposes only a health check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /authentication/ endpoints. None of them sit
// behind the JWT middleware: login and refresh mint tokens, and logout is
// deliberately lenient so that a client with nothing but a (possibly
// stale) refresh token can always terminate its session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/authentication")
	g.POST("/login/", a.Login)
	g.POST("/logout/", a.Logout)
	g.POST("/refresh_token/", a.RefreshToken)
}

// RegisterUsers registers the /user/ endpoints. Registration is public;
// listing requires authentication, and update/delete are additionally
// restricted to the account holder inside the handlers.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	g := e.Group("/user")
	g.POST("/create_user/", u.Create)
	g.GET("/", u.List, auth)
	g.PATCH("/:id/", u.Update, auth)
	g.DELETE("/:id/", u.Delete, auth)
}

// RegisterProducts registers the /product/ endpoints. Reads are public and
// flow through the response cache; every mutation (and purchase) requires
// a valid access token. Ownership checks live in the handlers so a
// non-owner gets a 403 rather than a 404.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)

	g := e.Group("/product")
	g.GET("/", p.List, cache)
	g.GET("/:id/", p.Get, cache)
	g.POST("/create_product/", p.Create, auth)
	g.PATCH("/:id/", p.Update, auth)
	g.DELETE("/:id/", p.Delete, auth)
	g.POST("/:id/buy/", p.Buy, auth)
}
