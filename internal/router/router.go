package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"recipebox/internal/auth"
	"recipebox/internal/config"
	"recipebox/internal/handler"
)

// Register wires routes and middleware. The identity middleware runs on the
// whole API group and never rejects by itself; RequireAuth guards the routes
// that need an identity.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	identity echo.MiddlewareFunc,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", identity)

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/logout", authHandler.Logout)
	users.GET("/getUser", authHandler.GetUser)
	users.GET("/getAllUsers", userHandler.GetAllUsers, auth.RequireAuth)
	users.PATCH("/update/:id", userHandler.Update, auth.RequireAuth)
	users.DELETE("/delete/:id", userHandler.Delete, auth.RequireAuth)
	users.PATCH("/updatePushToken", userHandler.UpdatePushToken, auth.RequireAuth)

	recipes := api.Group("/Recipes")
	recipes.GET("/getAllRecipes", recipeHandler.GetAllRecipes)
	recipes.POST("/register", recipeHandler.Create, auth.RequireAuth)
	recipes.PATCH("/update/:id", recipeHandler.Update, auth.RequireAuth)
	recipes.DELETE("/delete/:id", recipeHandler.Delete, auth.RequireAuth)
	recipes.GET("/getRecipes", recipeHandler.GetRecipes, auth.RequireAuth)
	recipes.GET("/getUserRecipes", recipeHandler.GetUserRecipes, auth.RequireAuth)
	recipes.POST("/import", recipeHandler.Import, auth.RequireAuth)
	recipes.GET("/export", recipeHandler.Export, auth.RequireAuth)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
