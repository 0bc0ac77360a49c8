package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/service"
)

// RecipeHandler handles recipe CRUD and the CSV import/export endpoints.
type RecipeHandler struct {
	recipeService service.RecipeService
	csvService    service.CSVService
	uploadDir     string
}

// NewRecipeHandler creates a new recipe handler. uploadDir is where incoming
// CSV uploads are parked until the import finishes.
func NewRecipeHandler(recipeService service.RecipeService, csvService service.CSVService, uploadDir string) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		csvService:    csvService,
		uploadDir:     uploadDir,
	}
}

// RecipeRequest represents the mutable recipe fields for create and update.
type RecipeRequest struct {
	Title        string `json:"title" validate:"required"`
	Ingredients  string `json:"ingredients" validate:"required"`
	Type         string `json:"type" validate:"required"`
	Instructions string `json:"instructions" validate:"required"`
	CookingTime  int    `json:"cookingTime" validate:"required,gt=0"`
	Image        string `json:"image"`
}

func (r RecipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Type:         r.Type,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
		Image:        r.Image,
	}
}

// Create godoc
// @Summary Create a recipe owned by the caller
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe fields"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /Recipes/register [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	identity := auth.CurrentUser(c)

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrValidation
	}

	recipe, err := h.recipeService.Create(c.Request().Context(), identity, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, recipe, "New Recipe added successfully")
}

// Update godoc
// @Summary Update a recipe (owner or admin only)
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Param request body RecipeRequest true "Recipe fields"
// @Success 200 {object} Response
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /Recipes/update/{id} [patch]
func (h *RecipeHandler) Update(c echo.Context) error {
	identity := auth.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ErrRecipeNotFound
	}

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrValidation
	}

	recipe, err := h.recipeService.Update(c.Request().Context(), identity, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, recipe, "Recipe updated successfully")
}

// Delete godoc
// @Summary Delete a recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /Recipes/delete/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ErrRecipeNotFound
	}

	recipe, err := h.recipeService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, recipe, "Recipe deleted successfully")
}

// GetAllRecipes godoc
// @Summary Public listing of every recipe
// @Tags recipes
// @Produce json
// @Success 200 {object} Response
// @Router /Recipes/getAllRecipes [get]
func (h *RecipeHandler) GetAllRecipes(c echo.Context) error {
	recipes, err := h.recipeService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, recipes, "All recipes retrieved successfully")
}

// GetRecipes godoc
// @Summary Paginated recipe listing scoped to the caller unless admin
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Param type query string false "Cuisine type filter"
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /Recipes/getRecipes [get]
func (h *RecipeHandler) GetRecipes(c echo.Context) error {
	identity := auth.CurrentUser(c)

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	recipes, err := h.recipeService.List(c.Request().Context(), identity, page, c.QueryParam("type"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, recipes, "Recipes retrieved successfully")
}

// GetUserRecipes godoc
// @Summary List the caller's recipes (admins see all)
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} ErrorResponse
// @Router /Recipes/getUserRecipes [get]
func (h *RecipeHandler) GetUserRecipes(c echo.Context) error {
	identity := auth.CurrentUser(c)

	recipes, err := h.recipeService.ListForUser(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, recipes, "User recipes retrieved successfully")
}

// Import godoc
// @Summary Bulk-import recipes from an uploaded CSV file
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /Recipes/import [post]
func (h *RecipeHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewHTTPError(http.StatusBadRequest, "File not found. Please upload a CSV file.", "VALIDATION_ERROR")
	}

	path, err := h.saveUpload(fileHeader)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	// the upload never outlives the request, success or failure
	defer os.Remove(path)

	count, err := h.csvService.Import(c.Request().Context(), path)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]int{"imported": count}, "Recipes imported successfully")
}

// Export godoc
// @Summary Export all recipes as a CSV stream
// @Tags recipes
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV data"
// @Failure 401 {object} ErrorResponse
// @Router /Recipes/export [get]
func (h *RecipeHandler) Export(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="recipes.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	return h.csvService.Export(c.Request().Context(), c.Response())
}

// saveUpload stores the multipart file under the upload dir with a unique
// name and returns its path.
func (h *RecipeHandler) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.uploadDir, "upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
