package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// pageSize is the fixed page size for the paginated listing.
const pageSize = 10

// RecipeInput carries the mutable recipe fields.
type RecipeInput struct {
	Title        string
	Ingredients  string
	Type         string
	Instructions string
	CookingTime  int
	Image        string
}

// RecipeService exposes recipe operations with owner/admin access control.
type RecipeService interface {
	Create(ctx context.Context, owner *model.User, input RecipeInput) (*model.Recipe, error)
	List(ctx context.Context, identity *model.User, page int, typeFilter string) ([]model.Recipe, error)
	ListAll(ctx context.Context) ([]model.Recipe, error)
	ListForUser(ctx context.Context, identity *model.User) ([]model.Recipe, error)
	Update(ctx context.Context, identity *model.User, id uuid.UUID, input RecipeInput) (*model.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
}

type recipeService struct {
	recipes repository.RecipeRepository
}

// NewRecipeService creates the recipe service.
func NewRecipeService(recipes repository.RecipeRepository) RecipeService {
	return &recipeService{recipes: recipes}
}

func validateInput(input RecipeInput) error {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Ingredients) == "" ||
		strings.TrimSpace(input.Type) == "" ||
		strings.TrimSpace(input.Instructions) == "" ||
		strings.TrimSpace(input.Image) == "" {
		return apperrors.ErrValidation
	}
	if !model.ValidRecipeType(input.Type) {
		return apperrors.ErrInvalidRecipeType
	}
	if input.CookingTime <= 0 {
		return apperrors.ErrInvalidCookingTime
	}
	return nil
}

func (s *recipeService) Create(ctx context.Context, owner *model.User, input RecipeInput) (*model.Recipe, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Type:         input.Type,
		Instructions: input.Instructions,
		CookingTime:  input.CookingTime,
		Image:        input.Image,
		CreatedByID:  owner.ID,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// List returns a fixed-size page of recipes. Non-admin identities are always
// scoped to their own recipes server-side; the type filter narrows further.
func (s *recipeService) List(ctx context.Context, identity *model.User, page int, typeFilter string) ([]model.Recipe, error) {
	if page < 1 {
		page = 1
	}

	filter := repository.RecipeFilter{Type: typeFilter}
	if !identity.IsAdmin() {
		filter.OwnerID = &identity.ID
	}

	return s.recipes.Find(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *recipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	return s.recipes.ListAll(ctx)
}

func (s *recipeService) ListForUser(ctx context.Context, identity *model.User) ([]model.Recipe, error) {
	filter := repository.RecipeFilter{}
	if !identity.IsAdmin() {
		filter.OwnerID = &identity.ID
	}
	return s.recipes.Find(ctx, filter, 0, -1)
}

// Update replaces the recipe fields. Only the owner or an admin may update;
// the image is only replaced when a new one is provided.
func (s *recipeService) Update(ctx context.Context, identity *model.User, id uuid.UUID, input RecipeInput) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, err
	}

	if recipe.CreatedByID != identity.ID && !identity.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	image := input.Image
	if strings.TrimSpace(image) == "" {
		image = recipe.Image
	}
	if err := validateInput(RecipeInput{
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Type:         input.Type,
		Instructions: input.Instructions,
		CookingTime:  input.CookingTime,
		Image:        image,
	}); err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.Ingredients = input.Ingredients
	recipe.Type = input.Type
	recipe.Instructions = input.Instructions
	recipe.CookingTime = input.CookingTime
	recipe.Image = image

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes a recipe after an existence check only. Ownership is not
// checked here: any authenticated user may delete any existing recipe.
func (s *recipeService) Delete(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, err
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete recipe: %w", err)
	}
	return recipe, nil
}
