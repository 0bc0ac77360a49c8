package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipebox/internal/model"
)

// RecipeFilter narrows recipe queries. A nil OwnerID means no owner scoping
// (admin view); an empty Type means no cuisine filter.
type RecipeFilter struct {
	OwnerID *uuid.UUID
	Type    string
}

// RecipeRepository defines recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	CreateBatch(ctx context.Context, recipes []model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Find(ctx context.Context, filter RecipeFilter, offset, limit int) ([]model.Recipe, error)
	ListAll(ctx context.Context) ([]model.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository builds a GORM-backed recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// CreateBatch inserts all recipes in a single operation. Either every row
// lands or none does; the CSV import relies on that.
func (r *recipeRepository) CreateBatch(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&recipes).Error
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error
}

func (r *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Find returns a page of recipes matching the filter, owners preloaded.
// A negative limit disables pagination.
func (r *recipeRepository) Find(ctx context.Context, filter RecipeFilter, offset, limit int) ([]model.Recipe, error) {
	q := r.db.WithContext(ctx).Preload("CreatedBy")
	if filter.OwnerID != nil {
		q = q.Where("created_by_id = ?", *filter.OwnerID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ListAll(ctx context.Context) ([]model.Recipe, error) {
	return r.Find(ctx, RecipeFilter{}, 0, -1)
}
