package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// exportHeader is the fixed column set written by Export and accepted by
// Import. Import additionally accepts instructions, cookingTime and image
// columns; timestamps are RFC3339.
var exportHeader = []string{"title", "ingredients", "type", "createdBy", "createdAt", "updatedAt"}

// CSVService bulk-imports recipes from an uploaded CSV file and streams the
// stored set back out as CSV.
type CSVService interface {
	Import(ctx context.Context, path string) (int, error)
	Export(ctx context.Context, w io.Writer) error
}

type csvService struct {
	recipes repository.RecipeRepository
	users   repository.UserRepository
}

// NewCSVService creates the CSV import/export service.
func NewCSVService(recipes repository.RecipeRepository, users repository.UserRepository) CSVService {
	return &csvService{recipes: recipes, users: users}
}

// Import parses the CSV file at path row by row, resolves every createdBy
// user name before any write, and inserts all rows in one batch. If any row
// names an unknown user the whole import fails and nothing is inserted.
// It returns the number of rows inserted.
func (s *csvService) Import(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, apperrors.NewHTTPError(http.StatusBadRequest, "Empty or unreadable CSV file", "VALIDATION_ERROR")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"title", "ingredients", "type", "createdBy"} {
		if _, ok := columns[required]; !ok {
			return 0, apperrors.NewHTTPError(http.StatusBadRequest, "Missing required CSV column: "+required, "VALIDATION_ERROR")
		}
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	// owner lookups are memoized per name so repeated owners cost one query
	owners := make(map[string]uuid.UUID)
	resolve := func(name string) (uuid.UUID, error) {
		if id, ok := owners[name]; ok {
			return id, nil
		}
		user, err := s.users.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.ErrInvalidReference
			}
			return uuid.Nil, err
		}
		owners[name] = user.ID
		return user.ID, nil
	}

	var records []model.Recipe
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, apperrors.NewHTTPError(http.StatusBadRequest, "Malformed CSV row", "VALIDATION_ERROR")
		}

		ownerID, err := resolve(field(row, "createdBy"))
		if err != nil {
			return 0, err
		}

		recipeType := field(row, "type")
		if !model.ValidRecipeType(recipeType) {
			return 0, apperrors.ErrInvalidRecipeType
		}

		record := model.Recipe{
			Title:        field(row, "title"),
			Ingredients:  field(row, "ingredients"),
			Type:         recipeType,
			Instructions: field(row, "instructions"),
			Image:        field(row, "image"),
			CreatedByID:  ownerID,
		}
		if raw := field(row, "cookingTime"); raw != "" {
			minutes, err := strconv.Atoi(raw)
			if err != nil || minutes <= 0 {
				return 0, apperrors.ErrInvalidCookingTime
			}
			record.CookingTime = minutes
		}
		if ts, err := time.Parse(time.RFC3339, field(row, "createdAt")); err == nil {
			record.CreatedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339, field(row, "updatedAt")); err == nil {
			record.UpdatedAt = ts
		}

		records = append(records, record)
	}

	if err := s.recipes.CreateBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("insert recipes: %w", err)
	}
	return len(records), nil
}

// Export writes all recipes to w as CSV, one row at a time, with owner names
// resolved and RFC3339 timestamps. Recipes whose owner no longer exists get
// an empty createdBy column.
func (s *csvService) Export(ctx context.Context, w io.Writer) error {
	recipes, err := s.recipes.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, recipe := range recipes {
		ownerName := ""
		if recipe.CreatedBy != nil {
			ownerName = recipe.CreatedBy.Name
		}
		row := []string{
			recipe.Title,
			recipe.Ingredients,
			recipe.Type,
			ownerName,
			recipe.CreatedAt.UTC().Format(time.RFC3339),
			recipe.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
