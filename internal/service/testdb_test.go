package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipebox/internal/model"
	"recipebox/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open in-memory db")
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Recipe{}), "migrate tables")
	return db
}

func createTestUser(t *testing.T, users repository.UserRepository, name, email, role string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{Name: name, Email: email, PasswordHash: string(hashed), Role: role}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func createTestRecipe(t *testing.T, recipes repository.RecipeRepository, owner *model.User, title, cuisine string) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Title:        title,
		Ingredients:  "some ingredients",
		Type:         cuisine,
		Instructions: "some instructions",
		CookingTime:  15,
		Image:        "https://example.com/img.jpg",
		CreatedByID:  owner.ID,
	}
	require.NoError(t, recipes.Create(context.Background(), recipe))
	return recipe
}
