package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// seedUser pairs a user with the plaintext password to hash at insert time.
type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var seedUsers = []seedUser{
	{name: "Admin", email: "admin@recipebox.local", password: "admin-change-me", role: model.RoleAdmin},
	{name: "Demo Cook", email: "demo@recipebox.local", password: "demo-change-me", role: model.RoleUser},
}

var seedRecipes = []model.Recipe{
	{
		Title:        "Margherita Pizza",
		Ingredients:  "flour, tomato, mozzarella, basil, olive oil",
		Type:         "ITALIAN",
		Instructions: "Stretch the dough, top with sauce and cheese, bake hot.",
		CookingTime:  25,
		Image:        "https://example.com/img/margherita.jpg",
	},
	{
		Title:        "Pad Thai",
		Ingredients:  "rice noodles, tamarind, egg, peanuts, shrimp",
		Type:         "THAI",
		Instructions: "Soak noodles, stir-fry with sauce, finish with peanuts.",
		CookingTime:  30,
		Image:        "https://example.com/img/padthai.jpg",
	},
	{
		Title:        "Chicken Tikka Masala",
		Ingredients:  "chicken, yogurt, tomato, garam masala, cream",
		Type:         "INDIAN",
		Instructions: "Marinate, grill, simmer in the spiced tomato sauce.",
		CookingTime:  50,
		Image:        "https://example.com/img/tikka.jpg",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Recipe{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	recipes := repository.NewRecipeRepository(gormDB)

	owner := seedAccounts(ctx, users)
	seedSampleRecipes(ctx, recipes, owner)

	log.Println("Seed completed")
}

// seedAccounts inserts the fixed accounts, skipping ones that already exist,
// and returns the demo user to own the sample recipes.
func seedAccounts(ctx context.Context, users repository.UserRepository) *model.User {
	var owner *model.User
	for _, su := range seedUsers {
		existing, err := users.FindByEmail(ctx, su.email)
		if err == nil {
			log.Printf("User %s already exists, skipping", su.email)
			if su.role == model.RoleUser {
				owner = existing
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check user %s: %v", su.email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := &model.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: string(hashed),
			Role:         su.role,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", su.email, err)
		}
		log.Printf("Created user %s (%s)", su.email, su.role)
		if su.role == model.RoleUser {
			owner = user
		}
	}
	return owner
}

func seedSampleRecipes(ctx context.Context, recipes repository.RecipeRepository, owner *model.User) {
	if owner == nil {
		log.Println("No demo user available, skipping sample recipes")
		return
	}

	existing, err := recipes.Find(ctx, repository.RecipeFilter{OwnerID: &owner.ID}, 0, 1)
	if err != nil {
		log.Fatalf("Failed to check sample recipes: %v", err)
	}
	if len(existing) > 0 {
		log.Println("Sample recipes already present, skipping")
		return
	}

	batch := make([]model.Recipe, len(seedRecipes))
	copy(batch, seedRecipes)
	for i := range batch {
		batch[i].CreatedByID = owner.ID
	}
	if err := recipes.CreateBatch(ctx, batch); err != nil {
		log.Fatalf("Failed to insert sample recipes: %v", err)
	}
	log.Printf("Inserted %d sample recipes", len(batch))
}
