package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeTypes is the closed set of cuisine tags a recipe may carry.
var RecipeTypes = []string{
	"AMERICAN",
	"THAI",
	"ITALIAN",
	"ASIAN",
	"MEXICAN",
	"FRENCH",
	"INDIAN",
	"CHINESE",
	"JAPANESE",
}

// ValidRecipeType reports whether t is one of the known cuisine tags.
func ValidRecipeType(t string) bool {
	for _, known := range RecipeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Recipe represents a recipe owned by exactly one user. Deleting the owner
// does not cascade, so CreatedBy may point at a user that no longer exists.
type Recipe struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Ingredients  string    `json:"ingredients" gorm:"type:text;not null"`
	Type         string    `json:"type" gorm:"size:50;not null;index"`
	Instructions string    `json:"instructions" gorm:"type:text;not null"`
	CookingTime  int       `json:"cookingTime" gorm:"not null"`
	Image        string    `json:"image" gorm:"size:1024;not null"`
	CreatedByID  uuid.UUID `json:"createdBy" gorm:"type:char(36);not null;index"`
	CreatedBy    *User     `json:"createdByUser,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets the UUID before inserting the record.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
