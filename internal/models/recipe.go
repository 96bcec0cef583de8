package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe owns its ingredient and tag links; the three are written and
// replaced as one unit.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageURL    string    `gorm:"size:255" json:"image"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`

	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tags        []RecipeTag        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient links a recipe to an ingredient with an amount. The
// serial primary key preserves insertion order for the shopping-list scan.
type RecipeIngredient struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int        `gorm:"not null" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type RecipeTag struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag" json:"tag_id"`
	Tag      Tag       `gorm:"foreignKey:TagID" json:"-"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// Favorite marks a recipe as favorited by a user, once per pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// CartEntry queues a recipe in a user's shopping cart, once per pair.
type CartEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`
}

func (CartEntry) TableName() string {
	return "cart_entries"
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&CartEntry{},
	}
}
