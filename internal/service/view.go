package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/models"
)

// AuthorView is the user projection embedded in a recipe view.
type AuthorView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientView is an ingredient line inside a recipe view.
type IngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is a recipe decorated with viewer-specific flags. Every read
// surface returns this projection, never the raw model.
type RecipeView struct {
	ID               uuid.UUID        `json:"id"`
	Tags             []models.Tag     `json:"tags"`
	Author           AuthorView       `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ShortRecipeView is the compact projection returned by the favorite and
// cart toggles.
type ShortRecipeView struct {
	ID          uuid.UUID `json:"id"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	CookingTime int       `json:"cooking_time"`
}

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ViewService computes viewer-specific recipe projections and owns the
// favorite/cart marks.
type ViewService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewService(db *gorm.DB, log *logger.Logger) *ViewService {
	return &ViewService{db: db, log: log.With("service", "view")}
}

// Decorate builds the view of one recipe for the given viewer. A nil
// viewer is anonymous: both flags are false and no mark tables are read.
func (s *ViewService) Decorate(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (*RecipeView, error) {
	views, err := s.DecorateAll(ctx, []models.Recipe{*recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DecorateAll decorates a page of recipes with three queries regardless of
// page size.
func (s *ViewService) DecorateAll(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeView, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}

	if viewer != nil && len(recipes) > 0 {
		ids := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}

		var favs []models.Favorite
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id IN ?", *viewer, ids).
			Find(&favs).Error; err != nil {
			return nil, err
		}
		for _, f := range favs {
			favorited[f.RecipeID] = true
		}

		var entries []models.CartEntry
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id IN ?", *viewer, ids).
			Find(&entries).Error; err != nil {
			return nil, err
		}
		for _, e := range entries {
			inCart[e.RecipeID] = true
		}

		var follows []models.Follow
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND following_id IN ?", *viewer, authorIDs).
			Find(&follows).Error; err != nil {
			return nil, err
		}
		for _, f := range follows {
			subscribed[f.FollowingID] = true
		}
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		ingredients := make([]IngredientView, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ingredients = append(ingredients, IngredientView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		tags := make([]models.Tag, 0, len(r.Tags))
		for _, rt := range r.Tags {
			tags = append(tags, rt.Tag)
		}
		views = append(views, RecipeView{
			ID:          r.ID,
			Tags:        tags,
			Author: AuthorView{
				ID:           r.Author.ID,
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: subscribed[r.AuthorID],
			},
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		})
	}
	return views, nil
}

// AddFavorite marks the recipe as favorited by the user. The composite
// unique index backs the concurrent case: a losing insert reports
// ErrAlreadyFavorited, never a double mark.
func (s *ViewService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*ShortRecipeView, error) {
	return s.addMark(ctx, userID, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID},
		&models.Favorite{}, ErrAlreadyFavorited)
}

// RemoveFavorite deletes the user's favorite mark for the recipe.
func (s *ViewService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeMark(ctx, userID, recipeID, &models.Favorite{}, ErrNotFavorited)
}

// AddToCart queues the recipe in the user's shopping cart.
func (s *ViewService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*ShortRecipeView, error) {
	return s.addMark(ctx, userID, recipeID, &models.CartEntry{UserID: userID, RecipeID: recipeID},
		&models.CartEntry{}, ErrAlreadyInCart)
}

// RemoveFromCart removes the recipe from the user's shopping cart.
func (s *ViewService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeMark(ctx, userID, recipeID, &models.CartEntry{}, ErrNotInCart)
}

func (s *ViewService) addMark(ctx context.Context, userID, recipeID uuid.UUID, mark, probe interface{}, exists error) (*ShortRecipeView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(probe).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, exists
	}

	if err := s.db.WithContext(ctx).Create(mark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exists
		}
		return nil, err
	}

	return &ShortRecipeView{
		ID:          recipe.ID,
		Image:       recipe.ImageURL,
		Name:        recipe.Name,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *ViewService) removeMark(ctx context.Context, userID, recipeID uuid.UUID, probe interface{}, missing error) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(probe)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missing
	}
	return nil
}

// BuildShoppingList sums ingredient amounts across every recipe in the
// user's cart. The aggregation key is the textual (name, unit) pair, so
// distinct ingredient rows with identical text merge into one line; output
// keeps the first-seen order of the scanned entries. An empty cart yields
// an empty list.
func (s *ViewService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	type row struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_entries ON cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("cart_entries.user_id = ?", userID).
		Order("cart_entries.id, recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ShoppingListItem, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		key := r.Name + "\x00" + r.MeasurementUnit
		if i, ok := index[key]; ok {
			items[i].Amount += r.Amount
			continue
		}
		index[key] = len(items)
		items = append(items, ShoppingListItem{
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
			Amount:          r.Amount,
		})
	}
	return items, nil
}
