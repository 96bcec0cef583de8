package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/models"
)

// IngredientAmount pairs an ingredient id with the amount used.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries the full payload for creating or updating a recipe.
// Updates replace the ingredient and tag links wholesale; there is no
// partial patch.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string // data URL or plain URL, optional
	CookingTime int
	Ingredients []IngredientAmount
	TagIDs      []uuid.UUID
}

// RecipeFilter narrows List results.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	StoreDataURL(ctx context.Context, dataURL string) (string, error)
}

// RecipeService validates and persists recipe aggregates. A recipe and its
// join rows always commit in one transaction.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
	log    *logger.Logger
}

func NewRecipeService(db *gorm.DB, images ImageStore, log *logger.Logger) *RecipeService {
	return &RecipeService{db: db, images: images, log: log.With("service", "recipe")}
}

// validateInput checks the payload in a fixed order so each failure mode
// surfaces as its own error: unknown ingredient, duplicate ingredient,
// non-positive amount, missing tags, duplicate tag, non-positive cooking
// time. Nothing is written before validation passes.
func (s *RecipeService) validateInput(ctx context.Context, in *RecipeInput) error {
	if len(in.Ingredients) == 0 {
		return invalid("ingredients", ErrUnknownIngredient)
	}
	ids := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		ids = append(ids, ia.IngredientID)
	}
	var known []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&known).Error; err != nil {
		return err
	}
	exists := make(map[uuid.UUID]bool, len(known))
	for _, ing := range known {
		exists[ing.ID] = true
	}
	for _, ia := range in.Ingredients {
		if !exists[ia.IngredientID] {
			return invalid("ingredients", ErrUnknownIngredient)
		}
	}

	seen := make(map[uuid.UUID]bool, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		if seen[ia.IngredientID] {
			return invalid("ingredients", ErrDuplicateIngredient)
		}
		seen[ia.IngredientID] = true
	}

	for _, ia := range in.Ingredients {
		if ia.Amount <= 0 {
			return invalid("amount", ErrInvalidAmount)
		}
	}

	if len(in.TagIDs) == 0 {
		return invalid("tags", ErrMissingTags)
	}
	seenTags := make(map[uuid.UUID]bool, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if seenTags[id] {
			return invalid("tags", ErrDuplicateTag)
		}
		seenTags[id] = true
	}
	var tagCount int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", in.TagIDs).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount != int64(len(in.TagIDs)) {
		return invalid("tags", ErrNotFound)
	}

	if in.CookingTime <= 0 {
		return invalid("cooking_time", ErrInvalidCookingTime)
	}
	return nil
}

func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if image == "" || s.images == nil {
		return image, nil
	}
	return s.images.StoreDataURL(ctx, image)
}

// Create validates in, persists the recipe with its ingredient and tag
// links atomically and returns the stored aggregate.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		ImageURL:    imageURL,
		CookingTime: in.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createLinks(tx, recipe.ID, in)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.Get(ctx, recipe.ID)
}

// Update applies the same validation as Create and replaces the recipe's
// ingredient and tag links entirely. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, recipeID, editorID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != editorID {
		return nil, ErrForbidden
	}
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return createLinks(tx, recipeID, in)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe updated", "recipe_id", recipeID, "editor_id", editorID)
	return s.Get(ctx, recipeID)
}

// Delete removes the recipe together with its join rows, favorites and
// cart entries. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, recipeID, editorID uuid.UUID) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != editorID {
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.CartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("recipe deleted", "recipe_id", recipeID, "editor_id", editorID)
	return nil
}

// Get loads a recipe with its author, ingredient and tag links.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes newest first, filtered and paginated, together with
// the total count before pagination.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		// Grouping by the primary key deduplicates recipes matching
		// more than one slug and keeps Count correct.
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs).
			Group("recipes.id")
	}
	if f.FavoritedBy != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *f.FavoritedBy)
	}
	if f.InCartOf != nil {
		query = query.
			Joins("JOIN cart_entries ON cart_entries.recipe_id = recipes.id").
			Where("cart_entries.user_id = ?", *f.InCartOf)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Tags.Tag").
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns up to limit of the author's recipes, newest first.
// limit <= 0 means no cap.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func createLinks(tx *gorm.DB, recipeID uuid.UUID, in *RecipeInput) error {
	links := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		links = append(links, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ia.IngredientID,
			Amount:       ia.Amount,
		})
	}
	if err := tx.Create(&links).Error; err != nil {
		return err
	}
	tags := make([]models.RecipeTag, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		tags = append(tags, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	return tx.Create(&tags).Error
}
