package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/producthelper/backend/internal/models"
)

// ICatalogService defines the ingredient/tag reference-data reads.
type ICatalogService interface {
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// IRecipeService defines the recipe aggregate operations.
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, in *RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, recipeID, editorID uuid.UUID, in *RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, recipeID, editorID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error)
}

// IViewService defines viewer-specific decoration, favorite/cart marks and
// the shopping-list aggregation.
type IViewService interface {
	Decorate(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (*RecipeView, error)
	DecorateAll(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeView, error)
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*ShortRecipeView, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*ShortRecipeView, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
}

// IAuthService defines registration, login and token validation.
type IAuthService interface {
	Register(ctx context.Context, email, username, firstName, lastName, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GenerateToken(userID uuid.UUID, username string) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// IUserService defines the follow relation operations.
type IUserService interface {
	Follow(ctx context.Context, userID, targetID uuid.UUID) error
	Unfollow(ctx context.Context, userID, targetID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, page, limit, recipesLimit int) ([]SubscriptionView, error)
}
