package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/models"
	"github.com/producthelper/backend/internal/testhelpers"
)

func TestFavoriteUniquePerUserRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := models.Recipe{AuthorID: user.ID, Name: "soup", CookingTime: 10}
	require.NoError(t, db.Create(&recipe).Error)

	first := models.Favorite{UserID: user.ID, RecipeID: recipe.ID}
	require.NoError(t, db.Create(&first).Error)

	second := models.Favorite{UserID: user.ID, RecipeID: recipe.ID}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestRecipeIngredientUniquePerRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "bob")
	ing := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := models.Recipe{AuthorID: user.ID, Name: "stew", CookingTime: 30}
	require.NoError(t, db.Create(&recipe).Error)

	require.NoError(t, db.Create(&models.RecipeIngredient{
		RecipeID: recipe.ID, IngredientID: ing.ID, Amount: 5,
	}).Error)

	err := db.Create(&models.RecipeIngredient{
		RecipeID: recipe.ID, IngredientID: ing.ID, Amount: 7,
	}).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestValidTagColor(t *testing.T) {
	assert.True(t, models.ValidTagColor(models.TagColorBlue))
	assert.True(t, models.ValidTagColor(models.TagColorGreen))
	assert.False(t, models.ValidTagColor("#ABCDEF"))
	assert.False(t, models.ValidTagColor(""))
}

func TestUserIDAssignedOnCreate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "carol")
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", user.ID.String())
}
