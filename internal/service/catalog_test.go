package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/models"
	"github.com/producthelper/backend/internal/testhelpers"
)

func TestListIngredientsPrefixFilter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, logger.NewNop())
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Salt", "g")
	testhelpers.CreateIngredient(t, db, "Saffron", "g")
	testhelpers.CreateIngredient(t, db, "Pepper", "g")

	got, err := svc.ListIngredients(ctx, "sa")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, ing := range got {
		names = append(names, ing.Name)
	}
	assert.ElementsMatch(t, []string{"Salt", "Saffron"}, names)

	// The filter anchors at the start of the name.
	got, err = svc.ListIngredients(ctx, "alt")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListIngredientsPrefixIsLiteral(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, logger.NewNop())
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Salt", "g")
	testhelpers.CreateIngredient(t, db, "100% cocoa", "g")

	// LIKE metacharacters in the query match themselves, not wildcards.
	got, err := svc.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.ListIngredients(ctx, "s_l")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.ListIngredients(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% cocoa", got[0].Name)
}

func TestGetIngredientNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, logger.NewNop())

	_, err := svc.GetIngredient(context.Background(), testhelpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAndListTags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db, logger.NewNop())
	ctx := context.Background()

	created := testhelpers.CreateTag(t, db, "breakfast", models.TagColorYellow)
	testhelpers.CreateTag(t, db, "dinner", models.TagColorBlue)

	tag, err := svc.GetTag(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = svc.GetTag(ctx, testhelpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}
