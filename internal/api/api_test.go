package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/api"
	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/models"
	"github.com/producthelper/backend/internal/testhelpers"
)

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB
	salt   *models.Ingredient
	tag    *models.Tag
}

func newAPIFixture(t *testing.T) *apiFixture {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	router := gin.New()
	api.SetupAPI(router, db, nil, nil, "test-secret", logger.NewNop())
	return &apiFixture{
		router: router,
		db:     db,
		salt:   testhelpers.CreateIngredient(t, db, "Salt", "g"),
		tag:    testhelpers.CreateTag(t, db, "dinner", models.TagColorBlue),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) registerUser(t *testing.T, username string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func (f *apiFixture) recipePayload() gin.H {
	return gin.H{
		"name":         "Soup",
		"text":         "Boil water, add salt.",
		"cooking_time": 30,
		"ingredients":  []gin.H{{"id": f.salt.ID, "amount": 10}},
		"tags":         []string{f.tag.ID.String()},
	}
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	token := f.registerUser(t, "ada")
	assert.NotEmpty(t, token)

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/recipes", "", f.recipePayload())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/recipes", "bogus-token", f.recipePayload())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerUser(t, "ada")

	w := f.do(t, http.MethodPost, "/api/v1/recipes", token, f.recipePayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	recipeID, ok := created["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "Soup", created["name"])
	assert.Equal(t, false, created["is_favorited"])

	// Anonymous read sees the recipe with both flags down.
	w = f.do(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.EqualValues(t, 1, page["count"])
	results, ok := page["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)

	w = f.do(t, http.MethodGet, "/api/v1/recipes/"+recipeID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Soup", decode(t, w)["name"])

	w = f.do(t, http.MethodDelete, "/api/v1/recipes/"+recipeID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/recipes/"+recipeID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeValidationResponse(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerUser(t, "ada")

	payload := f.recipePayload()
	payload["cooking_time"] = 0
	w := f.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cooking_time", decode(t, w)["field"])

	payload = f.recipePayload()
	payload["ingredients"] = []gin.H{}
	w = f.do(t, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ingredients", decode(t, w)["field"])
}

func TestUpdateByNonAuthorForbidden(t *testing.T) {
	f := newAPIFixture(t)
	author := f.registerUser(t, "author")
	stranger := f.registerUser(t, "stranger")

	payload := f.recipePayload()
	w := f.do(t, http.MethodPost, "/api/v1/recipes", author, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := decode(t, w)["id"].(string)

	w = f.do(t, http.MethodPut, "/api/v1/recipes/"+recipeID, stranger, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/recipes/"+recipeID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerUser(t, "ada")

	w := f.do(t, http.MethodPost, "/api/v1/recipes", token, f.recipePayload())
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := decode(t, w)["id"].(string)

	w = f.do(t, http.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Soup", decode(t, w)["name"])

	w = f.do(t, http.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The flag shows up on authenticated reads and drives the filter.
	w = f.do(t, http.MethodGet, "/api/v1/recipes/"+recipeID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_favorited"])

	w = f.do(t, http.MethodGet, "/api/v1/recipes?is_favorited=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = f.do(t, http.MethodDelete, "/api/v1/recipes/"+recipeID+"/favorite", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/recipes/"+recipeID+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerUser(t, "ada")

	w := f.do(t, http.MethodPost, "/api/v1/recipes", token, f.recipePayload())
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := decode(t, w)["id"].(string)

	w = f.do(t, http.MethodPost, "/api/v1/recipes/"+recipeID+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	w = f.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	testhelpers.CreateIngredient(t, f.db, "Sugar", "g")

	w := f.do(t, http.MethodGet, "/api/v1/ingredients?name=sa", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []models.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Salt", ingredients[0].Name)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%s", f.salt.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tags/%s", f.tag.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dinner", decode(t, w)["name"])

	w = f.do(t, http.MethodGet, "/api/v1/ingredients/"+testhelpers.NewID().String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	follower := f.registerUser(t, "follower")
	_ = f.registerUser(t, "chef")

	var chef models.User
	require.NoError(t, f.db.Where("username = ?", "chef").First(&chef).Error)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/subscribe", chef.ID), follower, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/subscribe", chef.ID), follower, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/users/subscriptions", follower, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "chef", subs[0]["username"])

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%s/subscribe", chef.ID), follower, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
