package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/auth"
	"recipebox/internal/config"
	"recipebox/internal/handler"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/router"
	"recipebox/internal/service"
)

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

type testApp struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Recipe{}))

	cfg := &config.Config{
		CORSOrigin: "*",
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		UploadDir:  t.TempDir(),
	}

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo, nil)
	recipeService := service.NewRecipeService(recipeRepo)
	csvService := service.NewCSVService(recipeRepo, userRepo)

	e := echo.New()
	router.Register(e, cfg,
		auth.Identity(tokenService, userService),
		handler.NewAuthHandler(authService, cfg.TokenTTL),
		handler.NewUserHandler(userService),
		handler.NewRecipeHandler(recipeService, csvService, cfg.UploadDir),
	)
	return &testApp{e: e, db: db}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if strings.Contains(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testApp) register(t *testing.T, name, email, password string) {
	t.Helper()
	rec, _ := a.request(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, env := a.request(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterLoginScenario(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.request(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"name": "A", "email": "a@x.com", "password": "Secret1!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "Secret1!")

	var stored model.User
	require.NoError(t, app.db.Where("email = ?", "a@x.com").First(&stored).Error)
	assert.NotEqual(t, "Secret1!", stored.PasswordHash)

	// duplicate email conflicts, no second row
	rec, env = app.request(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"name": "A2", "email": "a@x.com", "password": "Other1!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	var count int64
	app.db.Model(&model.User{}).Where("email = ?", "a@x.com").Count(&count)
	assert.EqualValues(t, 1, count)

	// wrong password
	rec, envWrong := app.request(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", envWrong.Message)

	// unknown email gives the byte-identical message
	rec, envUnknown := app.request(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": "nobody@x.com", "password": "Secret1!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, envWrong.Message, envUnknown.Message)

	// correct login returns the token and sets the cookie
	rec, env = app.request(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email": "a@x.com", "password": "Secret1!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
		User  model.User
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == "token" {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie set")
	assert.Equal(t, data.Token, session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, session.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), session.MaxAge)
}

func TestGetUser_IdentityOrNull(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.request(t, http.MethodGet, "/api/v1/users/getUser", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(env.Data))

	app.register(t, "A", "a@x.com", "Secret1!")
	token := app.login(t, "a@x.com", "Secret1!")

	rec, env = app.request(t, http.MethodGet, "/api/v1/users/getUser", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "a@x.com", user.Email)
}

func TestAnonymousAccess(t *testing.T) {
	app := newTestApp(t)

	// public listing works without identity
	rec, env := app.request(t, http.MethodGet, "/api/v1/Recipes/getAllRecipes", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	// guarded routes reject anonymous callers
	for _, path := range []string{
		"/api/v1/Recipes/getUserRecipes",
		"/api/v1/Recipes/getRecipes",
		"/api/v1/Recipes/export",
		"/api/v1/users/getAllUsers",
	} {
		rec, env := app.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.False(t, env.Success, path)
	}

	// a garbage token degrades to anonymous rather than a hard failure
	rec, _ = app.request(t, http.MethodGet, "/api/v1/Recipes/getAllRecipes", "garbage", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func createRecipe(t *testing.T, app *testApp, token, title string) string {
	t.Helper()
	rec, env := app.request(t, http.MethodPost, "/api/v1/Recipes/register", token, map[string]interface{}{
		"title":        title,
		"ingredients":  "a, b, c",
		"type":         "ITALIAN",
		"instructions": "cook it",
		"cookingTime":  20,
		"image":        "https://example.com/x.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var recipe model.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &recipe))
	return recipe.ID.String()
}

func TestRecipeOwnershipOverHTTP(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "Owner", "owner@x.com", "Secret1!")
	app.register(t, "Other", "other@x.com", "Secret1!")
	ownerToken := app.login(t, "owner@x.com", "Secret1!")
	otherToken := app.login(t, "other@x.com", "Secret1!")

	id := createRecipe(t, app, ownerToken, "Owner Pasta")

	update := map[string]interface{}{
		"title":        "Hijacked",
		"ingredients":  "a",
		"type":         "ITALIAN",
		"instructions": "b",
		"cookingTime":  10,
	}

	rec, env := app.request(t, http.MethodPatch, "/api/v1/Recipes/update/"+id, otherToken, update)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)

	rec, _ = app.request(t, http.MethodPatch, "/api/v1/Recipes/update/"+id, ownerToken, update)
	assert.Equal(t, http.StatusOK, rec.Code)

	// scoped listing only ever returns the caller's recipes
	createRecipe(t, app, otherToken, "Other Salad")
	rec, env = app.request(t, http.MethodGet, "/api/v1/Recipes/getUserRecipes", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Other Salad", list[0].Title)
}

func TestImportExportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice@x.com", "Secret1!")
	token := app.login(t, "alice@x.com", "Secret1!")

	csvBody := strings.Join([]string{
		"title,ingredients,type,createdBy",
		"Pasta,flour and eggs,ITALIAN,Alice",
		"Curry,spices,INDIAN,Alice",
	}, "\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "recipes.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/Recipes/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.JSONEq(t, `{"imported": 2}`, string(env.Data))

	// export streams the rows back with the owner name resolved
	exportRec, _ := app.request(t, http.MethodGet, "/api/v1/Recipes/export", token, nil)
	require.Equal(t, http.StatusOK, exportRec.Code)
	assert.Contains(t, exportRec.Header().Get(echo.HeaderContentType), "text/csv")

	lines := strings.Split(strings.TrimSpace(exportRec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "title,ingredients,type,createdBy,createdAt,updatedAt", strings.TrimSpace(lines[0]))
	assert.Contains(t, exportRec.Body.String(), "Pasta,flour and eggs,ITALIAN,Alice")
}

func TestImportRejectsUnknownOwner(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "Alice", "alice@x.com", "Secret1!")
	token := app.login(t, "alice@x.com", "Secret1!")

	csvBody := "title,ingredients,type,createdBy\nPasta,flour,ITALIAN,Nobody\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "recipes.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/Recipes/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	app.db.Model(&model.Recipe{}).Count(&count)
	assert.Zero(t, count, "failed import must not insert rows")
}
