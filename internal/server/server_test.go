package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/database"
	"blogicum/internal/middleware"
	"blogicum/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

func setupTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Port:      "8080",
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)
	cache.SetClient(nil)

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupRoutes(app)

	return app, db
}

func authToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	str, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return str
}

func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, title, slug string, published bool) *models.Category {
	t.Helper()
	cat := &models.Category{Title: title, Slug: slug, IsPublished: published}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedLocation(t *testing.T, db *gorm.DB, name, slug string) *models.Location {
	t.Helper()
	loc := &models.Location{Name: name, Slug: slug, IsPublished: true}
	require.NoError(t, db.Create(loc).Error)
	return loc
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, cat *models.Category, title string, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		Text:        "text of " + title,
		PubDate:     pubDate,
		UserID:      author.ID,
		CategoryID:  &cat.ID,
		IsPublished: published,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreatePostEndpoint(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	token := authToken(t, author.ID)

	tests := []struct {
		name           string
		body           map[string]any
		token          string
		expectedStatus int
	}{
		{
			name: "existing category and new location",
			body: map[string]any{
				"title":         "Weekend trip",
				"text":          "Notes from the road",
				"pub_date":      time.Now().Add(-time.Hour).Format(time.RFC3339),
				"category":      cat.ID,
				"location_user": "Lake District",
			},
			token:          token,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "both category fields set",
			body: map[string]any{
				"title":         "Bad post",
				"text":          "text",
				"pub_date":      time.Now().Format(time.RFC3339),
				"category":      cat.ID,
				"category_user": "Also This",
				"location_user": "Somewhere",
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing title",
			body: map[string]any{
				"text":          "text",
				"pub_date":      time.Now().Format(time.RFC3339),
				"category":      cat.ID,
				"location_user": "Somewhere",
			},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			body:           map[string]any{"title": "x"},
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", tt.body, tt.token))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	// The on-the-fly location got created with a derived slug.
	var loc models.Location
	require.NoError(t, db.Where("slug = ?", "lake-district").First(&loc).Error)
	assert.Equal(t, "Lake District", loc.Name)
	assert.True(t, loc.IsPublished)
}

func TestPostVisibilityOverHTTP(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	visible := seedPost(t, db, author, cat, "visible", time.Now().Add(-time.Hour), true)
	scheduled := seedPost(t, db, author, cat, "scheduled", time.Now().Add(time.Hour), true)

	// Anonymous index lists only the published past-dated post.
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/posts", nil, ""))
	require.NoError(t, err)
	var page struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
		Pages int           `json:"pages"`
	}
	decodeBody(t, resp, &page)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, visible.ID, page.Posts[0].ID)
	assert.Equal(t, int64(1), page.Total)

	// The scheduled post detail is a 404 for strangers but 200 for its author.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", scheduled.ID), nil, ""))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", scheduled.ID), nil, authToken(t, author.ID)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	cat := seedCategory(t, db, "Travel", "travel", true)
	post := seedPost(t, db, author, cat, "visible", time.Now().Add(-time.Hour), true)

	// Create a comment.
	resp, err := app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", post.ID),
		map[string]any{"text": "nice one"}, authToken(t, commenter.ID)))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, commenter.ID, comment.UserID)

	// List it anonymously.
	resp, err = app.Test(jsonRequest(t, http.MethodGet,
		fmt.Sprintf("/api/posts/%d/comments", post.ID), nil, ""))
	require.NoError(t, err)
	var comments []models.Comment
	decodeBody(t, resp, &comments)
	assert.Len(t, comments, 1)

	// Someone else cannot edit it.
	resp, err = app.Test(jsonRequest(t, http.MethodPut,
		fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID),
		map[string]any{"text": "hijacked"}, authToken(t, author.ID)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can.
	resp, err = app.Test(jsonRequest(t, http.MethodPut,
		fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID),
		map[string]any{"text": "edited"}, authToken(t, commenter.ID)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFollowAndFeed(t *testing.T) {
	app, db := setupTestServer(t)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	seedPost(t, db, author, cat, "followed post", time.Now().Add(-time.Hour), true)
	seedPost(t, db, author, cat, "draft", time.Now().Add(-time.Hour), false)
	token := authToken(t, reader.ID)

	followURL := fmt.Sprintf("/api/users/%d/follow", author.ID)

	// Follow, then follow again.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, followURL, nil, token))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, followURL, nil, token))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Self-follow is rejected.
	resp, err = app.Test(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/users/%d/follow", reader.ID), nil, token))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The feed carries only the visible post of the followed author.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/feed", nil, token))
	require.NoError(t, err)
	var feed struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "followed post", feed.Posts[0].Title)

	// Unfollow twice: first succeeds, second is a 404.
	resp, err = app.Test(jsonRequest(t, http.MethodDelete, followURL, nil, token))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, followURL, nil, token))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryEndpoints(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	hidden := seedCategory(t, db, "Drafts", "drafts", false)
	seedPost(t, db, author, cat, "in travel", time.Now().Add(-time.Hour), true)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/categories/travel", nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Category models.Category `json:"category"`
		Posts    []models.Post   `json:"posts"`
		Total    int64           `json:"total"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, cat.ID, body.Category.ID)
	assert.Len(t, body.Posts, 1)

	// An unpublished category looks like a missing one.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/categories/"+hidden.Slug, nil, ""))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Listing skips the hidden category.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/categories", nil, ""))
	require.NoError(t, err)
	var categories []models.Category
	decodeBody(t, resp, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "Travel", categories[0].Title)
}

func TestLocationEndpoints(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	loc := seedLocation(t, db, "Lake District", "lake-district")
	post := seedPost(t, db, author, cat, "at the lake", time.Now().Add(-time.Hour), true)
	require.NoError(t, db.Model(post).Update("location_id", loc.ID).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/locations/lake-district", nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Location models.Location `json:"location"`
		Posts    []models.Post   `json:"posts"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, loc.ID, body.Location.ID)
	assert.Len(t, body.Posts, 1)
}

func TestProfileEndpoints(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	seedPost(t, db, author, cat, "published", time.Now().Add(-time.Hour), true)
	seedPost(t, db, author, cat, "scheduled", time.Now().Add(time.Hour), true)

	// Strangers see only the visible post on the profile page.
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/users/author/posts", nil, ""))
	require.NoError(t, err)
	var profilePage struct {
		User  models.User   `json:"user"`
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &profilePage)
	assert.Equal(t, "author", profilePage.User.Username)
	assert.Len(t, profilePage.Posts, 1)

	// The owner sees both.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/author/posts", nil, authToken(t, author.ID)))
	require.NoError(t, err)
	decodeBody(t, resp, &profilePage)
	assert.Len(t, profilePage.Posts, 2)

	// Profile update.
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/users/me",
		map[string]any{"bio": "travel writer", "first_name": "Ann"}, authToken(t, author.ID)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, "travel writer", updated.Bio)
	assert.Equal(t, "author", updated.Username)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/users/missing", nil, ""))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	app, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "Travel", "travel", true)
	seedPost(t, db, author, cat, "gone soon", time.Now().Add(-time.Hour), true)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/users/me", nil, authToken(t, author.ID)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
