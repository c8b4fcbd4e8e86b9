package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/repository"
	"blogicum/internal/slug"

	"gorm.io/gorm"
)

const maxTitleLen = 256

// PostService owns post CRUD, the category/location association resolution
// and the public visibility rules. db may be nil in unit tests; when set,
// create and update run inside a transaction so on-the-fly category and
// location creation commits together with the post.
type PostService struct {
	db           *gorm.DB
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

// CreatePostInput carries either an existing category ID or a free-text
// category name, never both; same for location.
type CreatePostInput struct {
	UserID       uint
	Title        string
	Text         string
	PubDate      time.Time
	ImageURL     string
	CategoryID   *uint
	CategoryName string
	LocationID   *uint
	LocationName string
}

type UpdatePostInput struct {
	UserID       uint
	PostID       uint
	Title        string
	Text         string
	PubDate      time.Time
	ImageURL     string
	CategoryID   *uint
	CategoryName string
	LocationID   *uint
	LocationName string
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
) *PostService {
	return &PostService{
		db:           db,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Text, in.PubDate); err != nil {
		return nil, err
	}

	var post *models.Post
	create := func(posts repository.PostRepository, categories repository.CategoryRepository, locations repository.LocationRepository) error {
		categoryID, err := resolveCategory(ctx, categories, in.CategoryID, in.CategoryName)
		if err != nil {
			return err
		}
		locationID, err := resolveLocation(ctx, locations, in.LocationID, in.LocationName)
		if err != nil {
			return err
		}

		post = &models.Post{
			Title:       in.Title,
			Text:        in.Text,
			PubDate:     in.PubDate,
			ImageURL:    in.ImageURL,
			UserID:      in.UserID,
			CategoryID:  categoryID,
			LocationID:  locationID,
			IsPublished: true,
		}
		return posts.Create(ctx, post)
	}

	var err error
	if s.db != nil {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return create(s.postRepo.WithTx(tx), s.categoryRepo.WithTx(tx), s.locationRepo.WithTx(tx))
		})
	} else {
		err = create(s.postRepo, s.categoryRepo, s.locationRepo)
	}
	if err != nil {
		return nil, err
	}

	scheduled := in.PubDate.After(time.Now())
	observability.PostsCreated.WithLabelValues(strconv.FormatBool(scheduled)).Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if err := validatePostFields(in.Title, in.Text, in.PubDate); err != nil {
		return nil, err
	}

	update := func(posts repository.PostRepository, categories repository.CategoryRepository, locations repository.LocationRepository) error {
		categoryID, err := resolveCategory(ctx, categories, in.CategoryID, in.CategoryName)
		if err != nil {
			return err
		}
		locationID, err := resolveLocation(ctx, locations, in.LocationID, in.LocationName)
		if err != nil {
			return err
		}

		post.Title = in.Title
		post.Text = in.Text
		post.PubDate = in.PubDate
		post.ImageURL = in.ImageURL
		post.CategoryID = categoryID
		post.LocationID = locationID
		post.Category = nil
		post.Location = nil
		return posts.Update(ctx, post)
	}

	if s.db != nil {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return update(s.postRepo.WithTx(tx), s.categoryRepo.WithTx(tx), s.locationRepo.WithTx(tx))
		})
	} else {
		err = update(s.postRepo, s.categoryRepo, s.locationRepo)
	}
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetPost returns the post when the viewer may see it: the author always
// can, everyone else only while the post is publicly visible. Invisible
// posts are indistinguishable from missing ones.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != currentUserID && !post.VisibleAt(time.Now()) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, page int, currentUserID uint) (*PostPage, error) {
	limit, offset := pageBounds(page)

	var result PostPage
	fetch := func() error {
		posts, total, err := s.postRepo.ListVisible(ctx, limit, offset)
		if err != nil {
			return err
		}
		result = PostPage{Posts: posts, Total: total, Page: page, Pages: pageCount(total)}
		return nil
	}

	if currentUserID == 0 && page <= 1 {
		if err := cache.Aside(ctx, cache.IndexFirstPageKey, &result, cache.IndexTTL, fetch); err != nil {
			return nil, err
		}
		return &result, nil
	}
	if err := fetch(); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCategory returns the published category for a slug; unpublished
// categories are hidden like missing ones.
func (s *PostService) GetCategory(ctx context.Context, categorySlug string) (*models.Category, error) {
	var category models.Category
	err := cache.Aside(ctx, cache.CategoryKey(categorySlug), &category, cache.CategoryTTL, func() error {
		got, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return err
		}
		category = *got
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !category.IsPublished {
		return nil, models.NewNotFoundError("Category", categorySlug)
	}
	return &category, nil
}

func (s *PostService) ListCategoryPosts(ctx context.Context, categorySlug string, page int) (*models.Category, *PostPage, error) {
	category, err := s.GetCategory(ctx, categorySlug)
	if err != nil {
		return nil, nil, err
	}

	limit, offset := pageBounds(page)
	posts, total, err := s.postRepo.ListVisibleByCategory(ctx, category.ID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return category, &PostPage{Posts: posts, Total: total, Page: page, Pages: pageCount(total)}, nil
}

func (s *PostService) GetLocation(ctx context.Context, locationSlug string) (*models.Location, error) {
	var location models.Location
	err := cache.Aside(ctx, cache.LocationKey(locationSlug), &location, cache.LocationTTL, func() error {
		got, err := s.locationRepo.GetBySlug(ctx, locationSlug)
		if err != nil {
			return err
		}
		location = *got
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !location.IsPublished {
		return nil, models.NewNotFoundError("Location", locationSlug)
	}
	return &location, nil
}

func (s *PostService) ListLocationPosts(ctx context.Context, locationSlug string, page int) (*models.Location, *PostPage, error) {
	location, err := s.GetLocation(ctx, locationSlug)
	if err != nil {
		return nil, nil, err
	}

	limit, offset := pageBounds(page)
	posts, total, err := s.postRepo.ListVisibleByLocation(ctx, location.ID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return location, &PostPage{Posts: posts, Total: total, Page: page, Pages: pageCount(total)}, nil
}

func (s *PostService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.ListPublished(ctx)
}

func (s *PostService) ListLocations(ctx context.Context) ([]models.Location, error) {
	return s.locationRepo.ListPublished(ctx)
}

func validatePostFields(title, text string, pubDate time.Time) error {
	if strings.TrimSpace(title) == "" {
		return models.NewFieldValidationError("title", "Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewFieldValidationError("title", "Title too long (max 256 characters)")
	}
	if strings.TrimSpace(text) == "" {
		return models.NewFieldValidationError("text", "Text is required")
	}
	if pubDate.IsZero() {
		return models.NewFieldValidationError("pub_date", "Publication date is required")
	}
	return nil
}

// resolveCategory turns the (ID, name) pair into a category reference.
// Exactly one of the two must be set: an ID must point at an existing
// category, a name reuses the exact-title match or creates a fresh
// published category from it.
func resolveCategory(ctx context.Context, categories repository.CategoryRepository, id *uint, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if id != nil && name != "" {
		return nil, models.NewFieldValidationError("category", `choose only one of "category" or "category_user"`)
	}
	if id == nil && name == "" {
		return nil, models.NewFieldValidationError("category", `must choose one of "category" or "category_user"`)
	}

	if id != nil {
		category, err := categories.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	}

	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, models.NewFieldValidationError("category_user", "Cannot derive a slug from this name")
	}
	category, err := categories.GetOrCreateByTitle(ctx, name, categorySlug)
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

func resolveLocation(ctx context.Context, locations repository.LocationRepository, id *uint, name string) (*uint, error) {
	name = strings.TrimSpace(name)
	if id != nil && name != "" {
		return nil, models.NewFieldValidationError("location", `choose only one of "location" or "location_user"`)
	}
	if id == nil && name == "" {
		return nil, models.NewFieldValidationError("location", `must choose one of "location" or "location_user"`)
	}

	if id != nil {
		location, err := locations.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return &location.ID, nil
	}

	locationSlug := slug.Make(name)
	if locationSlug == "" {
		return nil, models.NewFieldValidationError("location_user", "Cannot derive a slug from this name")
	}
	location, err := locations.GetOrCreateByName(ctx, name, locationSlug)
	if err != nil {
		return nil, err
	}
	return &location.ID, nil
}
