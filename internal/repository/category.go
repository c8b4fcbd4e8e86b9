package repository

import (
	"context"
	"errors"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetOrCreateByTitle(ctx context.Context, title, slug string) (*models.Category, error)
	ListPublished(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id uint) error
}

// categoryRepository implements CategoryRepository
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// GetOrCreateByTitle reuses the category with the given title if one exists,
// otherwise inserts a new published one. The insert uses ON CONFLICT DO
// NOTHING so concurrent creates and slug collisions both resolve to the row
// that won; the re-fetch by slug picks it up.
func (r *categoryRepository) GetOrCreateByTitle(ctx context.Context, title, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Exec(
		`INSERT INTO categories (title, description, slug, is_published, created_at)
		 VALUES (?, '', ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		title, slug, true, time.Now(),
	).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) ListPublished(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Category", id)
		}
		return models.NewInternalError(err)
	}

	// Posts keep existing with a null category, which drops them from
	// public listings until recategorized.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategory(ctx, category.Slug)
	cache.InvalidateIndex(ctx)
	return nil
}
