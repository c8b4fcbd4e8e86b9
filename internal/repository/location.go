package repository

import (
	"context"
	"errors"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// LocationRepository defines the interface for location data operations
type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uint) (*models.Location, error)
	GetBySlug(ctx context.Context, slug string) (*models.Location, error)
	GetOrCreateByName(ctx context.Context, name, slug string) (*models.Location, error)
	ListPublished(ctx context.Context) ([]models.Location, error)
	Delete(ctx context.Context, id uint) error
}

// locationRepository implements LocationRepository
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) WithTx(tx *gorm.DB) LocationRepository {
	return &locationRepository{db: tx}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Location", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}

func (r *locationRepository) GetBySlug(ctx context.Context, slug string) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Location", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}

// GetOrCreateByName mirrors CategoryRepository.GetOrCreateByTitle with the
// location's name as the natural key.
func (r *locationRepository) GetOrCreateByName(ctx context.Context, name, slug string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&location).Error
	if err == nil {
		return &location, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Exec(
		`INSERT INTO locations (name, description, slug, is_published, created_at)
		 VALUES (?, '', ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		name, slug, true, time.Now(),
	).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&location).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}

func (r *locationRepository) ListPublished(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return locations, nil
}

func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Location", id)
		}
		return models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateLocation(ctx, location.Slug)
	return nil
}
