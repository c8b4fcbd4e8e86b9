// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, int64, error)
	ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, int64, error)
	ListVisibleByLocation(ctx context.Context, locationID uint, limit, offset int) ([]*models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, includeHidden bool, limit, offset int) ([]*models.Post, int64, error)
	ListVisibleByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		defer observability.TrackQuery("get", "posts")()
		return r.withCommentsCount(r.db.WithContext(ctx)).
			Preload("User").
			Preload("Category").
			Preload("Location").
			First(&post, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Comments go with their post; done here explicitly so the cascade
	// holds on every dialect, not just where FKs are enforced.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateIndex(ctx)
	return nil
}

func (r *postRepository) ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return r.list(ctx, r.visibleScope, limit, offset)
}

func (r *postRepository) ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return r.visibleScope(db).Where("posts.category_id = ?", categoryID)
	}
	return r.list(ctx, scope, limit, offset)
}

func (r *postRepository) ListVisibleByLocation(ctx context.Context, locationID uint, limit, offset int) ([]*models.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return r.visibleScope(db).Where("posts.location_id = ?", locationID)
	}
	return r.list(ctx, scope, limit, offset)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, includeHidden bool, limit, offset int) ([]*models.Post, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if includeHidden {
			return db.Where("posts.user_id = ?", authorID)
		}
		return r.visibleScope(db).Where("posts.user_id = ?", authorID)
	}
	return r.list(ctx, scope, limit, offset)
}

func (r *postRepository) ListVisibleByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, 0, nil
	}
	scope := func(db *gorm.DB) *gorm.DB {
		return r.visibleScope(db).Where("posts.user_id IN ?", authorIDs)
	}
	return r.list(ctx, scope, limit, offset)
}

// visibleScope restricts the query to publicly visible posts: the post is
// published, its category exists and is published, and the publication date
// has passed (boundary inclusive). The inner join drops posts without a
// category from public listings.
func (r *postRepository) visibleScope(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?",
			true, true, time.Now())
}

// withCommentsCount adds a subquery to fetch the comment count in a single query.
func (r *postRepository) withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count")
}

func (r *postRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list", "posts")()

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := r.withCommentsCount(scope(r.db.WithContext(ctx).Model(&models.Post{}))).
		Preload("User").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}
