package repository

import (
	"context"
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge data operations
type FollowRepository interface {
	Create(ctx context.Context, userID, followingID uint) (bool, error)
	Delete(ctx context.Context, userID, followingID uint) (bool, error)
	Exists(ctx context.Context, userID, followingID uint) (bool, error)
	ListByFollower(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, int64, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the edge idempotently. Returns false when the edge already
// existed; concurrent duplicate inserts land on ON CONFLICT DO NOTHING and
// exactly one caller sees true.
func (r *followRepository) Create(ctx context.Context, userID, followingID uint) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (user_id, following_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, following_id) DO NOTHING`,
		userID, followingID, time.Now(),
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, followingID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) ListByFollower(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Following").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return follows, total, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
