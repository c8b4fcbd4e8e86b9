package service

import (
	"context"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

// FollowService maintains the directed follow graph and the feed built
// from it.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
}

// FollowPage is one page of a user's subscriptions, newest first.
type FollowPage struct {
	Follows []models.Follow `json:"follows"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Pages   int             `json:"pages"`
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

func (s *FollowService) Follow(ctx context.Context, userID, targetID uint) error {
	if userID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	created, err := s.followRepo.Create(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !created {
		return models.NewValidationError("You are already following this user")
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, userID, targetID uint) error {
	deleted, err := s.followRepo.Delete(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Follow", targetID)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, targetID)
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint, page int) (*FollowPage, error) {
	limit, offset := pageBounds(page)
	follows, total, err := s.followRepo.ListByFollower(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &FollowPage{Follows: follows, Total: total, Page: page, Pages: pageCount(total)}, nil
}

// Feed lists the publicly visible posts written by the users the viewer
// follows. The viewer's own scheduled or unpublished posts never appear
// here; those live on their profile.
func (s *FollowService) Feed(ctx context.Context, userID uint, page int) (*PostPage, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit, offset := pageBounds(page)
	posts, total, err := s.postRepo.ListVisibleByAuthors(ctx, ids, limit, offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total, Page: page, Pages: pageCount(total)}, nil
}
