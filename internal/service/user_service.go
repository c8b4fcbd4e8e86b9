package service

import (
	"context"
	"strings"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/repository"
)

// UserService serves profile pages and profile edits.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.ProfileKey(username), &user, cache.ProfileTTL, func() error {
		got, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		user = *got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserPosts returns the profile page listing. The owner sees all of
// their posts including scheduled and unpublished ones; everyone else
// sees only the publicly visible subset.
func (s *UserService) ListUserPosts(ctx context.Context, username string, page int, currentUserID uint) (*models.User, *PostPage, error) {
	user, err := s.GetProfile(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	limit, offset := pageBounds(page)
	includeHidden := user.ID == currentUserID
	posts, total, err := s.postRepo.ListByAuthor(ctx, user.ID, includeHidden, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return user, &PostPage{Posts: posts, Total: total, Page: page, Pages: pageCount(total)}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	oldUsername := user.Username
	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = username
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Bio = in.Bio

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if user.Username != oldUsername {
		cache.InvalidateProfile(ctx, oldUsername)
	}
	return user, nil
}

// DeleteAccount removes the user together with their posts, comments and
// follow edges.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, user.Username)
	return nil
}
