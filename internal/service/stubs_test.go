package service

import (
	"context"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"

	"gorm.io/gorm"
)

type postRepoStub struct {
	createFn               func(context.Context, *models.Post) error
	getByIDFn              func(context.Context, uint, uint) (*models.Post, error)
	updateFn               func(context.Context, *models.Post) error
	deleteFn               func(context.Context, uint) error
	listVisibleFn          func(context.Context, int, int) ([]*models.Post, int64, error)
	listByCategoryFn       func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	listByLocationFn       func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	listByAuthorFn         func(context.Context, uint, bool, int, int) ([]*models.Post, int64, error)
	listVisibleByAuthorsFn func(context.Context, []uint, int, int) ([]*models.Post, int64, error)
}

func (s *postRepoStub) WithTx(tx *gorm.DB) repository.PostRepository { return s }
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *postRepoStub) ListVisible(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return s.listVisibleFn(ctx, limit, offset)
}
func (s *postRepoStub) ListVisibleByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listByCategoryFn(ctx, categoryID, limit, offset)
}
func (s *postRepoStub) ListVisibleByLocation(ctx context.Context, locationID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listByLocationFn(ctx, locationID, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, includeHidden bool, limit, offset int) ([]*models.Post, int64, error) {
	return s.listByAuthorFn(ctx, authorID, includeHidden, limit, offset)
}
func (s *postRepoStub) ListVisibleByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listVisibleByAuthorsFn(ctx, authorIDs, limit, offset)
}

func noopPostRepo() *postRepoStub {
	visible := &models.Post{
		ID:          1,
		UserID:      1,
		PubDate:     time.Now().Add(-time.Hour),
		IsPublished: true,
		Category:    &models.Category{ID: 1, IsPublished: true},
	}
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(context.Context, uint, uint) (*models.Post, error) { return visible, nil },
		updateFn:  func(context.Context, *models.Post) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		listVisibleFn: func(context.Context, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByCategoryFn: func(context.Context, uint, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByLocationFn: func(context.Context, uint, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn: func(context.Context, uint, bool, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listVisibleByAuthorsFn: func(context.Context, []uint, int, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
	}
}

type categoryRepoStub struct {
	createFn           func(context.Context, *models.Category) error
	getByIDFn          func(context.Context, uint) (*models.Category, error)
	getBySlugFn        func(context.Context, string) (*models.Category, error)
	getOrCreateFn      func(context.Context, string, string) (*models.Category, error)
	listPublishedFn    func(context.Context) ([]models.Category, error)
	deleteCategoryByFn func(context.Context, uint) error
}

func (s *categoryRepoStub) WithTx(tx *gorm.DB) repository.CategoryRepository { return s }
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) GetOrCreateByTitle(ctx context.Context, title, slug string) (*models.Category, error) {
	return s.getOrCreateFn(ctx, title, slug)
}
func (s *categoryRepoStub) ListPublished(ctx context.Context) ([]models.Category, error) {
	return s.listPublishedFn(ctx)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteCategoryByFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(context.Context, *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slug, IsPublished: true}, nil
		},
		getOrCreateFn: func(_ context.Context, title, slug string) (*models.Category, error) {
			return &models.Category{ID: 7, Title: title, Slug: slug, IsPublished: true}, nil
		},
		listPublishedFn:    func(context.Context) ([]models.Category, error) { return nil, nil },
		deleteCategoryByFn: func(context.Context, uint) error { return nil },
	}
}

type locationRepoStub struct {
	createFn           func(context.Context, *models.Location) error
	getByIDFn          func(context.Context, uint) (*models.Location, error)
	getBySlugFn        func(context.Context, string) (*models.Location, error)
	getOrCreateFn      func(context.Context, string, string) (*models.Location, error)
	listPublishedFn    func(context.Context) ([]models.Location, error)
	deleteLocationByFn func(context.Context, uint) error
}

func (s *locationRepoStub) WithTx(tx *gorm.DB) repository.LocationRepository { return s }
func (s *locationRepoStub) Create(ctx context.Context, location *models.Location) error {
	return s.createFn(ctx, location)
}
func (s *locationRepoStub) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	return s.getByIDFn(ctx, id)
}
func (s *locationRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Location, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *locationRepoStub) GetOrCreateByName(ctx context.Context, name, slug string) (*models.Location, error) {
	return s.getOrCreateFn(ctx, name, slug)
}
func (s *locationRepoStub) ListPublished(ctx context.Context) ([]models.Location, error) {
	return s.listPublishedFn(ctx)
}
func (s *locationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteLocationByFn(ctx, id)
}

func noopLocationRepo() *locationRepoStub {
	return &locationRepoStub{
		createFn: func(context.Context, *models.Location) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Location, error) {
			return &models.Location{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Location, error) {
			return &models.Location{ID: 1, Slug: slug, IsPublished: true}, nil
		},
		getOrCreateFn: func(_ context.Context, name, slug string) (*models.Location, error) {
			return &models.Location{ID: 9, Name: name, Slug: slug, IsPublished: true}, nil
		},
		listPublishedFn:    func(context.Context) ([]models.Location, error) { return nil, nil },
		deleteLocationByFn: func(context.Context, uint) error { return nil },
	}
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) (bool, error)
	deleteFn         func(context.Context, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	listByFollowerFn func(context.Context, uint, int, int) ([]models.Follow, int64, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Create(ctx context.Context, userID, followingID uint) (bool, error) {
	return s.createFn(ctx, userID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, userID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, userID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, userID, followingID uint) (bool, error) {
	return s.existsFn(ctx, userID, followingID)
}
func (s *followRepoStub) ListByFollower(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, int64, error) {
	return s.listByFollowerFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		deleteFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		listByFollowerFn: func(context.Context, uint, int, int) ([]models.Follow, int64, error) {
			return nil, 0, nil
		},
		followingIDsFn: func(context.Context, uint) ([]uint, error) { return nil, nil },
	}
}

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		updateFn: func(context.Context, *models.User) error { return nil },
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, comment *models.Comment) error {
			comment.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 1, UserID: 1}, nil
		},
		listByPostFn: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
		updateFn:     func(context.Context, *models.Comment) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}
