// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	opts Options
}

// Options tunes the generated data.
type Options struct {
	// SkipBcrypt stores plaintext passwords; dev fast mode only.
	SkipBcrypt bool
	// MaxDaysBack bounds how far in the past generated pub dates go.
	MaxDaysBack int
	// MaxDaysAhead bounds how far scheduled posts go into the future.
	MaxDaysAhead int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDaysBack <= 0 {
		opts.MaxDaysBack = 90
	}
	if opts.MaxDaysAhead <= 0 {
		opts.MaxDaysAhead = 14
	}
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano())), opts: opts}
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(10),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its title.
// A numeric suffix keeps generated slugs unique across a seeding run.
func (f *Factory) CreateCategory(overrides ...func(*models.Category)) (*models.Category, error) {
	title := gofakeit.BuzzWord() + " " + gofakeit.Noun()
	category := &models.Category{
		Title:       title,
		Description: gofakeit.Sentence(12),
		Slug:        fmt.Sprintf("%s-%d", slug.Make(title), gofakeit.Number(10, 9999)),
		IsPublished: true,
	}

	for _, override := range overrides {
		override(category)
	}

	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateLocation persists a location named after a generated city.
func (f *Factory) CreateLocation(overrides ...func(*models.Location)) (*models.Location, error) {
	name := gofakeit.City()
	location := &models.Location{
		Name:        name,
		Description: gofakeit.Sentence(8),
		Slug:        fmt.Sprintf("%s-%d", slug.Make(name), gofakeit.Number(10, 9999)),
		IsPublished: true,
	}

	for _, override := range overrides {
		override(location)
	}

	if err := f.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// CreatePost persists a post for the given user with a pub date spread
// across the configured past window. Roughly one in six posts is scheduled
// in the future and one in ten is kept unpublished.
func (f *Factory) CreatePost(user *models.User, category *models.Category, location *models.Location, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Text:        gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:      user.ID,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		IsPublished: f.rand.Intn(10) != 0,
		PubDate:     f.randomPubDate(),
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	if location != nil {
		post.LocationID = &location.ID
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (f *Factory) randomPubDate() time.Time {
	if f.rand.Intn(6) == 0 {
		// scheduled
		ahead := time.Duration(1+f.rand.Intn(f.opts.MaxDaysAhead*24)) * time.Hour
		return time.Now().Add(ahead)
	}
	back := time.Duration(f.rand.Intn(f.opts.MaxDaysBack*24)) * time.Hour
	return time.Now().Add(-back - time.Minute)
}

// CreateComment persists a comment on the provided post.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   gofakeit.Sentence(8),
		UserID: user.ID,
		PostID: post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge; duplicate edges are skipped.
func (f *Factory) CreateFollow(follower, author *models.User) error {
	if follower.ID == author.ID {
		return nil
	}
	follow := &models.Follow{UserID: follower.ID, FollowingID: author.ID}
	err := f.db.Create(follow).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return nil
	}
	return err
}
