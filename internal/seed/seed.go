package seed

import (
	"fmt"
	"log"

	"blogicum/internal/database"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// Seeder orchestrates demo-data generation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default factory options.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, Options{})}
}

// ClearAll removes all seeded rows in dependency order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []interface{}{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Category{},
		&models.Location{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// Migrate runs auto-migration for every model the seeder touches.
func (s *Seeder) Migrate() error {
	return s.db.AutoMigrate(database.Models()...)
}

// SeedBlog populates users, categories, locations, posts, comments and the
// follow graph. Returns the created users.
func (s *Seeder) SeedBlog(numUsers, numPosts int) ([]*models.User, error) {
	log.Printf("Seeding %d users and %d posts...", numUsers, numPosts)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	numCategories := numUsers/10 + 3
	categories := make([]*models.Category, 0, numCategories)
	for i := 0; i < numCategories; i++ {
		published := i%5 != 4 // keep some hidden
		category, err := s.factory.CreateCategory(func(c *models.Category) {
			c.IsPublished = published
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create category: %w", err)
		}
		categories = append(categories, category)
	}

	locations := make([]*models.Location, 0, numCategories)
	for i := 0; i < numCategories; i++ {
		location, err := s.factory.CreateLocation()
		if err != nil {
			return nil, fmt.Errorf("failed to create location: %w", err)
		}
		locations = append(locations, location)
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		category := categories[s.factory.rand.Intn(len(categories))]
		var location *models.Location
		if s.factory.rand.Intn(4) != 0 {
			location = locations[s.factory.rand.Intn(len(locations))]
		}
		post, err := s.factory.CreatePost(author, category, location)
		if err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}

	// Comments on roughly half the posts.
	for _, post := range posts {
		for i := 0; i < s.factory.rand.Intn(4); i++ {
			commenter := users[s.factory.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
		}
	}

	// A handful of follow edges per user.
	for _, follower := range users {
		for i := 0; i < s.factory.rand.Intn(5); i++ {
			author := users[s.factory.rand.Intn(len(users))]
			if err := s.factory.CreateFollow(follower, author); err != nil {
				return nil, fmt.Errorf("failed to create follow: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users, %d categories, %d locations, %d posts",
		len(users), len(categories), len(locations), len(posts))
	return users, nil
}
