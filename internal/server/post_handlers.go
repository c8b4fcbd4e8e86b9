package server

import (
	"time"

	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the body of post create/update requests. Exactly one of
// category/category_user and one of location/location_user must be set;
// the service enforces that.
type postRequest struct {
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	PubDate      time.Time `json:"pub_date"`
	ImageURL     string    `json:"image_url,omitempty"`
	CategoryID   *uint     `json:"category,omitempty"`
	CategoryName string    `json:"category_user,omitempty"`
	LocationID   *uint     `json:"location,omitempty"`
	LocationName string    `json:"location_user,omitempty"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:       userID,
		Title:        req.Title,
		Text:         req.Text,
		PubDate:      req.PubDate,
		ImageURL:     req.ImageURL,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		LocationID:   req.LocationID,
		LocationName: req.LocationName,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPosts(c.Context(), parsePage(c), optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:       userID,
		PostID:       postID,
		Title:        req.Title,
		Text:         req.Text,
		PubDate:      req.PubDate,
		ImageURL:     req.ImageURL,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		LocationID:   req.LocationID,
		LocationName: req.LocationName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
