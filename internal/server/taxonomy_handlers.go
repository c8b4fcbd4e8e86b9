package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.postService.ListCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryPosts handles GET /api/categories/:slug
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	category, page, err := s.postService.ListCategoryPosts(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"category": category,
		"posts":    page.Posts,
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
	})
}

// GetLocations handles GET /api/locations
func (s *Server) GetLocations(c *fiber.Ctx) error {
	locations, err := s.postService.ListLocations(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(locations)
}

// GetLocationPosts handles GET /api/locations/:slug
func (s *Server) GetLocationPosts(c *fiber.Ctx) error {
	location, page, err := s.postService.ListLocationPosts(c.Context(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"location": location,
		"posts":    page.Posts,
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
	})
}
