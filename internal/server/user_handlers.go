package server

import (
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Home handles GET /
func (s *Server) Home(c *fiber.Ctx) error {
	if _, ok := s.optionalUserID(c); ok {
		return c.Redirect("/api/users/me", fiber.StatusFound)
	}
	return c.Redirect("/api/posts", fiber.StatusFound)
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(user)
}

// GetMyPosts handles GET /api/users/me/posts
// @Summary Current user's posts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query string false "Page number" default(1)
// @Success 200 {object} PageResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page, err := s.postService.UserPosts(c.UserContext(), currentUserID(c), utils.CopyString(c.Query("page")))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(newPageResponse(page))
}
