package server

import (
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// GetTags handles GET /api/tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.postService.ListTags(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return c.JSON(tags)
}

// GetTagPosts handles GET /api/tags/:slug/posts
// @Summary Posts with tag
// @Tags tags
// @Produce json
// @Param slug path string true "Tag slug"
// @Param page query string false "Page number" default(1)
// @Success 200 {object} PageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/{slug}/posts [get]
func (s *Server) GetTagPosts(c *fiber.Ctx) error {
	tag, page, err := s.postService.PostsByTag(c.UserContext(), utils.CopyString(c.Params("slug")), utils.CopyString(c.Query("page")))
	if err != nil {
		return models.Respond(c, err)
	}

	resp := newPageResponse(page)
	resp.Tag = tag
	return c.JSON(resp)
}
