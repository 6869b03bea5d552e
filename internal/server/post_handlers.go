package server

import (
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest-first page of posts whose title, content, tag names or author username contain q (case-insensitive). Out-of-range pages are clamped.
// @Tags posts
// @Produce json
// @Param q query string false "Search text"
// @Param page query string false "Page number" default(1)
// @Success 200 {object} PageResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	in := listInput(c)
	page, err := s.postService.ListPosts(c.UserContext(), in)
	if err != nil {
		return models.Respond(c, err)
	}

	resp := newPageResponse(page)
	resp.Query = in.Query
	return c.JSON(resp)
}

// GetPostsFragment handles GET /api/posts/fragment
// @Summary Post list fragment
// @Description Rendered HTML for one listing page plus the state needed to load the next one.
// @Tags posts
// @Produce json
// @Param q query string false "Search text"
// @Param page query string false "Page number" default(1)
// @Success 200 {object} render.Fragment
// @Router /posts/fragment [get]
func (s *Server) GetPostsFragment(c *fiber.Ctx) error {
	frag, err := s.postService.ListFragment(c.UserContext(), listInput(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(frag)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Existing tags are selected by id; new_tags is a comma-separated list of names created on demand.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,image_url=string,tag_ids=[]int,new_tags=string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
		TagIDs   []uint `json:"tag_ids"`
		NewTags  string `json:"new_tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		TagIDs:   req.TagIDs,
		NewTags:  req.NewTags,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Description Omitted fields are unchanged. tag_ids replaces the selected tags; new_tags are added.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,content=string,image_url=string,tag_ids=[]int,new_tags=string} true "Changes"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		ImageURL *string `json:"image_url"`
		TagIDs   *[]uint `json:"tag_ids"`
		NewTags  string  `json:"new_tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		TagIDs:   req.TagIDs,
		NewTags:  req.NewTags,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
