package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// PostsHandler serves the post CRUD endpoints.
type PostsHandler struct {
	posts *service.PostService
	auth  *auth.AuthMiddleware
}

// NewPostsHandler builds the handler. authMiddleware resolves callers for
// posts whose visibility depends on their status.
func NewPostsHandler(posts *service.PostService, authMiddleware *auth.AuthMiddleware) *PostsHandler {
	return &PostsHandler{posts: posts, auth: authMiddleware}
}

// Create stores a post authored by the caller.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Token required")
	}

	var req dto.CreatePostRequest
	decodeBody(c, &req)
	if req.Title == nil || req.Body == nil {
		return apperrors.NewBadRequest("Title and body required")
	}

	post, err := h.posts.Create(c.UserContext(), principal, service.PostCreateInput{
		Title:            *req.Title,
		Body:             *req.Body,
		CoverMediaURL:    req.CoverMediaURL,
		MediaType:        req.MediaType,
		MediaAttribution: req.MediaAttribution,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.PostCreatedResponse{
		ID:      post.ID,
		Slug:    post.Slug,
		Message: "Post created successfully",
	})
}

// List returns one page of posts filtered by status and search text.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	page, err := h.posts.List(c.UserContext(), service.PostListQuery{
		Page:   c.QueryInt("page", 1),
		Search: c.Query("search"),
		Status: ListStatus(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(page))
}

// Get returns a single post. Posts that are not active are only visible to
// authenticated callers.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post.Status != domain.PostStatusActive {
		if _, err := h.auth.Resolve(c); err != nil {
			return err
		}
	}
	return c.JSON(dto.NewPostResponse(post))
}

// Update applies a partial update for the author or an admin.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Token required")
	}
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	decodeBody(c, &req)
	if err := h.posts.Update(c.UserContext(), principal, id, service.PostUpdateInput{
		Title:            req.Title,
		Slug:             req.Slug,
		Body:             req.Body,
		CoverMediaURL:    req.CoverMediaURL,
		MediaType:        req.MediaType,
		MediaAttribution: req.MediaAttribution,
	}); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Post updated successfully"})
}

// Delete soft-deletes a post for the author or an admin.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Token required")
	}
	id, err := postID(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Post deleted successfully"})
}

// ListStatus is the status filter requested by a listing call, active by default.
func ListStatus(c *fiber.Ctx) domain.PostStatus {
	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		return domain.PostStatusActive
	}
	return domain.PostStatus(status)
}

func postID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("Post not found")
	}
	return int64(id), nil
}
