package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CreatePostRequest payload.
type CreatePostRequest struct {
	Title            *string          `json:"title"`
	Body             *string          `json:"body"`
	CoverMediaURL    *string          `json:"cover_media_url"`
	MediaType        domain.MediaType `json:"media_type"`
	MediaAttribution *string          `json:"media_attribution"`
}

// UpdatePostRequest payload. Omitted fields are left unchanged.
type UpdatePostRequest struct {
	Title            *string           `json:"title"`
	Slug             *string           `json:"slug"`
	Body             *string           `json:"body"`
	CoverMediaURL    *string           `json:"cover_media_url"`
	MediaType        *domain.MediaType `json:"media_type"`
	MediaAttribution *string           `json:"media_attribution"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Body             string            `json:"body"`
	AuthorID         int64             `json:"author_id"`
	AuthorEmail      string            `json:"author_email"`
	CoverMediaURL    *string           `json:"cover_media_url"`
	MediaType        domain.MediaType  `json:"media_type"`
	MediaAttribution *string           `json:"media_attribution"`
	Status           domain.PostStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// PostListResponse is one page of posts.
type PostListResponse struct {
	Posts       []PostResponse `json:"posts"`
	Total       int            `json:"total"`
	Pages       int            `json:"pages"`
	CurrentPage int            `json:"current_page"`
}

// PostCreatedResponse is returned by POST /posts.
type PostCreatedResponse struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewPostResponse maps a domain post.
func NewPostResponse(post *domain.Post) PostResponse {
	return PostResponse{
		ID:               post.ID,
		Title:            post.Title,
		Slug:             post.Slug,
		Body:             post.Body,
		AuthorID:         post.AuthorID,
		AuthorEmail:      post.AuthorEmail,
		CoverMediaURL:    post.CoverMediaURL,
		MediaType:        post.MediaType,
		MediaAttribution: post.MediaAttribution,
		Status:           post.Status,
		CreatedAt:        post.CreatedAt,
		UpdatedAt:        post.UpdatedAt,
	}
}

// NewPostListResponse maps a domain page.
func NewPostListResponse(page *domain.PostPage) PostListResponse {
	posts := make([]PostResponse, 0, len(page.Posts))
	for i := range page.Posts {
		posts = append(posts, NewPostResponse(&page.Posts[i]))
	}
	return PostListResponse{
		Posts:       posts,
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.CurrentPage,
	}
}
