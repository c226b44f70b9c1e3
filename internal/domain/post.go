package domain

import "time"

// PostStatus enumerates lifecycle states for posts.
type PostStatus string

const (
	PostStatusActive  PostStatus = "active"
	PostStatusDraft   PostStatus = "draft"
	PostStatusDeleted PostStatus = "deleted"
)

// MediaType describes the kind of cover media attached to a post.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is one the store accepts.
func (m MediaType) Valid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// Post is the aggregate for blog entries.
type Post struct {
	ID               int64
	Title            string
	Slug             string
	Body             string
	AuthorID         int64
	AuthorEmail      string
	CoverMediaURL    *string
	MediaType        MediaType
	MediaAttribution *string
	Status           PostStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts       []Post
	Total       int
	Pages       int
	CurrentPage int
}
