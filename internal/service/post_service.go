package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

var errPostNotFound = apperrors.NewNotFound("Post not found")

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Title            string
	Body             string
	CoverMediaURL    *string
	MediaType        domain.MediaType
	MediaAttribution *string
}

// PostUpdateInput describes a partial update. Nil fields are left unchanged, and
// a new title keeps the existing slug unless Slug is also set.
type PostUpdateInput struct {
	Title            *string
	Slug             *string
	Body             *string
	CoverMediaURL    *string
	MediaType        *domain.MediaType
	MediaAttribution *string
}

// PostListQuery describes listing parameters.
type PostListQuery struct {
	Page   int
	Search string
	Status domain.PostStatus
}

// PostService coordinates post workflows.
type PostService struct {
	posts  repository.PostRepository
	bus    events.Bus
	logger *zap.Logger
}

// NewPostService builds the service. bus may be nil.
func NewPostService(posts repository.PostRepository, bus events.Bus, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{posts: posts, bus: bus, logger: logger}
}

// Create stores a new post authored by the principal.
func (s *PostService) Create(ctx context.Context, principal *auth.Principal, input PostCreateInput) (*domain.Post, error) {
	authorID, err := subjectID(principal)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, apperrors.NewBadRequest("Title and body required")
	}
	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = domain.MediaTypeImage
	}
	if !mediaType.Valid() {
		return nil, apperrors.NewBadRequest("media_type must be image or video")
	}

	slug, err := uniqueSlug(ctx, title, 0, s.posts.SlugExists)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:            title,
		Slug:             slug,
		Body:             body,
		AuthorID:         authorID,
		CoverMediaURL:    input.CoverMediaURL,
		MediaType:        mediaType,
		MediaAttribution: input.MediaAttribution,
		Status:           domain.PostStatusActive,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventPostCreated, post.ID, actorOf(principal),
		events.PostCreatedPayload{Slug: post.Slug, Status: post.Status}))
	return post, nil
}

// List returns one page of posts with the given status.
func (s *PostService) List(ctx context.Context, query PostListQuery) (*domain.PostPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	status := query.Status
	if status == "" {
		status = domain.PostStatusActive
	}

	posts, total, err := s.posts.List(ctx, repository.PostFilter{
		Status: status,
		Search: query.Search,
		Limit:  repository.DefaultPageSize,
		Offset: (page - 1) * repository.DefaultPageSize,
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return &domain.PostPage{
		Posts:       posts,
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(repository.DefaultPageSize))),
		CurrentPage: page,
	}, nil
}

// Get loads a post by id regardless of status.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetActiveBySlug loads an active post by slug.
func (s *PostService) GetActiveBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// CanEdit reports whether the principal may modify the post: its author or an admin.
func (s *PostService) CanEdit(ctx context.Context, principal *auth.Principal, id int64) (bool, error) {
	if principal == nil {
		return false, nil
	}
	authorID, err := s.posts.AuthorID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, errPostNotFound
		}
		return false, err
	}
	return auth.Owns(principal, authorID), nil
}

// Update applies a partial update. A changed title regenerates the slug.
func (s *PostService) Update(ctx context.Context, principal *auth.Principal, id int64, input PostUpdateInput) error {
	allowed, err := s.CanEdit(ctx, principal, id)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.NewForbidden("Not authorized to edit this post")
	}

	update := repository.PostUpdate{
		CoverMediaURL:    input.CoverMediaURL,
		MediaType:        input.MediaType,
		MediaAttribution: input.MediaAttribution,
	}
	fields := []string{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return apperrors.NewBadRequest("title must not be empty")
		}
		update.Title = &title
		fields = append(fields, "title")
	}
	if input.Slug != nil {
		requested := strings.TrimSpace(*input.Slug)
		if requested == "" {
			return apperrors.NewBadRequest("slug must not be empty")
		}
		slug, err := uniqueSlug(ctx, requested, id, s.posts.SlugExists)
		if err != nil {
			return err
		}
		update.Slug = &slug
		fields = append(fields, "slug")
	}
	if input.Body != nil {
		body := strings.TrimSpace(*input.Body)
		if body == "" {
			return apperrors.NewBadRequest("body must not be empty")
		}
		update.Body = &body
		fields = append(fields, "body")
	}
	if input.MediaType != nil {
		if !input.MediaType.Valid() {
			return apperrors.NewBadRequest("media_type must be image or video")
		}
		fields = append(fields, "media_type")
	}
	if input.CoverMediaURL != nil {
		fields = append(fields, "cover_media_url")
	}
	if input.MediaAttribution != nil {
		fields = append(fields, "media_attribution")
	}

	if err := s.posts.Update(ctx, id, update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errPostNotFound
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventPostUpdated, id, actorOf(principal),
		events.PostUpdatedPayload{Fields: fields}))
	return nil
}

// Delete soft-deletes the post by marking it deleted.
func (s *PostService) Delete(ctx context.Context, principal *auth.Principal, id int64) error {
	allowed, err := s.CanEdit(ctx, principal, id)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.NewForbidden("Not authorized to delete this post")
	}

	if err := s.posts.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errPostNotFound
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventPostDeleted, id, actorOf(principal), nil))
	return nil
}

func (s *PostService) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func subjectID(principal *auth.Principal) (int64, error) {
	if principal == nil {
		return 0, apperrors.NewUnauthorized("Token required")
	}
	id, err := strconv.ParseInt(principal.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewForbidden("principal is not a user account")
	}
	return id, nil
}

func actorOf(principal *auth.Principal) events.Actor {
	if principal == nil {
		return events.Actor{}
	}
	return events.Actor{Subject: principal.Subject, Role: principal.Role}
}
