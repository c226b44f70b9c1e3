package http

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newMemoryUsers(users ...*domain.User) *memoryUsers {
	m := &memoryUsers{users: map[int64]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) email(id int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u.Email
	}
	return ""
}

type memoryPosts struct {
	mu      sync.Mutex
	users   *memoryUsers
	posts   map[int64]*domain.Post
	nextID  int64
	listErr error
}

func newMemoryPosts(users *memoryUsers) *memoryPosts {
	return &memoryPosts{users: users, posts: map[int64]*domain.Post{}}
}

// seed stores a post directly, bypassing slug generation.
func (m *memoryPosts) seed(post domain.Post) *domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	post.ID = m.nextID
	post.AuthorEmail = m.users.email(post.AuthorID)
	if post.MediaType == "" {
		post.MediaType = domain.MediaTypeImage
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	m.posts[post.ID] = &post
	return &post
}

func (m *memoryPosts) Create(_ context.Context, post *domain.Post) error {
	stored := m.seed(*post)
	post.ID = stored.ID
	post.AuthorEmail = stored.AuthorEmail
	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *memoryPosts) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryPosts) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && p.Status == domain.PostStatusActive {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryPosts) List(_ context.Context, filter repository.PostFilter) ([]domain.Post, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(filter.Search)
	var matched []domain.Post
	for _, p := range m.posts {
		if p.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.AuthorEmail), search) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	return matched[start:end], total, nil
}

func (m *memoryPosts) Update(_ context.Context, id int64, update repository.PostUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Slug != nil {
		p.Slug = *update.Slug
	}
	if update.Body != nil {
		p.Body = *update.Body
	}
	if update.CoverMediaURL != nil {
		p.CoverMediaURL = update.CoverMediaURL
	}
	if update.MediaType != nil {
		p.MediaType = *update.MediaType
	}
	if update.MediaAttribution != nil {
		p.MediaAttribution = update.MediaAttribution
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memoryPosts) SoftDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = domain.PostStatusDeleted
	return nil
}

func (m *memoryPosts) AuthorID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		return p.AuthorID, nil
	}
	return 0, pgx.ErrNoRows
}

func (m *memoryPosts) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

var errUnreachable = errors.New("connection refused")
