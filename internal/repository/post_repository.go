package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// DefaultPageSize is the number of posts per listing page.
const DefaultPageSize = 10

// PostFilter captures listing parameters.
type PostFilter struct {
	Status domain.PostStatus
	Search string
	Limit  int
	Offset int
}

// PostUpdate holds the optional fields of a partial update. Nil fields are left unchanged.
type PostUpdate struct {
	Title            *string
	Slug             *string
	Body             *string
	CoverMediaURL    *string
	MediaType        *domain.MediaType
	MediaAttribution *string
}

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, int, error)
	Update(ctx context.Context, id int64, update PostUpdate) error
	SoftDelete(ctx context.Context, id int64) error
	AuthorID(ctx context.Context, id int64) (int64, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

type postRepository struct {
	db DBTX
}

// NewPostRepository instantiates repository.
func NewPostRepository(db DBTX) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `p.id, p.title, p.slug, p.body, p.author_id, u.email, p.cover_media_url,
               p.media_type, p.media_attribution, p.status, p.created_at, p.updated_at`

const postFrom = `FROM posts p JOIN users u ON p.author_id = u.id`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (title, slug, body, author_id, cover_media_url, media_type, media_attribution, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	if post.MediaType == "" {
		post.MediaType = domain.MediaTypeImage
	}
	if post.Status == "" {
		post.Status = domain.PostStatusActive
	}
	return r.db.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Body,
		post.AuthorID,
		post.CoverMediaURL,
		post.MediaType,
		post.MediaAttribution,
		post.Status,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postFrom + ` WHERE p.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postFrom + ` WHERE p.slug=$1 AND p.status='active'`
	return r.fetchSingle(ctx, query, slug)
}

func (r *postRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]domain.Post, int, error) {
	where, args := buildListWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) ` + postFrom + ` WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`,
		postColumns, postFrom, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, id int64, update PostUpdate) error {
	query, args := buildUpdate(id, update)
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE posts SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, domain.PostStatusDeleted, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) AuthorID(ctx context.Context, id int64) (int64, error) {
	var authorID int64
	if err := r.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id=$1`, id).Scan(&authorID); err != nil {
		return 0, err
	}
	return authorID, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug=$1`
	args := []any{slug}
	if excludeID > 0 {
		args = append(args, excludeID)
		query += ` AND id != $2`
	}
	query += `)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func buildListWhere(filter PostFilter) (string, []any) {
	status := filter.Status
	if status == "" {
		status = domain.PostStatusActive
	}
	args := []any{status}
	clauses := []string{"p.status=$1"}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR u.email ILIKE %s)", placeholder, placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

func buildUpdate(id int64, update PostUpdate) (string, []any) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Slug != nil {
		add("slug", *update.Slug)
	}
	if update.Body != nil {
		add("body", *update.Body)
	}
	if update.CoverMediaURL != nil {
		add("cover_media_url", *update.CoverMediaURL)
	}
	if update.MediaType != nil {
		add("media_type", *update.MediaType)
	}
	if update.MediaAttribution != nil {
		add("media_attribution", *update.MediaAttribution)
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))
	return query, args
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Body,
		&post.AuthorID,
		&post.AuthorEmail,
		&post.CoverMediaURL,
		&post.MediaType,
		&post.MediaAttribution,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
