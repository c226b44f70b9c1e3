package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

// stubDB records the last statement and returns canned results.
type stubDB struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	err  error
	row  pgx.Row
}

func (s *stubDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.sql, s.args = sql, args
	return s.tag, s.err
}

func (s *stubDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.sql, s.args = sql, args
	return nil, errors.New("not implemented")
}

func (s *stubDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.sql, s.args = sql, args
	return s.row
}

type scanRow struct {
	values []any
	err    error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *bool:
			*d = v.(bool)
		}
	}
	return nil
}

func TestBuildListWhere(t *testing.T) {
	where, args := buildListWhere(PostFilter{})
	assert.Equal(t, "p.status=$1", where)
	assert.Equal(t, []any{domain.PostStatusActive}, args)

	where, args = buildListWhere(PostFilter{Status: domain.PostStatusDraft, Search: " go "})
	assert.Equal(t, "p.status=$1 AND (p.title ILIKE $2 OR u.email ILIKE $2)", where)
	assert.Equal(t, []any{domain.PostStatusDraft, "%go%"}, args)
}

func TestBuildUpdate(t *testing.T) {
	title, slug := "New", "new"
	media := domain.MediaTypeVideo

	query, args := buildUpdate(7, PostUpdate{Title: &title, Slug: &slug, MediaType: &media})
	assert.Equal(t, "UPDATE posts SET title=$1, slug=$2, media_type=$3, updated_at=NOW() WHERE id=$4", query)
	assert.Equal(t, []any{"New", "new", domain.MediaTypeVideo, int64(7)}, args)

	query, args = buildUpdate(7, PostUpdate{})
	assert.Equal(t, "UPDATE posts SET updated_at=NOW() WHERE id=$1", query)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestNormalizePage(t *testing.T) {
	limit, offset := normalizePage(0, -5)
	assert.Equal(t, DefaultPageSize, limit)
	assert.Equal(t, 0, offset)

	limit, offset = normalizePage(25, 50)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}

func TestPostRepository_UpdateAndDeleteReportMissingRows(t *testing.T) {
	db := &stubDB{tag: pgconn.NewCommandTag("UPDATE 0")}
	repo := NewPostRepository(db)
	body := "b"

	err := repo.Update(context.Background(), 3, PostUpdate{Body: &body})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	err = repo.SoftDelete(context.Background(), 3)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, []any{domain.PostStatusDeleted, int64(3)}, db.args)

	db.tag = pgconn.NewCommandTag("UPDATE 1")
	require.NoError(t, repo.SoftDelete(context.Background(), 3))
}

func TestPostRepository_SlugExists(t *testing.T) {
	db := &stubDB{row: scanRow{values: []any{true}}}
	repo := NewPostRepository(db)

	exists, err := repo.SlugExists(context.Background(), "hello", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM posts WHERE slug=$1)", db.sql)

	_, err = repo.SlugExists(context.Background(), "hello", 4)
	require.NoError(t, err)
	assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM posts WHERE slug=$1 AND id != $2)", db.sql)
	assert.Equal(t, []any{"hello", int64(4)}, db.args)
}

func TestPostRepository_AuthorID(t *testing.T) {
	db := &stubDB{row: scanRow{values: []any{int64(12)}}}
	id, err := NewPostRepository(db).AuthorID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	db.row = scanRow{err: pgx.ErrNoRows}
	_, err = NewPostRepository(db).AuthorID(context.Background(), 5)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
