package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

const postColumns = `id, url, title, summary, keywords, domain, favicon_url, created_at`

// PostRepo handles database operations for posts
type PostRepo struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Insert(ctx context.Context, post NewPost) (*Post, error) {
	keywords, err := encodeKeywords(post.Keywords)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, url, title, summary, keywords, domain, favicon_url, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		uuid.NewString(), post.URL, post.Title, post.Summary, keywords, post.Domain, post.FaviconURL,
		searchText(post.Title, post.Summary))

	stored, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return stored, nil
}

func (r *PostRepo) Get(ctx context.Context, id string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// List returns one page of posts, newest first, together with the total number of matches.
func (r *PostRepo) List(ctx context.Context, query ListQuery) ([]Post, int, error) {
	var conditions []string
	var args []any

	if query.Tag != "" {
		conditions = append(conditions,
			`EXISTS (SELECT 1 FROM json_each(posts.keywords) AS k WHERE k.value = ?)`)
		args = append(args, query.Tag)
	}

	if query.Search != "" {
		pattern := "%" + escapeLike(fold(query.Search)) + "%"
		conditions = append(conditions, `search_text LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts`+where+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`,
		append(args, limit, max(query.Offset, 0))...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, total, nil
}

// Update changes only the editable fields that are set in update.
func (r *PostRepo) Update(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	if update.IsEmpty() {
		return r.Get(ctx, id)
	}

	var sets []string
	var args []any

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *update.Summary)
	}
	if update.Keywords != nil {
		keywords, err := encodeKeywords(*update.Keywords)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "keywords = ?")
		args = append(args, keywords)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+postColumns,
		append(args, id)...)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if update.Title != nil || update.Summary != nil {
		_, err = tx.ExecContext(ctx, `UPDATE posts SET search_text = ? WHERE id = ?`,
			searchText(post.Title, post.Summary), id)
		if err != nil {
			return nil, fmt.Errorf("failed to update search text: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post update: %w", err)
	}

	return post, nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Tags returns distinct keywords across all posts, most used first.
func (r *PostRepo) Tags(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT k.value, COUNT(*) AS uses
		FROM posts, json_each(posts.keywords) AS k
		WHERE k.type = 'text' AND k.value <> ''
		GROUP BY k.value
		ORDER BY uses DESC, k.value ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		var uses int
		if err := rows.Scan(&tag, &uses); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}

func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var keywords, createdAt string

	err := row.Scan(&post.ID, &post.URL, &post.Title, &post.Summary, &keywords,
		&post.Domain, &post.FaviconURL, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keywords), &post.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords for post %s: %w", post.ID, err)
	}
	if post.Keywords == nil {
		post.Keywords = []string{}
	}

	post.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for post %s: %w", post.ID, err)
	}

	return &post, nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to encode keywords: %w", err)
	}
	return string(data), nil
}

// fold case-folds s with full Unicode rules; SQLite's LIKE only folds ASCII.
func fold(s string) string {
	return cases.Fold().String(s)
}

func searchText(title, summary string) string {
	return fold(title + "\n" + summary)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
