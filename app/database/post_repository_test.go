package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *PostRepo {
	t.Helper()

	db, err := NewConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostRepository(db)
}

func insertPost(t *testing.T, repo *PostRepo, title, summary string, keywords ...string) *Post {
	t.Helper()

	post, err := repo.Insert(context.Background(), NewPost{
		URL:        "https://example.com/" + title,
		Title:      title,
		Summary:    summary,
		Keywords:   keywords,
		Domain:     "example.com",
		FaviconURL: "https://www.google.com/s2/favicons?domain=example.com&sz=64",
	})
	require.NoError(t, err)
	return post
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := NewConnection(":memory:")
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestRunMigrationsRefusesDirtySchema(t *testing.T) {
	db, err := NewConnection(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`UPDATE schema_migrations SET dirty = 1`)
	require.NoError(t, err)

	version, dirty, err := RunMigrations(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty")
	assert.Equal(t, uint(2), version)
	assert.True(t, dirty)
}

func TestPostRepo_InsertAssignsIDAndCreatedAt(t *testing.T) {
	repo := newTestRepo(t)

	post := insertPost(t, repo, "Go Generics", "A tour of generics.", "go", "generics")

	assert.NotEmpty(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, []string{"go", "generics"}, post.Keywords)
	assert.Equal(t, "example.com", post.Domain)

	fetched, err := repo.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post, fetched)
}

func TestPostRepo_InsertNilKeywords(t *testing.T) {
	repo := newTestRepo(t)

	post := insertPost(t, repo, "Empty", "No tags.")
	assert.Equal(t, []string{}, post.Keywords)
}

func TestPostRepo_DuplicateURLsAreDistinctPosts(t *testing.T) {
	repo := newTestRepo(t)

	first := insertPost(t, repo, "same", "one")
	second := insertPost(t, repo, "same", "two")

	assert.Equal(t, first.URL, second.URL)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPostRepo_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepo_ListNewestFirstWithPaging(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertPost(t, repo, fmt.Sprintf("post-%d", i), "summary")
	}

	page, total, err := repo.List(ctx, ListQuery{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "post-4", page[0].Title)
	assert.Equal(t, "post-3", page[1].Title)

	page, total, err = repo.List(ctx, ListQuery{Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 1)
	assert.Equal(t, "post-0", page[0].Title)
}

func TestPostRepo_ListByTagIsExact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "a", "s", "ai", "ml")
	insertPost(t, repo, "b", "s", "aim", "fair")
	insertPost(t, repo, "c", "s", "AI")
	insertPost(t, repo, "d", "s", "rust", "ai")

	posts, total, err := repo.List(ctx, ListQuery{Tag: "ai", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, post := range posts {
		assert.Contains(t, post.Keywords, "ai")
	}
}

func TestPostRepo_ListSearchTitleOrSummaryCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "Kubernetes Operators", "Controllers in practice.")
	insertPost(t, repo, "Databases", "Why kubernetes is not a database.")
	insertPost(t, repo, "Rust", "Ownership explained.")

	posts, total, err := repo.List(ctx, ListQuery{Search: "KUBERNETES", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, posts, 2)
}

func TestPostRepo_ListSearchFoldsNonASCII(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "Über Go", "Notes on tooling.")
	insertPost(t, repo, "Kafka", "Kein Ärger mit Consumern.")
	insertPost(t, repo, "Ωmega", "Σύνοψη στα ελληνικά.")
	insertPost(t, repo, "Rust", "Ownership explained.")

	tests := []struct {
		search string
		want   string
	}{
		{"über", "Über Go"},
		{"ÜBER GO", "Über Go"},
		{"ärger", "Kafka"},
		{"ÄRGER", "Kafka"},
		{"ωMEGA", "Ωmega"},
		{"σύνοψη", "Ωmega"},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			posts, total, err := repo.List(ctx, ListQuery{Search: tt.search, Limit: 20})
			require.NoError(t, err)
			assert.Equal(t, 1, total)
			require.Len(t, posts, 1)
			assert.Equal(t, tt.want, posts[0].Title)
		})
	}
}

func TestPostRepo_UpdateRefreshesSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := insertPost(t, repo, "Draft", "placeholder")

	title := "Ärger im Cluster"
	_, err := repo.Update(ctx, created.ID, PostUpdate{Title: &title})
	require.NoError(t, err)

	_, total, err := repo.List(ctx, ListQuery{Search: "ärger", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = repo.List(ctx, ListQuery{Search: "draft", Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)

	keywords := []string{"k8s"}
	_, err = repo.Update(ctx, created.ID, PostUpdate{Keywords: &keywords})
	require.NoError(t, err)

	_, total, err = repo.List(ctx, ListQuery{Search: "ÄRGER", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestPostRepo_ListSearchEscapesWildcards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "100% uptime", "s")
	insertPost(t, repo, "100 ways", "s")

	posts, _, err := repo.List(ctx, ListQuery{Search: "100%", Limit: 20})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "100% uptime", posts[0].Title)
}

func TestPostRepo_ListTagAndSearchCombined(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "LLM agents", "s", "ai")
	insertPost(t, repo, "Vector search", "s", "ai")
	insertPost(t, repo, "LLM costs", "s", "finance")

	posts, total, err := repo.List(ctx, ListQuery{Tag: "ai", Search: "llm", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "LLM agents", posts[0].Title)
}

func TestPostRepo_UpdateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := insertPost(t, repo, "original", "summary", "a", "b")

	keywords := []string{"c"}
	updated, err := repo.Update(ctx, created.ID, PostUpdate{Keywords: &keywords})
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, updated.Keywords)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.URL, updated.URL)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Summary, updated.Summary)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestPostRepo_UpdateTitleAndSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := insertPost(t, repo, "old", "old summary", "x")

	title, summary := "new", "new summary"
	updated, err := repo.Update(ctx, created.ID, PostUpdate{Title: &title, Summary: &summary})
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new summary", updated.Summary)
	assert.Equal(t, []string{"x"}, updated.Keywords)
}

func TestPostRepo_UpdateNotFound(t *testing.T) {
	repo := newTestRepo(t)

	title := "x"
	_, err := repo.Update(context.Background(), "missing", PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(context.Background(), "missing", PostUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepo_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := insertPost(t, repo, "gone", "s")

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)
}

func TestPostRepo_TagsMostUsedFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertPost(t, repo, "1", "s", "go", "ai")
	insertPost(t, repo, "2", "s", "ai")
	insertPost(t, repo, "3", "s", "rust", "ai", "go")

	tags, err := repo.Tags(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "go", "rust"}, tags)

	tags, err = repo.Tags(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai"}, tags)
}

func TestPostRepo_Count(t *testing.T) {
	repo := newTestRepo(t)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	insertPost(t, repo, "one", "s")

	count, err = repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
