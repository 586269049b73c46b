package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func setupTestSource(t *testing.T, db *DB) int64 {
	t.Helper()

	id, err := NewSourceRepository(db).UpsertSource(context.Background(),
		"Test Source", "https://example.com/feed.xml", "https://example.com", "example.com")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestArticleRepo_InsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	sourceID := setupTestSource(t, db)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	inserted, err := repo.InsertArticles(ctx, []Article{{
		SourceID:    sourceID,
		URL:         "https://example.com/story",
		Title:       "Test Story",
		Summary:     "A summary.",
		Content:     "The full body text.",
		ImageURL:    "https://example.com/img.jpg",
		PublishedAt: &published,
		IngestedAt:  time.Now().UTC(),
		TeamTags:    "|tottenham|",
		Score:       21,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 1 {
		t.Fatalf("Expected 1 row inserted, got %d", inserted)
	}

	article, err := repo.GetArticleByURL(ctx, "https://example.com/story")
	if err != nil {
		t.Fatal(err)
	}
	if article == nil {
		t.Fatal("Expected article, got nil")
	}

	if article.Title != "Test Story" {
		t.Errorf("Expected title 'Test Story', got %q", article.Title)
	}
	if article.Content != "The full body text." {
		t.Errorf("Expected content, got %q", article.Content)
	}
	if article.PublishedAt == nil || !article.PublishedAt.Equal(published) {
		t.Errorf("Expected published %v, got %v", published, article.PublishedAt)
	}
	if article.SourceName != "Test Source" {
		t.Errorf("Expected joined source name, got %q", article.SourceName)
	}
	if article.SourceSiteURL != "https://example.com" {
		t.Errorf("Expected joined site URL, got %q", article.SourceSiteURL)
	}
	if got := article.Tags(); len(got) != 1 || got[0] != "tottenham" {
		t.Errorf("Expected tags [tottenham], got %v", got)
	}
}

func TestArticleRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArticleRepository(db)

	article, err := repo.GetArticleByURL(context.Background(), "https://example.com/nope")
	if err != nil {
		t.Fatal(err)
	}
	if article != nil {
		t.Errorf("Expected nil for missing URL, got %+v", article)
	}
}

func TestArticleRepo_DuplicateURLSkipped(t *testing.T) {
	db := setupTestDB(t)
	sourceID := setupTestSource(t, db)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	row := Article{
		SourceID:   sourceID,
		URL:        "https://example.com/story",
		Title:      "Original",
		IngestedAt: time.Now().UTC(),
	}

	if _, err := repo.InsertArticles(ctx, []Article{row}); err != nil {
		t.Fatal(err)
	}

	row.Title = "Attempted Overwrite"
	inserted, err := repo.InsertArticles(ctx, []Article{row})
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 0 {
		t.Errorf("Expected 0 rows for duplicate URL, got %d", inserted)
	}

	article, err := repo.GetArticleByURL(ctx, "https://example.com/story")
	if err != nil {
		t.Fatal(err)
	}
	if article.Title != "Original" {
		t.Errorf("Expected first write to win, got title %q", article.Title)
	}
}

func TestArticleRepo_ListPage(t *testing.T) {
	db := setupTestDB(t)
	sourceID := setupTestSource(t, db)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	var rows []Article
	for i := 1; i <= 5; i++ {
		rows = append(rows, Article{
			SourceID:   sourceID,
			URL:        "https://example.com/story-" + string(rune('a'+i-1)),
			Title:      "Story",
			IngestedAt: time.Now().UTC(),
		})
	}
	if _, err := repo.InsertArticles(ctx, rows); err != nil {
		t.Fatal(err)
	}

	page, err := repo.ListPage(ctx, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i].ID >= page[i-1].ID {
			t.Errorf("Expected descending ids, got %d then %d", page[i-1].ID, page[i].ID)
		}
	}

	next, err := repo.ListPage(ctx, page[len(page)-1].ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 2 {
		t.Fatalf("Expected 2 remaining articles, got %d", len(next))
	}
	for _, a := range next {
		if a.ID >= page[len(page)-1].ID {
			t.Errorf("Expected ids below cursor %d, got %d", page[len(page)-1].ID, a.ID)
		}
	}
}

func TestArticleRepo_ImageBackfillQueries(t *testing.T) {
	db := setupTestDB(t)
	sourceID := setupTestSource(t, db)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	if _, err := repo.InsertArticles(ctx, []Article{
		{SourceID: sourceID, URL: "https://example.com/no-image", IngestedAt: time.Now().UTC()},
		{SourceID: sourceID, URL: "https://example.com/has-image", ImageURL: "https://example.com/x.jpg", IngestedAt: time.Now().UTC()},
	}); err != nil {
		t.Fatal(err)
	}

	missing, err := repo.ListArticlesWithoutImage(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 1 {
		t.Fatalf("Expected 1 article without image, got %d", len(missing))
	}
	if missing[0].URL != "https://example.com/no-image" {
		t.Errorf("Expected imageless article, got %q", missing[0].URL)
	}

	if err := repo.UpdateArticleImage(ctx, missing[0].ID, "https://example.com/new.jpg"); err != nil {
		t.Fatal(err)
	}

	missing, err = repo.ListArticlesWithoutImage(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no articles without image after backfill, got %d", len(missing))
	}

	updated, err := repo.GetArticleByURL(ctx, "https://example.com/no-image")
	if err != nil {
		t.Fatal(err)
	}
	if updated.ImageURL != "https://example.com/new.jpg" {
		t.Errorf("Expected patched image URL, got %q", updated.ImageURL)
	}
}

func TestArticleRepo_Count(t *testing.T) {
	db := setupTestDB(t)
	sourceID := setupTestSource(t, db)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	count, err := repo.GetArticleCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected 0 articles, got %d", count)
	}

	if _, err := repo.InsertArticles(ctx, []Article{
		{SourceID: sourceID, URL: "https://example.com/one", IngestedAt: time.Now().UTC()},
	}); err != nil {
		t.Fatal(err)
	}

	count, err = repo.GetArticleCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 article, got %d", count)
	}
}
