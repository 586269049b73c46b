package query

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/edesbois77/clubfeed/app/config"
	"github.com/edesbois77/clubfeed/app/database"
	"github.com/edesbois77/clubfeed/app/relevance"
)

// fakeArticleRepo serves ListPage over an in-memory slice the way the real
// repository does: id descending, below the cursor.
type fakeArticleRepo struct {
	articles []database.Article
}

func (f *fakeArticleRepo) ListPage(ctx context.Context, beforeID int64, limit int) ([]database.Article, error) {
	sorted := make([]database.Article, len(f.articles))
	copy(sorted, f.articles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	var page []database.Article
	for _, a := range sorted {
		if beforeID > 0 && a.ID >= beforeID {
			continue
		}
		page = append(page, a)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (f *fakeArticleRepo) GetArticleByURL(ctx context.Context, url string) (*database.Article, error) {
	return nil, nil
}

func (f *fakeArticleRepo) InsertArticles(ctx context.Context, articles []database.Article) (int, error) {
	return 0, nil
}

func (f *fakeArticleRepo) GetArticleCount(ctx context.Context) (int, error) {
	return len(f.articles), nil
}

func (f *fakeArticleRepo) ListArticlesWithoutImage(ctx context.Context, limit int) ([]database.Article, error) {
	return nil, nil
}

func (f *fakeArticleRepo) UpdateArticleImage(ctx context.Context, id int64, imageURL string) error {
	return nil
}

func testService(articles []database.Article) *Service {
	scorer := relevance.NewScorer([]config.Team{{
		Slug:    "tottenham",
		Aliases: []string{"tottenham", "spurs"},
		Domains: []string{"spurs-web.com"},
	}})
	return NewService(&fakeArticleRepo{articles: articles}, scorer)
}

func makeArticles(n int) []database.Article {
	base := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	articles := make([]database.Article, 0, n)
	for i := 1; i <= n; i++ {
		published := base.Add(time.Duration(i) * time.Hour)
		articles = append(articles, database.Article{
			ID:          int64(i),
			URL:         fmt.Sprintf("https://example.com/story-%d", i),
			Title:       fmt.Sprintf("Story %d", i),
			PublishedAt: &published,
			SourceName:  "Example",
		})
	}
	return articles
}

func TestService_PaginationWalk(t *testing.T) {
	svc := testService(makeArticles(47))

	seen := make(map[int64]bool)
	cursor := int64(0)
	pages := 0

	for {
		page, err := svc.Query(context.Background(), Params{Cursor: cursor, Take: 10})
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Items) == 0 {
			if page.NextCursor != nil {
				t.Error("Expected nil cursor on empty page")
			}
			break
		}

		for _, a := range page.Items {
			if seen[a.ID] {
				t.Errorf("Article %d returned twice during walk", a.ID)
			}
			seen[a.ID] = true
		}

		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
		pages++
		if pages > 10 {
			t.Fatal("Pagination did not terminate")
		}
	}

	if len(seen) != 47 {
		t.Errorf("Expected all 47 articles across the walk, got %d", len(seen))
	}
}

func TestService_OrderedByPublishedDesc(t *testing.T) {
	// Insertion order deliberately disagrees with publication order.
	early := time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2023, 7, 1, 20, 0, 0, 0, time.UTC)
	mid := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)

	svc := testService([]database.Article{
		{ID: 1, URL: "https://example.com/a", PublishedAt: &early},
		{ID: 2, URL: "https://example.com/b", PublishedAt: &late},
		{ID: 3, URL: "https://example.com/c", PublishedAt: &mid},
		{ID: 4, URL: "https://example.com/d"}, // no timestamp, sorts last
	})

	page, err := svc.Query(context.Background(), Params{Take: 10})
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(page.Items))
	}

	gotIDs := []int64{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID, page.Items[3].ID}
	wantIDs := []int64{2, 3, 1, 4}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("Expected order %v, got %v", wantIDs, gotIDs)
			break
		}
	}

	if page.NextCursor == nil || *page.NextCursor != 1 {
		t.Errorf("Expected next cursor 1 (lowest id in page), got %v", page.NextCursor)
	}
}

func TestService_TeamFilterThreshold(t *testing.T) {
	published := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)

	svc := testService([]database.Article{
		{
			ID:          1,
			URL:         "https://example.com/spurs-report",
			Title:       "Tottenham cruise past visitors",
			Summary:     "Spurs were dominant from the first whistle as Tottenham ran riot.",
			PublishedAt: &published,
		},
		{
			ID:          2,
			URL:         "https://example.com/cricket",
			Title:       "County cricket round-up",
			Summary:     "A quiet day at the crease.",
			PublishedAt: &published,
		},
		{
			ID:          3,
			URL:         "https://example.com/passing-mention",
			Title:       "Ten talking points",
			Summary:     "One line mentions Spurs in passing.",
			PublishedAt: &published,
		},
	})

	page, err := svc.Query(context.Background(), Params{Take: 10, Team: "tottenham"})
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 1 {
		t.Fatalf("Expected 1 article past the relevance threshold, got %d", len(page.Items))
	}
	if page.Items[0].ID != 1 {
		t.Errorf("Expected article 1, got %d", page.Items[0].ID)
	}
}

func TestService_TeamAllDisablesFilter(t *testing.T) {
	svc := testService(makeArticles(5))

	page, err := svc.Query(context.Background(), Params{Take: 10, Team: "all"})
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 5 {
		t.Errorf("Expected filter disabled for team 'all', got %d items", len(page.Items))
	}
}

func TestService_TakeClamped(t *testing.T) {
	svc := testService(makeArticles(150))

	page, err := svc.Query(context.Background(), Params{Take: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 100 {
		t.Errorf("Expected take clamped to 100, got %d", len(page.Items))
	}

	page, err = svc.Query(context.Background(), Params{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != DefaultTake {
		t.Errorf("Expected default take %d, got %d", DefaultTake, len(page.Items))
	}
}

func TestService_EmptyResult(t *testing.T) {
	svc := testService(nil)

	page, err := svc.Query(context.Background(), Params{Take: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(page.Items))
	}
	if page.NextCursor != nil {
		t.Errorf("Expected nil cursor for empty result, got %d", *page.NextCursor)
	}
}
