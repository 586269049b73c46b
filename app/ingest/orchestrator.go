package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edesbois77/clubfeed/app/config"
	"github.com/edesbois77/clubfeed/app/database"
	"github.com/edesbois77/clubfeed/app/extract"
	"github.com/edesbois77/clubfeed/app/feed"
	"github.com/edesbois77/clubfeed/app/relevance"
)

const summaryFallbackLength = 600

// Orchestrator runs one ingestion pass over the configured sources: read
// feed, canonicalize and dedup URLs, fetch and extract article content, tag
// and score, persist. Sources run sequentially; a failing source never
// aborts the others.
type Orchestrator struct {
	sources     []config.Source
	reader      *feed.Reader
	fetcher     *Fetcher
	scorer      *relevance.Scorer
	sourceRepo  database.SourceRepository
	articleRepo database.ArticleRepository
}

func NewOrchestrator(sources []config.Source, reader *feed.Reader, fetcher *Fetcher,
	scorer *relevance.Scorer, sourceRepo database.SourceRepository,
	articleRepo database.ArticleRepository) *Orchestrator {
	return &Orchestrator{
		sources:     sources,
		reader:      reader,
		fetcher:     fetcher,
		scorer:      scorer,
		sourceRepo:  sourceRepo,
		articleRepo: articleRepo,
	}
}

// Run executes one ingestion pass and returns the aggregate count of newly
// added articles. Source and entry failures are logged, not propagated.
func (o *Orchestrator) Run(ctx context.Context) int {
	start := time.Now()
	added := 0

	for _, src := range o.sources {
		count, err := o.ingestSource(ctx, src)
		if err != nil {
			slog.Error("Source ingestion failed", "source", src.Name, "error", err)
			continue
		}
		added += count
	}

	slog.Info("Ingestion pass completed",
		"sources", len(o.sources),
		"added", added,
		"duration", time.Since(start))

	return added
}

func (o *Orchestrator) ingestSource(ctx context.Context, src config.Source) (int, error) {
	sourceID, err := o.sourceRepo.UpsertSource(ctx, src.Name, src.Feed, src.Site, src.Domain)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert source: %w", err)
	}

	entries, err := o.reader.Read(ctx, src.Feed)
	if err != nil {
		return 0, fmt.Errorf("failed to read feed: %w", err)
	}

	skipped := 0
	var rows []database.Article
	for _, entry := range entries {
		row, ok := o.buildArticle(ctx, sourceID, src, entry)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	inserted := 0
	if len(rows) > 0 {
		inserted, err = o.articleRepo.InsertArticles(ctx, rows)
		if err != nil {
			return 0, fmt.Errorf("failed to insert articles: %w", err)
		}
	}

	slog.Info("Source ingested",
		"source", src.Name,
		"entries", len(entries),
		"skipped", skipped,
		"new", inserted)

	return inserted, nil
}

// buildArticle converts a feed entry into an article row. Entries already
// stored under their canonical URL are skipped: the first ingestion wins and
// re-crawls never refresh existing rows. A failed page fetch degrades to an
// entry populated from feed data alone.
func (o *Orchestrator) buildArticle(ctx context.Context, sourceID int64, src config.Source, entry feed.Entry) (database.Article, bool) {
	canonical := feed.Normalize(strings.TrimSpace(entry.Link))

	existing, err := o.articleRepo.GetArticleByURL(ctx, canonical)
	if err != nil {
		slog.Warn("Duplicate check failed, skipping entry", "url", canonical, "error", err)
		return database.Article{}, false
	}
	if existing != nil {
		return database.Article{}, false
	}

	html, err := o.fetcher.Fetch(ctx, canonical)
	if err != nil {
		slog.Warn("Article fetch failed, keeping feed data", "url", canonical, "error", err)
		html = ""
	}

	var body, image string
	if html != "" {
		body = extract.Text(html)
		image = extract.Image(html, canonical)
	}
	if image == "" {
		image = entry.ImageURL
	}

	summary := entry.Summary
	if summary == "" {
		summary = firstRunes(body, summaryFallbackLength)
	}
	if summary == "" {
		summary = "Summary not available"
	}

	signals := relevance.ArticleSignals{
		Title:      entry.Title,
		Summary:    summary,
		Body:       body,
		SourceName: src.Name,
		URL:        canonical,
	}

	var tags []string
	for _, team := range o.scorer.Teams() {
		if o.scorer.IsAboutTeam(signals, team) {
			tags = append(tags, team)
		}
	}

	return database.Article{
		SourceID:    sourceID,
		URL:         canonical,
		Title:       entry.Title,
		Summary:     summary,
		Content:     body,
		ImageURL:    image,
		PublishedAt: entry.PublishedAt,
		IngestedAt:  time.Now().UTC(),
		TeamTags:    database.MakeTagIndex(tags),
		Score:       relevance.Quality(entry.Title, summary, src.Name, entry.PublishedAt),
	}, true
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(runes[:n]))
}
