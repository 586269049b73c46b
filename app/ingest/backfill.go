package ingest

import (
	"context"
	"log/slog"

	"github.com/edesbois77/clubfeed/app/extract"
)

// BackfillImages re-fetches stored articles that have no image and patches
// the ones whose pages now yield one. This is the only post-ingestion
// mutation the pipeline performs.
func (o *Orchestrator) BackfillImages(ctx context.Context, limit int) int {
	articles, err := o.articleRepo.ListArticlesWithoutImage(ctx, limit)
	if err != nil {
		slog.Error("Failed to list articles for image backfill", "error", err)
		return 0
	}

	updated := 0
	for _, article := range articles {
		html, err := o.fetcher.Fetch(ctx, article.URL)
		if err != nil {
			slog.Debug("Backfill fetch failed", "url", article.URL, "error", err)
			continue
		}

		image := extract.Image(html, article.URL)
		if image == "" {
			continue
		}

		if err := o.articleRepo.UpdateArticleImage(ctx, article.ID, image); err != nil {
			slog.Warn("Failed to update article image", "id", article.ID, "error", err)
			continue
		}
		updated++
	}

	slog.Info("Image backfill completed", "scanned", len(articles), "updated", updated)
	return updated
}
