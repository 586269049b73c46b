package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edesbois77/clubfeed/app/database"
	"github.com/edesbois77/clubfeed/app/ingest"
	"github.com/edesbois77/clubfeed/app/query"
)

type Handler struct {
	sourceRepo   database.SourceRepository
	articleRepo  database.ArticleRepository
	orchestrator *ingest.Orchestrator
	querySvc     *query.Service
}

func NewHandler(sourceRepo database.SourceRepository, articleRepo database.ArticleRepository,
	orchestrator *ingest.Orchestrator, querySvc *query.Service) *Handler {
	return &Handler{
		sourceRepo:   sourceRepo,
		articleRepo:  articleRepo,
		orchestrator: orchestrator,
		querySvc:     querySvc,
	}
}

// TriggerIngest runs one ingestion pass. Individual source and entry
// failures are observability events, not caller-facing errors, so the
// response is always ok with the aggregate added count.
func (h *Handler) TriggerIngest(c *gin.Context) {
	added := h.orchestrator.Run(c.Request.Context())
	c.JSON(http.StatusOK, IngestResponse{Status: "ok", Added: added})
}

// GetArticles serves the cursor-paginated article feed with an optional
// team filter.
func (h *Handler) GetArticles(c *gin.Context) {
	var cursor int64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Status: "error", Message: "invalid cursor"})
			return
		}
		cursor = parsed
	}

	take := query.DefaultTake
	if raw := c.Query("take"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Status: "error", Message: "invalid take"})
			return
		}
		take = parsed
	}

	team := c.Query("club")
	if team == "" {
		team = c.Query("team")
	}

	page, err := h.querySvc.Query(c.Request.Context(), query.Params{
		Cursor: cursor,
		Take:   take,
		Team:   team,
	})
	if err != nil {
		slog.Error("Article query failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	items := make([]ArticleLite, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, toArticleLite(a))
	}

	c.JSON(http.StatusOK, ArticlesResponse{Items: items, NextCursor: page.NextCursor})
}

// BackfillImages re-fetches articles missing an image and patches the ones
// that now yield one.
func (h *Handler) BackfillImages(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Status: "error", Message: "invalid limit"})
			return
		}
		limit = min(parsed, 500)
	}

	updated := h.orchestrator.BackfillImages(c.Request.Context(), limit)
	c.JSON(http.StatusOK, BackfillResponse{Status: "ok", Updated: updated})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	ctx := c.Request.Context()
	if sourceCount, err := h.sourceRepo.GetSourceCount(ctx); err == nil {
		health["sources"] = sourceCount
	}
	if articleCount, err := h.articleRepo.GetArticleCount(ctx); err == nil {
		health["articles"] = articleCount
	}

	c.JSON(http.StatusOK, health)
}

func toArticleLite(a database.Article) ArticleLite {
	lite := ArticleLite{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Source:      SourceLite{Name: a.SourceName},
	}
	if a.ImageURL != "" {
		imageURL := a.ImageURL
		lite.ImageURL = &imageURL
	}
	return lite
}
