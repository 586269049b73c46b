package database

import (
	"strings"
	"time"
)

// Source represents a feed subscription record.
type Source struct {
	ID        int64
	Name      string
	FeedURL   string
	SiteURL   string
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Article represents an ingested article record. Rows are written once at
// ingestion and never mutated by the pipeline; only the image backfill may
// patch ImageURL afterwards.
type Article struct {
	ID          int64
	SourceID    int64
	URL         string // canonical, unique across all articles
	Title       string
	Summary     string
	Content     string // extracted body, empty when extraction found nothing
	ImageURL    string
	PublishedAt *time.Time
	IngestedAt  time.Time
	TeamTags    string // pipe-delimited index form, e.g. "|tottenham|"
	Score       int    // structural quality score computed at ingestion

	// Joined from sources for read paths.
	SourceName    string
	SourceSiteURL string
}

// Tags returns the team tag index as a slice of slugs.
func (a Article) Tags() []string {
	trimmed := strings.Trim(a.TeamTags, "|")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "|")
}

// MakeTagIndex builds the pipe-delimited index form from team slugs.
// An empty slice maps to the empty string so untagged rows stay cheap to
// match against.
func MakeTagIndex(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "|" + strings.Join(tags, "|") + "|"
}
