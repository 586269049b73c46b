package api

import "time"

// ArticleLite is the feed representation of an article.
type ArticleLite struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	URL         string     `json:"url"`
	ImageURL    *string    `json:"imageUrl"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      SourceLite `json:"source"`
}

type SourceLite struct {
	Name string `json:"name"`
}

type ArticlesResponse struct {
	Items      []ArticleLite `json:"items"`
	NextCursor *int64        `json:"nextCursor"`
}

type IngestResponse struct {
	Status string `json:"status"`
	Added  int    `json:"added"`
}

type BackfillResponse struct {
	Status  string `json:"status"`
	Updated int    `json:"updated"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
