package database

import "context"

type SourceRepository interface {
	GetSourceByName(ctx context.Context, name string) (*Source, error)
	GetSourceByFeedURL(ctx context.Context, feedURL string) (*Source, error)
	UpsertSource(ctx context.Context, name, feedURL, siteURL, domain string) (int64, error)
	GetSourceCount(ctx context.Context) (int, error)
}

type ArticleRepository interface {
	GetArticleByURL(ctx context.Context, url string) (*Article, error)
	InsertArticles(ctx context.Context, articles []Article) (int, error)
	ListPage(ctx context.Context, beforeID int64, limit int) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)

	ListArticlesWithoutImage(ctx context.Context, limit int) ([]Article, error)
	UpdateArticleImage(ctx context.Context, id int64, imageURL string) error
}
