package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ArticleRepo handles database operations for articles.
type ArticleRepo struct {
	db *DB
}

var _ ArticleRepository = (*ArticleRepo)(nil)

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

var articleColumns = []string{
	"a.id", "a.source_id", "a.url", "a.title", "a.summary",
	"COALESCE(a.content, '')", "COALESCE(a.image_url, '')",
	"a.published_at", "a.ingested_at", "a.team_tags", "a.score",
	"s.name", "s.site_url",
}

func scanArticle(scanner interface{ Scan(...any) error }) (Article, error) {
	var a Article
	var publishedAt sql.NullTime
	err := scanner.Scan(
		&a.ID, &a.SourceID, &a.URL, &a.Title, &a.Summary,
		&a.Content, &a.ImageURL,
		&publishedAt, &a.IngestedAt, &a.TeamTags, &a.Score,
		&a.SourceName, &a.SourceSiteURL,
	)
	if err != nil {
		return Article{}, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		a.PublishedAt = &t
	}
	return a, nil
}

// GetArticleByURL retrieves an article by its canonical URL.
func (r *ArticleRepo) GetArticleByURL(ctx context.Context, url string) (*Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		Where(sq.Eq{"a.url": url}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by URL: %w", err)
	}
	return &article, nil
}

// InsertArticles inserts the given rows, silently skipping any whose
// canonical URL is already stored. Under concurrent ingestion of the same
// URL the uniqueness constraint arbitrates and the existing row wins.
// Returns the number of rows actually inserted.
func (r *ArticleRepo) InsertArticles(ctx context.Context, articles []Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (
			source_id, url, title, summary, content, image_url,
			published_at, ingested_at, team_tags, score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range articles {
		var content, imageURL any
		if a.Content != "" {
			content = a.Content
		}
		if a.ImageURL != "" {
			imageURL = a.ImageURL
		}

		var publishedAt any
		if a.PublishedAt != nil {
			publishedAt = *a.PublishedAt
		}

		result, err := stmt.ExecContext(ctx,
			a.SourceID, a.URL, a.Title, a.Summary, content, imageURL,
			publishedAt, a.IngestedAt, a.TeamTags, a.Score)
		if err != nil {
			return 0, fmt.Errorf("failed to insert article %s: %w", a.URL, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}

	return inserted, nil
}

// ListPage returns up to limit articles with id below beforeID, newest id
// first. A beforeID of zero means no upper bound. New rows always get higher
// ids, so the window stays stable under concurrent inserts.
func (r *ArticleRepo) ListPage(ctx context.Context, beforeID int64, limit int) ([]Article, error) {
	builder := sq.Select(articleColumns...).
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		OrderBy("a.id DESC").
		Limit(uint64(limit))

	if beforeID > 0 {
		builder = builder.Where(sq.Lt{"a.id": beforeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryArticles(ctx, query, args...)
}

// ListArticlesWithoutImage returns articles missing an image, oldest first,
// for the backfill pass.
func (r *ArticleRepo) ListArticlesWithoutImage(ctx context.Context, limit int) ([]Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles a").
		Join("sources s ON s.id = a.source_id").
		Where(sq.Or{sq.Eq{"a.image_url": nil}, sq.Eq{"a.image_url": ""}}).
		OrderBy("a.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryArticles(ctx, query, args...)
}

// UpdateArticleImage patches the image URL of a stored article. This is the
// only mutation allowed after ingestion.
func (r *ArticleRepo) UpdateArticleImage(ctx context.Context, id int64, imageURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET image_url = ? WHERE id = ?`, imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update article image: %w", err)
	}
	return nil
}

// GetArticleCount returns the total number of articles.
func (r *ArticleRepo) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

func (r *ArticleRepo) queryArticles(ctx context.Context, query string, args ...any) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}
