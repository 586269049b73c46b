package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceRepo handles database operations for sources.
type SourceRepo struct {
	db *DB
}

var _ SourceRepository = (*SourceRepo)(nil)

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, feed_url, site_url, domain, created_at, updated_at`

func (r *SourceRepo) scanSource(row *sql.Row) (*Source, error) {
	var src Source
	err := row.Scan(&src.ID, &src.Name, &src.FeedURL, &src.SiteURL, &src.Domain,
		&src.CreatedAt, &src.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// GetSourceByName retrieves a source by its configured name.
func (r *SourceRepo) GetSourceByName(ctx context.Context, name string) (*Source, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE name = ?`, name)

	src, err := r.scanSource(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get source by name: %w", err)
	}
	return src, nil
}

// GetSourceByFeedURL retrieves a source by its feed URL.
func (r *SourceRepo) GetSourceByFeedURL(ctx context.Context, feedURL string) (*Source, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE feed_url = ?`, feedURL)

	src, err := r.scanSource(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get source by feed URL: %w", err)
	}
	return src, nil
}

// UpsertSource inserts the source if it is new, otherwise refreshes its
// metadata. Keyed by name, matching how sources are configured.
func (r *SourceRepo) UpsertSource(ctx context.Context, name, feedURL, siteURL, domain string) (int64, error) {
	existing, err := r.GetSourceByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing source: %w", err)
	}

	if existing != nil {
		_, err = r.db.ExecContext(ctx, `
			UPDATE sources
			SET feed_url = ?, site_url = ?, domain = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, feedURL, siteURL, domain, existing.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to update source: %w", err)
		}
		return existing.ID, nil
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO sources (name, feed_url, site_url, domain)
		VALUES (?, ?, ?, ?)
	`, name, feedURL, siteURL, domain)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get source id: %w", err)
	}
	return id, nil
}

// GetSourceCount returns the total number of sources.
func (r *SourceRepo) GetSourceCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}
