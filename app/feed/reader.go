package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Reader fetches and parses RSS/Atom feeds into entries. Each Read call
// re-fetches the network resource; nothing is cached between calls.
type Reader struct {
	client       *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
}

func NewReader(client *http.Client, userAgent string) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Reader{
		client:       client,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}
}

// Read fetches feedURL and parses it into entries. Both RSS items and Atom
// entries are handled by the underlying parser. Entries without a usable
// link are dropped. A feed that cannot be fetched or parsed yields an error
// so the caller can report the failure once at the source level.
func (r *Reader) Read(ctx context.Context, feedURL string) ([]Entry, error) {
	data, err := r.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := r.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry, ok := r.normalizeItem(item, feedURL)
		if !ok {
			slog.Debug("Dropping feed entry without link", "feed", feedURL, "title", item.Title)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *Reader) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// normalizeItem converts a parsed item into an Entry. The link prefers the
// explicit link element; a GUID is accepted only when it is itself an
// absolute URL.
func (r *Reader) normalizeItem(item *gofeed.Item, feedURL string) (Entry, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		if u, err := url.Parse(strings.TrimSpace(item.GUID)); err == nil && u.IsAbs() {
			link = u.String()
		}
	}
	if link == "" {
		return Entry{}, false
	}

	entry := Entry{
		Title:       strings.TrimSpace(item.Title),
		Link:        link,
		Summary:     strings.TrimSpace(item.Description),
		PublishedAt: r.extractPublished(item),
		ImageURL:    r.extractImage(item, feedURL),
	}

	return entry, true
}

// extractPublished takes the first usable timestamp: the parsed publication
// date, then the parsed update date, then a best-effort parse of the raw
// strings for feeds with nonstandard formats.
func (r *Reader) extractPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return &t
		}
	}

	return nil
}

// extractImage picks an inline image from enclosure or media metadata and
// resolves it against the feed URL.
func (r *Reader) extractImage(item *gofeed.Item, feedURL string) string {
	var candidate string

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") || enclosure.Type == "" {
			candidate = enclosure.URL
			break
		}
	}

	if candidate == "" {
		if media, ok := item.Extensions["media"]; ok {
			for _, key := range []string{"content", "thumbnail"} {
				for _, ext := range media[key] {
					if u := ext.Attrs["url"]; u != "" {
						candidate = u
						break
					}
				}
				if candidate != "" {
					break
				}
			}
		}
	}

	if candidate == "" && item.Image != nil {
		candidate = item.Image.URL
	}

	if candidate == "" {
		return ""
	}

	base, err := url.Parse(feedURL)
	if err != nil {
		return candidate
	}
	resolved, err := base.Parse(candidate)
	if err != nil {
		return ""
	}
	return resolved.String()
}
