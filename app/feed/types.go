package feed

import "time"

// Entry is one item parsed from a source's feed, prior to fetching the
// linked page. Entries are transient: the orchestrator converts them to
// article rows or drops them.
type Entry struct {
	Title       string
	Link        string
	Summary     string
	PublishedAt *time.Time
	ImageURL    string // inline enclosure/media image, absolute
}
