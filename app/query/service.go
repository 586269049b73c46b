package query

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/edesbois77/clubfeed/app/database"
	"github.com/edesbois77/clubfeed/app/relevance"
)

const (
	DefaultTake = 20
	maxTake     = 100

	// Team-filtered queries over-fetch to compensate for post-filter
	// shrinkage; the scorer cannot run inside the storage layer.
	overfetchFactor = 3

	// Minimum live relevance score for a team-filtered page.
	RelevanceThreshold = 25
)

// Params selects a page of the article feed.
type Params struct {
	Cursor int64  // return articles with id below this; zero means newest
	Take   int    // page size, clamped to [1,100], DefaultTake when zero
	Team   string // team slug filter; empty or "all" disables filtering
}

// Page is one window of the feed plus the cursor for the next one.
type Page struct {
	Items      []database.Article
	NextCursor *int64
}

// Service serves paginated, optionally team-filtered and relevance-sorted
// views over stored articles. Reads only.
type Service struct {
	articles database.ArticleRepository
	scorer   *relevance.Scorer
}

func NewService(articles database.ArticleRepository, scorer *relevance.Scorer) *Service {
	return &Service{articles: articles, scorer: scorer}
}

// Query fetches one page. The pagination window is a descending-id scan,
// stable under concurrent inserts since new rows always get higher ids.
// Without a team filter the window is reordered by publication time. With a
// filter, an over-fetched window is scored live, thresholded, sorted by
// publication time with score as tie-break, and trimmed.
func (s *Service) Query(ctx context.Context, p Params) (Page, error) {
	take := p.Take
	if take <= 0 {
		take = DefaultTake
	}
	if take > maxTake {
		take = maxTake
	}

	team := strings.ToLower(strings.TrimSpace(p.Team))
	filtered := team != "" && team != "all"

	fetchSize := take
	if filtered {
		fetchSize = min(take*overfetchFactor, maxTake)
	}

	articles, err := s.articles.ListPage(ctx, p.Cursor, fetchSize)
	if err != nil {
		return Page{}, err
	}

	if filtered {
		articles = s.filterByTeam(articles, team)
	} else {
		sort.SliceStable(articles, func(i, j int) bool {
			return publishedTime(articles[i]).After(publishedTime(articles[j]))
		})
	}

	if len(articles) > take {
		articles = articles[:take]
	}

	page := Page{Items: articles}
	if len(articles) > 0 {
		minID := articles[0].ID
		for _, a := range articles[1:] {
			if a.ID < minID {
				minID = a.ID
			}
		}
		page.NextCursor = &minID
	}

	return page, nil
}

type scoredArticle struct {
	database.Article
	score int
}

func (s *Service) filterByTeam(articles []database.Article, team string) []database.Article {
	scored := make([]scoredArticle, 0, len(articles))
	for _, a := range articles {
		score := s.scorer.Score(relevance.ArticleSignals{
			Title:        a.Title,
			Summary:      a.Summary,
			SourceName:   a.SourceName,
			SourceDomain: articleDomain(a),
			URL:          a.URL,
		}, team)
		if score >= RelevanceThreshold {
			scored = append(scored, scoredArticle{Article: a, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		ti, tj := publishedTime(scored[i].Article), publishedTime(scored[j].Article)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return scored[i].score > scored[j].score
	})

	result := make([]database.Article, len(scored))
	for i, sa := range scored {
		result[i] = sa.Article
	}
	return result
}

// articleDomain takes the hostname of the article URL, falling back to the
// source's site URL.
func articleDomain(a database.Article) string {
	if u, err := url.Parse(a.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	if u, err := url.Parse(a.SourceSiteURL); err == nil {
		return u.Hostname()
	}
	return ""
}

// publishedTime orders articles missing a timestamp last.
func publishedTime(a database.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return time.Time{}
}
