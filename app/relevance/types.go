package relevance

// ArticleSignals carries the text fields the scorer reads. Pure data; the
// scorer never touches the network or storage.
type ArticleSignals struct {
	Title        string
	Summary      string
	Body         string
	SourceName   string
	SourceDomain string // hostname of the article URL or the source site
	URL          string // full article URL, inspected for team path segments
}

// Signal weights. Title mentions dominate, body frequency is capped so long
// articles cannot buy relevance through repetition alone.
const (
	domainPriorBonus  = 40
	urlPathBonus      = 25
	titleAliasBonus   = 20
	ledeAliasBonus    = 8
	mentionBonus      = 3
	mentionBonusCap   = 18
	titlePeopleBonus  = 6
	ledePeopleBonus   = 3
	bodyPeopleBonus   = 2
	bodyPeopleCap     = 5
	incidentalPenalty = 10
	ledeLength        = 300
	maxRelevanceScore = 100
)
