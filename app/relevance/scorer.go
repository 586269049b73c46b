package relevance

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/edesbois77/clubfeed/app/config"
)

// Scorer computes team relevance from article text, source domain, and URL
// signals. Team configuration is fixed at construction; scoring is a pure
// function of its inputs.
type Scorer struct {
	order []string
	teams map[string]compiledTeam
}

type compiledTeam struct {
	aliases   []string
	people    []string
	domains   map[string]bool
	pathHints []string
	includeRe *regexp.Regexp
	excludeRe *regexp.Regexp
}

func NewScorer(teams []config.Team) *Scorer {
	s := &Scorer{teams: make(map[string]compiledTeam, len(teams))}
	for _, team := range teams {
		s.order = append(s.order, team.Slug)
		s.teams[team.Slug] = compileTeam(team)
	}
	return s
}

// Teams returns the configured team slugs in configuration order.
func (s *Scorer) Teams() []string {
	return s.order
}

func compileTeam(team config.Team) compiledTeam {
	ct := compiledTeam{
		domains: make(map[string]bool, len(team.Domains)),
	}

	for _, alias := range team.Aliases {
		ct.aliases = append(ct.aliases, fold(alias))
	}
	for _, person := range team.People {
		ct.people = append(ct.people, fold(person))
	}
	for _, domain := range team.Domains {
		ct.domains[normHost(domain)] = true
	}

	ct.pathHints = pathHints(team)
	ct.includeRe = termsRegexp(team.IncludeTerms())
	ct.excludeRe = termsRegexp(team.Exclude)

	return ct
}

// pathHints derives the URL path fragments that mark a team section:
// the slug itself, hyphenated multi-word aliases, and single-word aliases
// as whole path segments.
func pathHints(team config.Team) []string {
	seen := map[string]bool{}
	var hints []string
	add := func(h string) {
		if h != "" && !seen[h] {
			seen[h] = true
			hints = append(hints, h)
		}
	}

	add(fold(team.Slug))
	for _, alias := range team.Aliases {
		folded := fold(alias)
		if strings.Contains(folded, " ") {
			add(strings.ReplaceAll(folded, " ", "-"))
		} else if folded != fold(team.Slug) {
			add("/" + folded + "/")
		}
	}
	return hints
}

// termsRegexp builds a whole-word-ish matcher over the given terms.
// Interior whitespace matches flexibly so "man united" hits "Man  United".
func termsRegexp(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	escaped := make([]string, 0, len(terms))
	for _, term := range terms {
		folded := fold(term)
		if folded == "" {
			continue
		}
		e := regexp.QuoteMeta(folded)
		e = strings.ReplaceAll(e, " ", `\s+`)
		escaped = append(escaped, e)
	}
	if len(escaped) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:^|\W)(?:` + strings.Join(escaped, "|") + `)(?:\W|$)`)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lower-cases and strips diacritics so accented player names match
// their keyword forms.
func fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func normHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// countMatches counts how many of the needles appear in text.
func countMatches(text string, needles []string) int {
	count := 0
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			count++
		}
	}
	return count
}

// Score returns 0-100 for how strongly the article is about the team.
// Unknown teams score zero.
func (s *Scorer) Score(a ArticleSignals, team string) int {
	ct, ok := s.teams[team]
	if !ok {
		return 0
	}

	title := fold(a.Title)
	summary := fold(a.Summary)
	body := fold(a.Body)

	score := 0

	// Domain prior for team-focused hosts.
	if ct.domains[normHost(a.SourceDomain)] {
		score += domainPriorBonus
	}

	// URL path hints, e.g. a /tottenham-hotspur/ section.
	if a.URL != "" {
		if u, err := url.Parse(a.URL); err == nil {
			path := fold(u.Path)
			for _, hint := range ct.pathHints {
				if strings.Contains(path, hint) {
					score += urlPathBonus
					break
				}
			}
		}
	}

	titleHits := countMatches(title, ct.aliases)
	score += titleHits * titleAliasBonus

	lede := firstRunes(body, ledeLength)
	score += countMatches(lede, ct.aliases) * ledeAliasBonus

	totalMentions := countMatches(summary, ct.aliases) + countMatches(body, ct.aliases)
	score += min(totalMentions*mentionBonus, mentionBonusCap)

	score += countMatches(title, ct.people) * titlePeopleBonus
	score += countMatches(lede, ct.people) * ledePeopleBonus
	score += min(countMatches(body, ct.people), bodyPeopleCap) * bodyPeopleBonus

	// Guard against incidental namedrops.
	if titleHits == 0 && totalMentions <= 1 {
		score -= incidentalPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > maxRelevanceScore {
		score = maxRelevanceScore
	}
	return score
}

// IsAboutTeam reports whether the article passes the team's keyword gate.
// An article is rejected only when it hits an exclude term without an
// include term independently reconfirming, so a passing mention of a rival
// alongside the followed team does not disqualify it.
func (s *Scorer) IsAboutTeam(a ArticleSignals, team string) bool {
	ct, ok := s.teams[team]
	if !ok || ct.includeRe == nil {
		return false
	}

	text := fold(strings.Join([]string{a.Title, a.Summary, a.SourceName, a.URL}, " "))

	if !ct.includeRe.MatchString(text) {
		return false
	}
	if ct.excludeRe != nil && ct.excludeRe.MatchString(text) && !ct.includeRe.MatchString(text) {
		return false
	}
	return true
}

// Quality computes the structural completeness score stored on each article
// at ingestion. It is independent of team relevance: presence and length of
// title and summary, a known source, and a timestamp.
func Quality(title, summary, sourceName string, publishedAt *time.Time) int {
	score := 0.0
	if title != "" {
		score += math.Min(float64(len(title)), 120) / 12
	}
	if summary != "" {
		score += math.Min(float64(len(summary)), 400) / 40
	}
	if sourceName != "" {
		score += 5
	}
	if publishedAt != nil {
		score += 10
	}
	return int(math.Round(score))
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
