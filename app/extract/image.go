package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata selectors in preference order. Each maps to the attribute holding
// the candidate URL.
var metaCandidates = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image:secure_url"]`, "content"},
	{`meta[property="og:image"]`, "content"},
	{`meta[name="og:image"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[property="twitter:image"]`, "content"},
	{`meta[name="twitter:image:src"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// Minimum-size heuristic for content images without metadata.
const (
	minImageArea   = 60000
	minImageWidth  = 600
	minImageHeight = 400
)

var resolutionHintRe = regexp.MustCompile(`\d{3,4}x\d{3,4}`)

var socialMarkers = []string{"og", "social", "large", "share"}
var assetMarkers = []string{"cdn", "original", "master", "uploads"}

// Image extracts a representative image URL from raw article HTML, resolved
// absolute against pageURL. Metadata candidates (Open Graph, Twitter cards,
// image_src links) are preferred; content images are a fallback. Returns the
// empty string when no candidate survives resolution.
func Image(html, pageURL string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if img := bestMetaImage(doc, pageURL); img != "" {
		return img
	}

	// First content image passing the size heuristic.
	var sized string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		width, _ := strconv.Atoi(s.AttrOr("width", "0"))
		height, _ := strconv.Atoi(s.AttrOr("height", "0"))
		if width*height >= minImageArea || width >= minImageWidth || height >= minImageHeight {
			if resolved := absolutize(s.AttrOr("src", ""), pageURL); resolved != "" {
				sized = resolved
				return false
			}
		}
		return true
	})
	if sized != "" {
		return sized
	}

	// No size hints anywhere: first image inside an article/main container,
	// then any image on the page.
	for _, sel := range []string{"article img[src], main img[src]", "img[src]"} {
		if src := doc.Find(sel).First().AttrOr("src", ""); src != "" {
			if resolved := absolutize(src, pageURL); resolved != "" {
				return resolved
			}
		}
	}

	return ""
}

// bestMetaImage collects all metadata candidates and picks the highest
// scoring one. Preference order dominates; URL markers break ties between
// equally ranked candidates.
func bestMetaImage(doc *goquery.Document, pageURL string) string {
	best := ""
	bestScore := -1

	for i, meta := range metaCandidates {
		raw, ok := doc.Find(meta.selector).First().Attr(meta.attr)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		resolved := absolutize(raw, pageURL)
		if resolved == "" {
			continue
		}

		score := (len(metaCandidates) - i) * 10
		score += urlMarkerBonus(resolved)
		if score > bestScore {
			best = resolved
			bestScore = score
		}
	}

	return best
}

func urlMarkerBonus(u string) int {
	lower := strings.ToLower(u)
	bonus := 0
	if resolutionHintRe.MatchString(lower) {
		bonus += 3
	}
	for _, marker := range socialMarkers {
		if strings.Contains(lower, marker) {
			bonus += 2
			break
		}
	}
	for _, marker := range assetMarkers {
		if strings.Contains(lower, marker) {
			bonus += 2
			break
		}
	}
	return bonus
}

// absolutize resolves a candidate URL against the page URL. Resolution
// failure drops the candidate rather than failing the extraction.
func absolutize(candidate, pageURL string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		if u, err := url.Parse(candidate); err == nil && u.IsAbs() {
			return u.String()
		}
		return ""
	}

	resolved, err := base.Parse(candidate)
	if err != nil || !resolved.IsAbs() {
		return ""
	}
	return resolved.String()
}
