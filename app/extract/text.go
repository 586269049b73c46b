package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// Stored body text is capped for storage economy.
	maxTextRunes = 2000

	containerMinLength = 400
	paragraphMinLength = 40
	paragraphTotalMin  = 300
)

// Nodes removed from the parse tree before any text extraction: media,
// navigation, ads, and byline/caption/credit blocks.
var noiseSelector = strings.Join([]string{
	"figure",
	"figcaption",
	"picture",
	"img",
	"video",
	"iframe",
	"noscript",
	"script",
	"style",
	"aside",
	"nav",
	"header",
	"footer",
	".caption",
	".image",
	".media",
	".credit",
	".byline",
	".metadata",
	".share",
	".social",
	".advert",
	".ad",
	".promo",
	"[role='img']",
	"[data-component='image-block']",
}, ", ")

// Likely article containers, most specific publishers last.
var containerSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".article-body",
	".post-content",
	".entry-content",
	".content__article-body", // Guardian
	"[itemprop='articleBody']",
}

// Boilerplate that BBC/Guardian/Sky inject around article bodies.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Image|Images|Image source|View image in fullscreen)\b`),
	regexp.MustCompile(`\bPhotograph:\s*[A-Z]`),
	regexp.MustCompile(`\b(Getty|PA Media|Reuters|EPA|AP|Action Images|USA Today Sports)\b`),
	regexp.MustCompile(`(?i)\bSign up to .* newsletter\b`),
	regexp.MustCompile(`(?i)\bSubscribe\b`),
	regexp.MustCompile(`(?i)\bPublished\s*\d+\s*(mins?|minutes?|hours?|days?)\s*ago\b`),
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Text extracts the main body text from raw article HTML. Strategies are
// tried in priority order: likely article containers, then paragraph blocks,
// then a readability pass, then the whole document. Extraction never fails;
// a page the heuristics cannot handle degrades to an emptier result.
func Text(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find(noiseSelector).Remove()

	for _, sel := range containerSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		lines := blockLines(el)
		if totalLength(lines) > containerMinLength {
			return finalize(lines)
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		if len(text) > paragraphMinLength {
			paragraphs = append(paragraphs, text)
		}
	})
	if totalLength(paragraphs) > paragraphTotalMin {
		return finalize(paragraphs)
	}

	if article, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
		lines := splitLines(article.TextContent)
		if totalLength(lines) > paragraphTotalMin {
			return finalize(lines)
		}
	}

	return finalize([]string{collapseWhitespace(doc.Find("body").Text())})
}

// blockLines collects the block-level text of a container, falling back to
// the container's whole text when it has no block children.
func blockLines(el *goquery.Selection) []string {
	var lines []string
	el.Find("p, h1, h2, h3, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		if text := collapseWhitespace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		if text := collapseWhitespace(el.Text()); text != "" {
			lines = []string{text}
		}
	}
	return lines
}

// finalize strips boilerplate lines, collapses consecutive duplicates, and
// caps the result.
func finalize(lines []string) string {
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		if len(cleaned) > 0 && cleaned[len(cleaned)-1] == line {
			continue
		}
		cleaned = append(cleaned, line)
	}

	out := strings.Join(cleaned, "\n\n")
	if runes := []rune(out); len(runes) > maxTextRunes {
		out = string(runes[:maxTextRunes])
	}
	return strings.TrimSpace(out)
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplatePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = collapseWhitespace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func totalLength(lines []string) int {
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	return total
}
