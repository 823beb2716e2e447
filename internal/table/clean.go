package table

import (
	"html"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	lineBreakRegex    = regexp.MustCompile(`(?i)<\s*/?\s*br\s*/?\s*>`)
	mdImageRegex      = regexp.MustCompile(`!\[([^\]]*)\]\((?:[^()]|\([^()]*\))*\)`)
	mdLinkRegex       = regexp.MustCompile(`\[((?:!\[[^\]]*\]\((?:[^()]|\([^()]*\))*\))|[^\]]*)\]\(\s*((?:[^()\s]|\([^()\s]*\))+)[^)]*\)`)
	htmlAnchorRegex   = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*["']([^"']+)["'][^>]*>(.*?)</a\s*>`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	imgAltRegex       = regexp.MustCompile(`(?i)(?:alt\s*=\s*["']([^"']*)["']|!\[([^\]]*)\])`)
	applyTextRegex    = regexp.MustCompile(`(?i)\b(apply|here)\b`)
	emphasisMarkers   = strings.NewReplacer("**", "", "__", "", "~~", "", "`", "", "*", "")
	trailingSeparator = " ,;"
)

// stripFormatting reduces a table cell to display text: links become their
// visible text, markup and entities are removed, decorative glyphs dropped
// and whitespace collapsed.
func stripFormatting(s string) string {
	s = lineBreakRegex.ReplaceAllString(s, ", ")
	s = mdImageRegex.ReplaceAllString(s, "")
	s = mdLinkRegex.ReplaceAllString(s, "$1")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = emphasisMarkers.Replace(s)
	s = strings.Map(dropDecorative, s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, trailingSeparator)
	if len(s) > 2 && strings.HasPrefix(s, "_") && strings.HasSuffix(s, "_") {
		s = strings.Trim(s, "_")
	}
	return strings.TrimSpace(s)
}

func dropDecorative(r rune) rune {
	switch {
	case r == ' ':
		return ' '
	case unicode.Is(unicode.So, r),
		unicode.Is(unicode.Variation_Selector, r),
		unicode.Is(unicode.Join_Control, r),
		r == '↳':
		return -1
	}
	return r
}

// cellLink is a hyperlink found inside a cell.
type cellLink struct {
	Text string // visible text, or image alt text for badge links
	URL  string
	pos  int
}

// findLinks returns markdown and HTML links in the order they appear.
func findLinks(cell string) []cellLink {
	var links []cellLink
	for _, m := range mdLinkRegex.FindAllStringSubmatchIndex(cell, -1) {
		links = append(links, cellLink{
			Text: visibleText(cell[m[2]:m[3]]),
			URL:  cell[m[4]:m[5]],
			pos:  m[0],
		})
	}
	for _, m := range htmlAnchorRegex.FindAllStringSubmatchIndex(cell, -1) {
		links = append(links, cellLink{
			Text: visibleText(cell[m[4]:m[5]]),
			URL:  html.UnescapeString(cell[m[2]:m[3]]),
			pos:  m[0],
		})
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].pos < links[j].pos })
	return links
}

func visibleText(inner string) string {
	if text := stripFormatting(inner); text != "" {
		return text
	}
	if m := imgAltRegex.FindStringSubmatch(inner); m != nil {
		return strings.TrimSpace(m[1] + m[2])
	}
	return ""
}

// resolveLink turns href into an absolute http(s) URL, resolving relative
// references against base. It returns "" when that is not possible.
func resolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	}
	if base == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil || ref.Scheme != "" {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

const searchBaseURL = "https://www.google.com/search"

// searchLink builds the fallback search URL used when a row has no link.
func searchLink(company, suffix string) string {
	q := strings.TrimSpace(company + " " + suffix)
	return searchBaseURL + "?" + url.Values{"q": {q}}.Encode()
}
