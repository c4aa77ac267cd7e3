// Package catalog holds the ordered category catalogs and the first-match
// substring classifier used by tab categorization and auto-organize.
package catalog

import "strings"

// Category is one entry of a catalog: a display name, a tab-group color
// (empty for the analysis catalog, which never creates groups), and the
// substring patterns that route a tab into it.
type Category struct {
	Name     string
	Color    string
	Patterns []string
}

// Catalog is an ordered list of categories. Order is significant:
// classification is first-match-wins, so earlier entries shadow later ones.
// It is deliberately a slice, never a map, so iteration and match order are
// a declared property rather than an accident.
type Catalog []Category

// Match returns the first category whose any pattern is a substring of the
// tab's domain or full URL. Both sides are case-folded. The second return
// is false when no category matches.
func (c Catalog) Match(domain, url string) (Category, bool) {
	domain = strings.ToLower(domain)
	url = strings.ToLower(url)
	for _, cat := range c {
		for _, p := range cat.Patterns {
			if strings.Contains(domain, p) || strings.Contains(url, p) {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// internalPrefixes are URL schemes for in-browser pages. Tabs on these
// pages are never categorized, grouped, or shuffled.
var internalPrefixes = []string{
	"about:",
	"chrome:",
	"chrome-extension:",
	"edge:",
	"moz-extension:",
	"view-source:",
	"devtools:",
}

// IsInternalURL reports whether url uses an internal browser scheme.
func IsInternalURL(url string) bool {
	lower := strings.ToLower(url)
	for _, prefix := range internalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Analysis is the catalog behind categorize_tabs. Buckets only — it never
// drives group creation, so entries carry no color.
var Analysis = Catalog{
	{Name: "Development", Patterns: []string{
		"github.com", "gitlab", "stackoverflow.com", "localhost",
		"developer.mozilla.org", "npmjs.com", "pkg.go.dev",
	}},
	{Name: "Social", Patterns: []string{
		"twitter.com", "x.com", "facebook.com", "instagram.com",
		"reddit.com", "linkedin.com", "bsky.app",
	}},
	{Name: "Communication", Patterns: []string{
		"mail.google.com", "gmail", "outlook.", "slack.com",
		"discord.com", "teams.microsoft.com", "telegram.org",
	}},
	{Name: "Productivity", Patterns: []string{
		"docs.google.com", "notion.so", "trello.com", "asana.com",
		"calendar.google.com", "drive.google.com", "linear.app",
	}},
	{Name: "Shopping", Patterns: []string{
		"amazon.", "ebay.", "etsy.com", "aliexpress.com", "walmart.com",
	}},
	{Name: "Entertainment", Patterns: []string{
		"youtube.com", "netflix.com", "spotify.com", "twitch.tv",
		"hulu.com", "disneyplus.com",
	}},
	{Name: "News", Patterns: []string{
		"news.ycombinator.com", "bbc.", "cnn.com", "nytimes.com",
		"theguardian.com", "reuters.com",
	}},
	{Name: "AI Tools", Patterns: []string{
		"chat.openai.com", "chatgpt.com", "claude.ai", "gemini.google.com",
		"perplexity.ai", "huggingface.co",
	}},
}

// Organize is the catalog behind auto_organize_tabs. It overlaps the
// analysis catalog in places but is a distinct value with its own entries,
// order, and colors; the two are intentionally never merged.
var Organize = Catalog{
	{Name: "GitHub", Color: "grey", Patterns: []string{"github.com"}},
	{Name: "Jira", Color: "blue", Patterns: []string{"atlassian.net/browse", "jira."}},
	{Name: "Confluence", Color: "cyan", Patterns: []string{"confluence", "/wiki/spaces/"}},
	{Name: "Docs", Color: "green", Patterns: []string{"docs.google.com", "notion.so", "readthedocs.io"}},
	{Name: "Local Dev", Color: "orange", Patterns: []string{"localhost", "127.0.0.1", "0.0.0.0"}},
	{Name: "AI Tools", Color: "purple", Patterns: []string{"chatgpt.com", "chat.openai.com", "claude.ai", "gemini.google.com", "perplexity.ai"}},
	{Name: "Articles", Color: "yellow", Patterns: []string{"medium.com", "substack.com", "dev.to"}},
	{Name: "Metrics", Color: "red", Patterns: []string{"grafana", "datadoghq.com", "kibana", "prometheus"}},
	{Name: "Meetings", Color: "cyan", Patterns: []string{"meet.google.com", "zoom.us", "teams.microsoft.com"}},
	{Name: "Support", Color: "pink", Patterns: []string{"zendesk.com", "intercom.com", "freshdesk.com"}},
	{Name: "Social", Color: "blue", Patterns: []string{"twitter.com", "x.com", "reddit.com", "linkedin.com"}},
	{Name: "Shopping", Color: "green", Patterns: []string{"amazon.", "ebay."}},
	{Name: "Entertainment", Color: "red", Patterns: []string{"youtube.com", "netflix.com", "spotify.com"}},
	{Name: "Search", Color: "yellow", Patterns: []string{"google.com/search", "duckduckgo.com", "bing.com"}},
}

// GroupColors is the browser's tab-group color palette.
var GroupColors = []string{
	"grey", "blue", "red", "yellow", "green", "pink", "purple", "cyan", "orange",
}

// DefaultGroupColor is used when a caller supplies no color or an invalid one.
const DefaultGroupColor = "blue"

// ValidGroupColor reports whether color is in the browser palette.
func ValidGroupColor(color string) bool {
	for _, c := range GroupColors {
		if c == color {
			return true
		}
	}
	return false
}

// focusKeywords maps known focus-context words to keyword sets.
var focusKeywords = map[string][]string{
	"coding":   {"github", "localhost", "stackoverflow", "gitlab"},
	"code":     {"github", "localhost", "stackoverflow", "gitlab"},
	"research": {"docs", "wiki", "arxiv", "scholar"},
	"email":    {"mail", "gmail", "outlook"},
	"emails":   {"mail", "gmail", "outlook"},
	"work":     {"jira", "confluence", "docs.google", "slack"},
	"meeting":  {"meet", "zoom", "calendar"},
	"meetings": {"meet", "zoom", "calendar"},
}

// FocusKeywords resolves a free-text focus context to search keywords.
// Known contexts map to fixed keyword sets; anything else is used verbatim
// as a single keyword. An empty context returns nil, meaning "no filter".
func FocusKeywords(context string) []string {
	context = strings.ToLower(strings.TrimSpace(context))
	if context == "" {
		return nil
	}
	if kws, ok := focusKeywords[context]; ok {
		return kws
	}
	return []string{context}
}
