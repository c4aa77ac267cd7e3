package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/lotas/tabwarden/internal/types"
)

// NoDataMessage is returned by every tool when no snapshot has been synced
// yet. It is an advisory, not an error.
const NoDataMessage = "No tab data available yet. Sync tabs from the browser extension first."

// uncategorizedShown caps the uncategorized listing in FormatCategorized.
const uncategorizedShown = 10

// RelativeTime renders a duration as short "ago" text.
func RelativeTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func tabLine(t types.Tab) string {
	title := t.Title
	if title == "" {
		title = t.URL
	}
	return fmt.Sprintf("- %s (%s)", title, t.URL)
}

// FormatList renders a ListTabs result.
func FormatList(tabs []types.Tab, f ListFilter) string {
	if len(tabs) == 0 {
		return "No tabs match the given filters."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tab(s)", len(tabs))
	if f.Domain != "" {
		fmt.Fprintf(&b, " with domain containing %q", f.Domain)
	}
	if f.Search != "" {
		fmt.Fprintf(&b, " matching %q", f.Search)
	}
	b.WriteString(":\n")
	for _, t := range tabs {
		b.WriteString(tabLine(t))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatDomains renders a GroupByDomain result.
func FormatDomains(counts []DomainCount) string {
	if len(counts) == 0 {
		return "No tabs open."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tabs by domain (%d domains):\n", len(counts))
	for _, dc := range counts {
		domain := dc.Domain
		if domain == "" {
			domain = "(no domain)"
		}
		fmt.Fprintf(&b, "- %s: %d\n", domain, dc.Count)
	}
	return b.String()
}

// FormatDuplicates renders a FindDuplicates result.
func FormatDuplicates(groups []DuplicateGroup) string {
	if len(groups) == 0 {
		return "No duplicate tabs found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d URL(s) open in multiple tabs:\n", len(groups))
	for _, g := range groups {
		title := g.Title
		if title == "" {
			title = g.URL
		}
		fmt.Fprintf(&b, "- %s — %d tabs (%s)\n", title, g.Count, g.URL)
	}
	return b.String()
}

// FormatOldTabs renders a FindOldTabs result.
func FormatOldTabs(old []OldTab, hours int) string {
	if hours <= 0 {
		hours = DefaultStaleHours
	}
	if len(old) == 0 {
		return fmt.Sprintf("No tabs older than %d hour(s).", hours)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tab(s) not accessed in the last %d hour(s):\n", len(old), hours)
	for _, o := range old {
		title := o.Tab.Title
		if title == "" {
			title = o.Tab.URL
		}
		fmt.Fprintf(&b, "- %s — %s\n", title, RelativeTime(o.Age))
	}
	return b.String()
}

// FormatStats renders a ComputeStats result.
func FormatStats(st Stats) string {
	var b strings.Builder
	b.WriteString("Tab statistics:\n")
	fmt.Fprintf(&b, "- Tabs: %d across %d window(s)\n", st.TotalTabs, st.Windows)
	fmt.Fprintf(&b, "- Unique domains: %d\n", st.UniqueDomains)
	fmt.Fprintf(&b, "- Pinned: %d\n", st.Pinned)
	fmt.Fprintf(&b, "- Audible: %d\n", st.Audible)
	fmt.Fprintf(&b, "- In groups: %d (of %d group(s))\n", st.Grouped, st.Groups)
	return b.String()
}

// FormatCategorized renders a Categorize result. The uncategorized listing
// is truncated with a "+N more" suffix when long.
func FormatCategorized(c Categorized) string {
	var b strings.Builder
	for _, bucket := range c.Buckets {
		fmt.Fprintf(&b, "%s (%d):\n", bucket.Name, len(bucket.Tabs))
		for _, t := range bucket.Tabs {
			b.WriteString(tabLine(t))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	if n := len(c.Uncategorized); n > 0 {
		fmt.Fprintf(&b, "Other (%d):\n", n)
		shown := c.Uncategorized
		if n > uncategorizedShown {
			shown = shown[:uncategorizedShown]
		}
		for _, t := range shown {
			b.WriteString(tabLine(t))
			b.WriteByte('\n')
		}
		if n > uncategorizedShown {
			fmt.Fprintf(&b, "  +%d more\n", n-uncategorizedShown)
		}
	}
	if b.Len() == 0 {
		return "No tabs to categorize."
	}
	return b.String()
}

// FormatSuggestions renders a Suggest result.
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return "Your tabs look well organized."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d suggestion(s):\n", len(suggestions))
	for _, s := range suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

// FormatFocus renders a FocusCandidates result.
func FormatFocus(tabs []types.Tab, context string) string {
	if len(tabs) == 0 {
		if context != "" {
			return fmt.Sprintf("No tabs match the %q context.", context)
		}
		return "No tabs to suggest."
	}
	var b strings.Builder
	if context != "" {
		fmt.Fprintf(&b, "Top tabs for %q:\n", context)
	} else {
		b.WriteString("Most recently used tabs:\n")
	}
	for _, t := range tabs {
		line := tabLine(t)
		if t.LastAccessed != 0 {
			line += " — " + RelativeTime(time.Since(t.Accessed()))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
