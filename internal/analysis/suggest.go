package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lotas/tabwarden/internal/catalog"
	"github.com/lotas/tabwarden/internal/types"
)

// Suggestion thresholds.
const (
	groupDomainMin = 5  // tabs per domain before a grouping suggestion
	manyTabsMin    = 50 // total tabs before a "too many tabs" suggestion
	staleTabsMin   = 5  // stale tabs before a review suggestion
)

// Suggest runs the advisory heuristics over a snapshot and returns
// natural-language suggestions in a fixed order: duplicates, heavy domains,
// total tab count, staleness. An empty slice means the tabs look organized.
func Suggest(s *types.Snapshot, now time.Time) []string {
	var out []string

	if dups := FindDuplicates(s); len(dups) > 0 {
		total := 0
		for _, g := range dups {
			total += g.Count
		}
		excess := total - len(dups)
		out = append(out, fmt.Sprintf(
			"Close %d duplicate tab(s) — %d URL(s) are open more than once", excess, len(dups)))
	}

	for _, dc := range GroupByDomain(s) {
		if dc.Count >= groupDomainMin && dc.Domain != "" {
			out = append(out, fmt.Sprintf(
				"Group %d tabs from %s into a tab group", dc.Count, dc.Domain))
		}
	}

	if len(s.Tabs) > manyTabsMin {
		out = append(out, fmt.Sprintf(
			"You have %d tabs open — consider closing some to reduce clutter", len(s.Tabs)))
	}

	if stale := FindOldTabs(s, DefaultStaleHours, now); len(stale) > staleTabsMin {
		out = append(out, fmt.Sprintf(
			"Review %d tabs not accessed in the last %d hours", len(stale), DefaultStaleHours))
	}

	return out
}

// FocusCandidates filters tabs relevant to a focus context and returns the
// most recently accessed five. An empty context considers every tab.
// Tabs with unknown last-accessed times sort last.
func FocusCandidates(s *types.Snapshot, context string) []types.Tab {
	keywords := catalog.FocusKeywords(context)

	var candidates []types.Tab
	for _, t := range s.Tabs {
		if keywords == nil || matchesAny(t, keywords) {
			candidates = append(candidates, t)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].LastAccessed > candidates[j].LastAccessed
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	return candidates
}

func matchesAny(t types.Tab, keywords []string) bool {
	domain := strings.ToLower(t.Domain)
	title := strings.ToLower(t.Title)
	url := strings.ToLower(t.URL)
	for _, kw := range keywords {
		if strings.Contains(domain, kw) || strings.Contains(title, kw) || strings.Contains(url, kw) {
			return true
		}
	}
	return false
}
