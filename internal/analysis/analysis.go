// Package analysis implements the read-only queries over a tab snapshot.
// Every query returns a structured result; the text renderings live in
// format.go so results stay independently testable.
package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/lotas/tabwarden/internal/catalog"
	"github.com/lotas/tabwarden/internal/types"
)

// DefaultStaleHours is the staleness threshold when the caller gives none.
const DefaultStaleHours = 24

// ListFilter narrows ListTabs output. Both fields are optional and
// conjunctive when both are set.
type ListFilter struct {
	Domain string // substring of the tab's domain
	Search string // substring of the tab's title or URL
}

// ListTabs returns the tabs matching the filter, in snapshot order.
func ListTabs(s *types.Snapshot, f ListFilter) []types.Tab {
	domain := strings.ToLower(f.Domain)
	search := strings.ToLower(f.Search)

	var out []types.Tab
	for _, t := range s.Tabs {
		if domain != "" && !strings.Contains(strings.ToLower(t.Domain), domain) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.URL), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DomainCount is one row of the group-by-domain result.
type DomainCount struct {
	Domain string
	Count  int
}

// GroupByDomain counts tabs per exact domain value, ordered by descending
// count. Ties keep first-seen snapshot order so repeated calls on the same
// snapshot are identical.
func GroupByDomain(s *types.Snapshot) []DomainCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range s.Tabs {
		if counts[t.Domain] == 0 {
			order = append(order, t.Domain)
		}
		counts[t.Domain]++
	}

	out := make([]DomainCount, 0, len(order))
	for _, d := range order {
		out = append(out, DomainCount{Domain: d, Count: counts[d]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DuplicateGroup describes one URL open in more than one tab.
type DuplicateGroup struct {
	URL    string
	Title  string // title of the first tab with this URL
	Count  int
	TabIDs []int
}

// FindDuplicates groups tabs by exact URL equality and returns every URL
// with more than one tab, in first-seen order.
func FindDuplicates(s *types.Snapshot) []DuplicateGroup {
	byURL := make(map[string]*DuplicateGroup)
	var order []string
	for _, t := range s.Tabs {
		g, ok := byURL[t.URL]
		if !ok {
			g = &DuplicateGroup{URL: t.URL, Title: t.Title}
			byURL[t.URL] = g
			order = append(order, t.URL)
		}
		g.Count++
		g.TabIDs = append(g.TabIDs, t.ID)
	}

	var out []DuplicateGroup
	for _, u := range order {
		if g := byURL[u]; g.Count > 1 {
			out = append(out, *g)
		}
	}
	return out
}

// OldTab pairs a tab with its age at query time.
type OldTab struct {
	Tab types.Tab
	Age time.Duration
}

// FindOldTabs returns tabs with a known last-accessed time older than the
// hour threshold, oldest first. hours <= 0 falls back to the default.
func FindOldTabs(s *types.Snapshot, hours int, now time.Time) []OldTab {
	if hours <= 0 {
		hours = DefaultStaleHours
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)

	var out []OldTab
	for _, t := range s.Tabs {
		if t.LastAccessed == 0 {
			continue
		}
		acc := t.Accessed()
		if acc.Before(cutoff) {
			out = append(out, OldTab{Tab: t, Age: now.Sub(acc)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tab.LastAccessed < out[j].Tab.LastAccessed
	})
	return out
}

// Stats holds aggregate snapshot statistics.
type Stats struct {
	TotalTabs     int
	Windows       int
	UniqueDomains int
	Pinned        int
	Audible       int
	Grouped       int
	Groups        int
}

// ComputeStats aggregates counters over the snapshot.
func ComputeStats(s *types.Snapshot) Stats {
	st := Stats{
		TotalTabs: len(s.Tabs),
		Windows:   s.WindowCount,
		Groups:    len(s.Groups),
	}
	domains := make(map[string]bool)
	for _, t := range s.Tabs {
		domains[t.Domain] = true
		if t.Pinned {
			st.Pinned++
		}
		if t.Audible {
			st.Audible++
		}
		if t.GroupID != types.UngroupedID {
			st.Grouped++
		}
	}
	st.UniqueDomains = len(domains)
	return st
}

// CategoryBucket is one category's slice of a categorized result.
type CategoryBucket struct {
	Name string
	Tabs []types.Tab
}

// Categorized partitions a snapshot over the analysis catalog.
type Categorized struct {
	Buckets       []CategoryBucket // catalog order, empty buckets omitted
	Uncategorized []types.Tab
}

// Categorize assigns every tab to the first matching analysis category, or
// to the uncategorized bucket.
func Categorize(s *types.Snapshot) Categorized {
	byName := make(map[string][]types.Tab)
	var out Categorized
	for _, t := range s.Tabs {
		cat, ok := catalog.Analysis.Match(t.Domain, t.URL)
		if ok {
			byName[cat.Name] = append(byName[cat.Name], t)
		} else {
			out.Uncategorized = append(out.Uncategorized, t)
		}
	}
	for _, cat := range catalog.Analysis {
		if tabs := byName[cat.Name]; len(tabs) > 0 {
			out.Buckets = append(out.Buckets, CategoryBucket{Name: cat.Name, Tabs: tabs})
		}
	}
	return out
}
