package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/lotas/tabwarden/internal/types"
)

func snap(tabs ...types.Tab) *types.Snapshot {
	windows := make(map[int]bool)
	for _, t := range tabs {
		windows[t.WindowID] = true
	}
	return &types.Snapshot{
		Timestamp:   time.Now().UnixMilli(),
		WindowCount: len(windows),
		TabCount:    len(tabs),
		Tabs:        tabs,
	}
}

func TestListTabsFilters(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, WindowID: 1, Title: "Go repo", URL: "https://github.com/golang/go", Domain: "github.com", GroupID: types.UngroupedID},
		types.Tab{ID: 2, WindowID: 1, Title: "HN", URL: "https://news.ycombinator.com/", Domain: "news.ycombinator.com", GroupID: types.UngroupedID},
		types.Tab{ID: 3, WindowID: 1, Title: "Gist", URL: "https://gist.github.com/x", Domain: "gist.github.com", GroupID: types.UngroupedID},
	)

	all := ListTabs(s, ListFilter{})
	if len(all) != 3 {
		t.Fatalf("no filter should return all tabs, got %d", len(all))
	}

	byDomain := ListTabs(s, ListFilter{Domain: "github"})
	if len(byDomain) != 2 {
		t.Errorf("domain filter: expected 2, got %d", len(byDomain))
	}

	// Search matches title or URL, case-insensitively.
	bySearch := ListTabs(s, ListFilter{Search: "GOLANG"})
	if len(bySearch) != 1 || bySearch[0].ID != 1 {
		t.Errorf("search filter: expected tab 1, got %v", bySearch)
	}

	// Both filters are conjunctive.
	both := ListTabs(s, ListFilter{Domain: "github", Search: "gist"})
	if len(both) != 1 || both[0].ID != 3 {
		t.Errorf("conjunctive filters: expected tab 3, got %v", both)
	}
}

func TestGroupByDomain(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, Domain: "a.com"},
		types.Tab{ID: 2, Domain: "b.com"},
		types.Tab{ID: 3, Domain: "a.com"},
		types.Tab{ID: 4, Domain: "a.com"},
		types.Tab{ID: 5, Domain: "c.com"},
	)
	counts := GroupByDomain(s)
	if len(counts) != 3 {
		t.Fatalf("expected 3 domains, got %d", len(counts))
	}
	if counts[0].Domain != "a.com" || counts[0].Count != 3 {
		t.Errorf("expected a.com first with 3, got %s/%d", counts[0].Domain, counts[0].Count)
	}

	// Counts must sum to the total tab count.
	total := 0
	for _, dc := range counts {
		total += dc.Count
	}
	if total != len(s.Tabs) {
		t.Errorf("counts sum to %d, want %d", total, len(s.Tabs))
	}

	// Ties keep first-seen order.
	if counts[1].Domain != "b.com" || counts[2].Domain != "c.com" {
		t.Errorf("tie order wrong: %v", counts)
	}
}

func TestFindDuplicates(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, Title: "HN", URL: "https://news.ycombinator.com/"},
		types.Tab{ID: 2, Title: "Go", URL: "https://go.dev/"},
		types.Tab{ID: 3, Title: "HN again", URL: "https://news.ycombinator.com/"},
		types.Tab{ID: 4, Title: "HN third", URL: "https://news.ycombinator.com/"},
	)
	dups := FindDuplicates(s)
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d", len(dups))
	}
	g := dups[0]
	if g.URL != "https://news.ycombinator.com/" || g.Count != 3 {
		t.Errorf("wrong group: %+v", g)
	}
	if g.Title != "HN" {
		t.Errorf("title should come from the first tab, got %q", g.Title)
	}
	if len(g.TabIDs) != 3 || g.TabIDs[0] != 1 || g.TabIDs[1] != 3 || g.TabIDs[2] != 4 {
		t.Errorf("wrong tab ids: %v", g.TabIDs)
	}
}

func TestFindDuplicatesNone(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, URL: "https://a.com/"},
		types.Tab{ID: 2, URL: "https://b.com/"},
	)
	if dups := FindDuplicates(s); len(dups) != 0 {
		t.Errorf("unique URLs should yield no duplicates, got %v", dups)
	}
}

func TestFindOldTabs(t *testing.T) {
	now := time.Now()
	s := snap(
		types.Tab{ID: 1, Title: "old", LastAccessed: now.Add(-2 * time.Hour).UnixMilli()},
		types.Tab{ID: 2, Title: "fresh", LastAccessed: now.Add(-10 * time.Minute).UnixMilli()},
		types.Tab{ID: 3, Title: "unknown"}, // no LastAccessed
	)

	old := FindOldTabs(s, 1, now)
	if len(old) != 1 {
		t.Fatalf("expected 1 old tab, got %d", len(old))
	}
	if old[0].Tab.ID != 1 {
		t.Errorf("expected tab 1, got %d", old[0].Tab.ID)
	}
	if got := RelativeTime(old[0].Age); got != "2h ago" {
		t.Errorf("expected age to render as \"2h ago\", got %q", got)
	}

	// Tabs with unknown access times are never reported.
	old = FindOldTabs(s, 0, now) // 0 falls back to the 24h default
	if len(old) != 0 {
		t.Errorf("expected no tabs older than 24h, got %d", len(old))
	}
}

func TestFindOldTabsOrdering(t *testing.T) {
	now := time.Now()
	s := snap(
		types.Tab{ID: 1, LastAccessed: now.Add(-3 * time.Hour).UnixMilli()},
		types.Tab{ID: 2, LastAccessed: now.Add(-5 * time.Hour).UnixMilli()},
		types.Tab{ID: 3, LastAccessed: now.Add(-4 * time.Hour).UnixMilli()},
	)
	old := FindOldTabs(s, 2, now)
	if len(old) != 3 {
		t.Fatalf("expected 3 old tabs, got %d", len(old))
	}
	if old[0].Tab.ID != 2 || old[1].Tab.ID != 3 || old[2].Tab.ID != 1 {
		t.Errorf("expected oldest first (2,3,1), got %d,%d,%d",
			old[0].Tab.ID, old[1].Tab.ID, old[2].Tab.ID)
	}
}

func TestComputeStats(t *testing.T) {
	s := &types.Snapshot{
		WindowCount: 2,
		Groups: []types.TabGroup{
			{ID: 10, Title: "Work"},
		},
		Tabs: []types.Tab{
			{ID: 1, Domain: "a.com", Pinned: true, GroupID: types.UngroupedID},
			{ID: 2, Domain: "a.com", Audible: true, GroupID: 10},
			{ID: 3, Domain: "b.com", GroupID: 10},
		},
	}
	st := ComputeStats(s)
	if st.TotalTabs != 3 || st.Windows != 2 {
		t.Errorf("totals wrong: %+v", st)
	}
	if st.UniqueDomains != 2 {
		t.Errorf("expected 2 unique domains, got %d", st.UniqueDomains)
	}
	if st.Pinned != 1 || st.Audible != 1 {
		t.Errorf("pinned/audible wrong: %+v", st)
	}
	if st.Grouped != 2 || st.Groups != 1 {
		t.Errorf("grouping wrong: %+v", st)
	}
}

func TestCategorize(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, Domain: "github.com", URL: "https://github.com/a/b"},
		types.Tab{ID: 2, Domain: "news.ycombinator.com", URL: "https://news.ycombinator.com/"},
		types.Tab{ID: 3, Domain: "obscure.example", URL: "https://obscure.example/"},
		types.Tab{ID: 4, Domain: "stackoverflow.com", URL: "https://stackoverflow.com/q/1"},
	)
	c := Categorize(s)
	if len(c.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(c.Buckets))
	}
	// Buckets come back in catalog order: Development before News.
	if c.Buckets[0].Name != "Development" || len(c.Buckets[0].Tabs) != 2 {
		t.Errorf("bucket 0 wrong: %s/%d", c.Buckets[0].Name, len(c.Buckets[0].Tabs))
	}
	if c.Buckets[1].Name != "News" || len(c.Buckets[1].Tabs) != 1 {
		t.Errorf("bucket 1 wrong: %s/%d", c.Buckets[1].Name, len(c.Buckets[1].Tabs))
	}
	if len(c.Uncategorized) != 1 || c.Uncategorized[0].ID != 3 {
		t.Errorf("uncategorized wrong: %v", c.Uncategorized)
	}
}

func TestSuggestGroupingByDomain(t *testing.T) {
	var tabs []types.Tab
	for i := 0; i < 6; i++ {
		tabs = append(tabs, types.Tab{
			ID:     i + 1,
			Domain: "news.ycombinator.com",
			URL:    "https://news.ycombinator.com/item?id=" + strings.Repeat("1", i+1),
		})
	}
	s := snap(tabs...)

	got := Suggest(s, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0], "news.ycombinator.com") || !strings.Contains(got[0], "6") {
		t.Errorf("expected grouping suggestion for 6 HN tabs, got %q", got[0])
	}
}

func TestSuggestDuplicates(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, URL: "https://a.com/"},
		types.Tab{ID: 2, URL: "https://a.com/"},
		types.Tab{ID: 3, URL: "https://a.com/"},
		types.Tab{ID: 4, URL: "https://b.com/"},
		types.Tab{ID: 5, URL: "https://b.com/"},
	)
	got := Suggest(s, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %v", got)
	}
	// 5 duplicate-URL tabs minus 2 survivors = 3 closable.
	if !strings.Contains(got[0], "Close 3 duplicate") {
		t.Errorf("expected 3 closable duplicates, got %q", got[0])
	}
}

func TestSuggestManyTabs(t *testing.T) {
	var tabs []types.Tab
	for i := 0; i < 51; i++ {
		tabs = append(tabs, types.Tab{
			ID:     i + 1,
			Domain: "site" + strings.Repeat("x", i%7) + ".example",
			URL:    "https://example/" + strings.Repeat("p", i),
		})
	}
	got := Suggest(snap(tabs...), time.Now())

	found := false
	for _, sug := range got {
		if strings.Contains(sug, "51 tabs open") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a too-many-tabs suggestion, got %v", got)
	}
}

func TestSuggestStaleTabs(t *testing.T) {
	now := time.Now()
	var tabs []types.Tab
	for i := 0; i < 6; i++ {
		tabs = append(tabs, types.Tab{
			ID:           i + 1,
			URL:          "https://stale.example/" + strings.Repeat("s", i),
			LastAccessed: now.Add(-48 * time.Hour).UnixMilli(),
		})
	}
	got := Suggest(snap(tabs...), now)

	found := false
	for _, sug := range got {
		if strings.Contains(sug, "not accessed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a staleness suggestion, got %v", got)
	}
}

func TestSuggestNothing(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, Domain: "a.com", URL: "https://a.com/"},
		types.Tab{ID: 2, Domain: "b.com", URL: "https://b.com/"},
	)
	if got := Suggest(s, time.Now()); len(got) != 0 {
		t.Errorf("well-organized snapshot should yield no suggestions, got %v", got)
	}
	if msg := FormatSuggestions(nil); msg != "Your tabs look well organized." {
		t.Errorf("unexpected empty-suggestions message: %q", msg)
	}
}

func TestFocusCandidates(t *testing.T) {
	now := time.Now()
	s := snap(
		types.Tab{ID: 1, Title: "PR review", Domain: "github.com", URL: "https://github.com/a/b/pull/1", LastAccessed: now.Add(-1 * time.Hour).UnixMilli()},
		types.Tab{ID: 2, Title: "HN", Domain: "news.ycombinator.com", URL: "https://news.ycombinator.com/", LastAccessed: now.Add(-5 * time.Minute).UnixMilli()},
		types.Tab{ID: 3, Title: "Dev server", Domain: "localhost", URL: "http://localhost:3000/", LastAccessed: now.Add(-2 * time.Minute).UnixMilli()},
	)

	got := FocusCandidates(s, "coding")
	if len(got) != 2 {
		t.Fatalf("expected 2 coding tabs, got %d", len(got))
	}
	// Most recently accessed first.
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("expected order 3,1, got %d,%d", got[0].ID, got[1].ID)
	}
}

func TestFocusCandidatesCap(t *testing.T) {
	now := time.Now()
	var tabs []types.Tab
	for i := 0; i < 8; i++ {
		tabs = append(tabs, types.Tab{
			ID:           i + 1,
			Domain:       "github.com",
			URL:          "https://github.com/",
			LastAccessed: now.Add(-time.Duration(i) * time.Minute).UnixMilli(),
		})
	}
	got := FocusCandidates(snap(tabs...), "coding")
	if len(got) != 5 {
		t.Fatalf("expected the top 5, got %d", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("expected most recent tab first, got %d", got[0].ID)
	}
}

func TestFocusCandidatesNoContext(t *testing.T) {
	s := snap(
		types.Tab{ID: 1, Domain: "a.com", URL: "https://a.com/"},
		types.Tab{ID: 2, Domain: "b.com", URL: "https://b.com/"},
	)
	if got := FocusCandidates(s, ""); len(got) != 2 {
		t.Errorf("empty context should consider every tab, got %d", len(got))
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.d); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatCategorizedTruncation(t *testing.T) {
	var tabs []types.Tab
	for i := 0; i < 15; i++ {
		tabs = append(tabs, types.Tab{ID: i + 1, Title: "t", Domain: "x.example", URL: "https://x.example/"})
	}
	out := FormatCategorized(Categorize(snap(tabs...)))
	if !strings.Contains(out, "Other (15):") {
		t.Errorf("expected Other header with full count, got:\n%s", out)
	}
	if !strings.Contains(out, "+5 more") {
		t.Errorf("expected truncation marker, got:\n%s", out)
	}
}
