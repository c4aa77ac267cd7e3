// Package export renders a snapshot as markdown or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lotas/tabwarden/internal/types"
)

// Markdown formats a snapshot as a markdown document, one section per tab
// group plus an ungrouped section.
func Markdown(s *types.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Browser tabs — %d tabs in %d window(s)\n", len(s.Tabs), s.WindowCount)
	fmt.Fprintf(&b, "> Synced %s\n", s.Taken().Format("2006-01-02 15:04"))

	byGroup := make(map[int][]types.Tab)
	for _, t := range s.Tabs {
		byGroup[t.GroupID] = append(byGroup[t.GroupID], t)
	}

	section := func(title string, tabs []types.Tab) {
		n := len(tabs)
		noun := "tabs"
		if n == 1 {
			noun = "tab"
		}
		fmt.Fprintf(&b, "\n## %s (%d %s)\n\n", title, n, noun)
		for _, t := range tabs {
			title := t.Title
			if title == "" {
				title = t.URL
			}
			line := fmt.Sprintf("- [%s](%s)", title, t.URL)
			if t.LastAccessed != 0 {
				line += " — " + relativeTime(time.Since(t.Accessed()))
			}
			b.WriteString(line + "\n")
		}
	}

	for _, g := range s.Groups {
		if tabs := byGroup[g.ID]; len(tabs) > 0 {
			section(s.GroupTitle(g.ID), tabs)
		}
	}
	if tabs := byGroup[types.UngroupedID]; len(tabs) > 0 {
		section("Ungrouped", tabs)
	}

	return b.String()
}

// JSON formats a snapshot as indented JSON.
func JSON(s *types.Snapshot) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

func relativeTime(d time.Duration) string {
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
