package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lotas/tabwarden/internal/analysis"
	"github.com/lotas/tabwarden/internal/export"
	"github.com/lotas/tabwarden/internal/planner"
	"github.com/lotas/tabwarden/internal/preview"
	"github.com/lotas/tabwarden/internal/types"
)

// tool describes one MCP tool.
type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func schema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func boolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func toolDescriptors() []tool {
	return []tool{
		{"list_tabs", "List open tabs, optionally filtered by domain substring and/or a title/URL search string.",
			schema(map[string]any{
				"domain": str("Only tabs whose domain contains this substring"),
				"search": str("Only tabs whose title or URL contains this substring"),
			})},
		{"group_tabs_by_domain", "Count open tabs per domain, most-used domains first.",
			schema(map[string]any{})},
		{"find_duplicate_tabs", "Find URLs that are open in more than one tab.",
			schema(map[string]any{})},
		{"find_old_tabs", "Find tabs not accessed within the given number of hours (default 24), oldest first.",
			schema(map[string]any{
				"hours": num("Staleness threshold in hours"),
			})},
		{"tab_stats", "Aggregate statistics: tab, window, domain, pinned, audible and group counts.",
			schema(map[string]any{})},
		{"categorize_tabs", "Partition tabs into semantic categories (Development, Social, News, ...).",
			schema(map[string]any{})},
		{"suggest_tab_organization", "Heuristic suggestions for cleaning up the current tab set.",
			schema(map[string]any{})},
		{"suggest_focus_tabs", "Suggest up to 5 tabs relevant to a focus context (coding, research, email, work, meetings, or free text).",
			schema(map[string]any{
				"context": str("What you want to focus on"),
			})},
		{"close_tabs", "Queue closing tabs selected by explicit ids, a domain substring, or a URL pattern (in that priority).",
			schema(map[string]any{
				"tabIds":     map[string]any{"type": "array", "items": map[string]any{"type": "number"}, "description": "Explicit tab ids to close"},
				"domain":     str("Close tabs whose domain contains this substring"),
				"urlPattern": str("Close tabs whose URL contains this substring"),
			})},
		{"close_duplicate_tabs", "Queue closing every tab after the first with the same URL.",
			schema(map[string]any{})},
		{"group_tabs", "Queue creating a named tab group from all tabs matching a domain substring.",
			schema(map[string]any{
				"name":   str("Group name"),
				"domain": str("Domain substring selecting the tabs"),
				"color":  str("Group color (defaults to blue)"),
			}, "name", "domain")},
		{"focus_tab", "Queue focusing a tab, by id or by the first title/URL match.",
			schema(map[string]any{
				"tabId":  num("Tab id to focus"),
				"search": str("Title or URL substring"),
			})},
		{"auto_organize_tabs", "Queue grouping all tabs into semantic categories; optionally close duplicates first.",
			schema(map[string]any{
				"closeDuplicates": boolean("Close duplicate tabs before grouping"),
			})},
		{"ungroup_all_tabs", "Queue removing every tab from its group.",
			schema(map[string]any{})},
		{"shuffle_tabs", "Queue moving all unpinned tabs to random positions.",
			schema(map[string]any{})},
		{"read_tab_content", "Fetch a tab's page and return its readable text content.",
			schema(map[string]any{
				"tabId": num("Tab id to read"),
				"url":   str("URL to read instead of a tab id"),
			})},
		{"export_tabs", "Export the current snapshot as markdown or JSON.",
			schema(map[string]any{
				"format": str("\"markdown\" (default) or \"json\""),
			})},
		{"pending_commands", "List queued commands the extension has not executed yet.",
			schema(map[string]any{})},
	}
}

// toolArgs is the union of every tool's arguments. Malformed or missing
// fields fall back to zero values, which each operation treats as "not
// provided" rather than an error.
type toolArgs struct {
	Domain          string  `json:"domain"`
	Search          string  `json:"search"`
	Hours           float64 `json:"hours"`
	Context         string  `json:"context"`
	TabIDs          []int   `json:"tabIds"`
	URLPattern      string  `json:"urlPattern"`
	Name            string  `json:"name"`
	Color           string  `json:"color"`
	TabID           int     `json:"tabId"`
	CloseDuplicates bool    `json:"closeDuplicates"`
	URL             string  `json:"url"`
	Format          string  `json:"format"`
}

// callTool executes one tool and returns its text result. The second
// return marks tool-level failures (reported inside the result, per MCP);
// the error return is reserved for transport-level problems.
func (s *Server) callTool(name string, rawArgs json.RawMessage) (string, bool, error) {
	var args toolArgs
	if len(rawArgs) > 0 {
		// Malformed arguments degrade to defaults instead of failing.
		json.Unmarshal(rawArgs, &args)
	}

	if name == "pending_commands" {
		return s.pendingCommands()
	}

	snap, err := s.source.Latest()
	if err != nil {
		return fmt.Sprintf("Failed to load tab data: %v", err), true, nil
	}
	if snap == nil {
		return analysis.NoDataMessage, false, nil
	}

	now := time.Now()
	switch name {
	case "list_tabs":
		f := analysis.ListFilter{Domain: args.Domain, Search: args.Search}
		return analysis.FormatList(analysis.ListTabs(snap, f), f), false, nil

	case "group_tabs_by_domain":
		return analysis.FormatDomains(analysis.GroupByDomain(snap)), false, nil

	case "find_duplicate_tabs":
		return analysis.FormatDuplicates(analysis.FindDuplicates(snap)), false, nil

	case "find_old_tabs":
		hours := int(args.Hours)
		return analysis.FormatOldTabs(analysis.FindOldTabs(snap, hours, now), hours), false, nil

	case "tab_stats":
		return analysis.FormatStats(analysis.ComputeStats(snap)), false, nil

	case "categorize_tabs":
		return analysis.FormatCategorized(analysis.Categorize(snap)), false, nil

	case "suggest_tab_organization":
		return analysis.FormatSuggestions(analysis.Suggest(snap, now)), false, nil

	case "suggest_focus_tabs":
		return analysis.FormatFocus(analysis.FocusCandidates(snap, args.Context), args.Context), false, nil

	case "close_tabs":
		sel := planner.CloseSelector{TabIDs: args.TabIDs, Domain: args.Domain, URLPattern: args.URLPattern}
		return s.plan(s.planner.CloseTabs(snap, sel))

	case "close_duplicate_tabs":
		return s.plan(s.planner.CloseDuplicates(snap))

	case "group_tabs":
		return s.plan(s.planner.CreateGroup(snap, args.Name, args.Domain, args.Color))

	case "focus_tab":
		return s.plan(s.planner.FocusTab(snap, args.TabID, args.Search))

	case "auto_organize_tabs":
		opts := planner.OrganizeOptions{CloseDuplicates: args.CloseDuplicates}
		return s.plan(s.planner.AutoOrganize(snap, opts))

	case "ungroup_all_tabs":
		return s.plan(s.planner.UngroupAll(snap))

	case "shuffle_tabs":
		return s.plan(s.planner.Shuffle(snap))

	case "read_tab_content":
		return readTabContent(snap, args.TabID, args.URL)

	case "export_tabs":
		if strings.EqualFold(args.Format, "json") {
			out, err := export.JSON(snap)
			if err != nil {
				return fmt.Sprintf("Export failed: %v", err), true, nil
			}
			return out, false, nil
		}
		return export.Markdown(snap), false, nil

	default:
		return fmt.Sprintf("Unknown tool %q", name), true, nil
	}
}

func (s *Server) plan(r planner.Result, err error) (string, bool, error) {
	if err != nil {
		return fmt.Sprintf("Failed to queue command: %v", err), true, nil
	}
	return r.Message, false, nil
}

func (s *Server) pendingCommands() (string, bool, error) {
	pending, err := s.sink.Pending()
	if err != nil {
		return fmt.Sprintf("Failed to read command queue: %v", err), true, nil
	}
	if len(pending) == 0 {
		return "No pending commands.", false, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d pending command(s):\n", len(pending))
	for _, c := range pending {
		fmt.Fprintf(&b, "- #%d %s", c.ID, c.Action)
		switch c.Action {
		case types.ActionCreateGroup:
			fmt.Fprintf(&b, " %q (%s), %d tab(s)", c.Name, c.Color, len(c.TabIDs))
		case types.ActionCloseTabs, types.ActionUngroupTabs:
			fmt.Fprintf(&b, ", %d tab(s)", len(c.TabIDs))
		case types.ActionFocusTab:
			fmt.Fprintf(&b, ", tab %d", c.TabID)
		case types.ActionShuffleTabs:
			fmt.Fprintf(&b, ", %d move(s)", len(c.Moves))
		}
		b.WriteByte('\n')
	}
	return b.String(), false, nil
}

func readTabContent(snap *types.Snapshot, tabID int, url string) (string, bool, error) {
	target := url
	if tabID != 0 {
		found := false
		for _, t := range snap.Tabs {
			if t.ID == tabID {
				target = t.URL
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("No tab with id %d.", tabID), false, nil
		}
	}
	if target == "" {
		return "Provide a tabId or a url to read.", false, nil
	}

	title, text, err := preview.FetchReadable(target)
	if err != nil {
		return fmt.Sprintf("Could not read %s: %v", target, err), true, nil
	}
	return fmt.Sprintf("%s\n\n%s", title, preview.Truncate(text)), false, nil
}
