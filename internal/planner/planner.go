// Package planner derives concrete reorganization commands from a snapshot
// and appends them to the command sink. Every operation is stateless:
// it reads the snapshot, emits zero or more pending commands, and returns a
// confirmation message. Nothing here waits for command execution.
package planner

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/catalog"
	"github.com/lotas/tabwarden/internal/queue"
	"github.com/lotas/tabwarden/internal/types"
)

// Planner turns organization intents into queued commands.
type Planner struct {
	sink queue.Sink

	mu     sync.Mutex
	lastID int64
}

// New returns a Planner writing to the given sink.
func New(sink queue.Sink) *Planner {
	return &Planner{sink: sink}
}

// Result is the outcome of one planning operation.
type Result struct {
	Message  string
	Commands []types.Command // commands appended to the sink, in order
}

// nextID returns a unique, monotonically increasing command id based on
// the current time in milliseconds. Two commands created within the same
// millisecond still get distinct ids.
func (p *Planner) nextID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= p.lastID {
		id = p.lastID + 1
	}
	p.lastID = id
	return id
}

func (p *Planner) emit(cmd types.Command) (types.Command, error) {
	cmd.ID = p.nextID()
	cmd.Status = types.StatusPending
	if err := p.sink.Append(cmd); err != nil {
		return types.Command{}, fmt.Errorf("queue command: %w", err)
	}
	applog.Info("planner.queued", "action", cmd.Action, "id", cmd.ID)
	return cmd, nil
}

// titles renders up to eight affected tab titles for confirmation text.
func titles(tabs []types.Tab) string {
	const shown = 8
	var names []string
	for i, t := range tabs {
		if i == shown {
			names = append(names, fmt.Sprintf("+%d more", len(tabs)-shown))
			break
		}
		name := t.Title
		if name == "" {
			name = t.URL
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func ids(tabs []types.Tab) []int {
	out := make([]int, len(tabs))
	for i, t := range tabs {
		out[i] = t.ID
	}
	return out
}

// CloseSelector picks the tabs for CloseTabs. Exactly one selector is
// used; when several are set, explicit ids win over domain, and domain
// wins over the URL pattern.
type CloseSelector struct {
	TabIDs     []int
	Domain     string
	URLPattern string
}

// CloseTabs queues a close command for the selected tabs.
func (p *Planner) CloseTabs(s *types.Snapshot, sel CloseSelector) (Result, error) {
	var targets []types.Tab

	switch {
	case len(sel.TabIDs) > 0:
		want := make(map[int]bool, len(sel.TabIDs))
		for _, id := range sel.TabIDs {
			want[id] = true
		}
		for _, t := range s.Tabs {
			if want[t.ID] {
				targets = append(targets, t)
			}
		}
	case sel.Domain != "":
		domain := strings.ToLower(sel.Domain)
		for _, t := range s.Tabs {
			if strings.Contains(strings.ToLower(t.Domain), domain) {
				targets = append(targets, t)
			}
		}
	case sel.URLPattern != "":
		pattern := strings.ToLower(sel.URLPattern)
		for _, t := range s.Tabs {
			if strings.Contains(strings.ToLower(t.URL), pattern) {
				targets = append(targets, t)
			}
		}
	default:
		return Result{Message: "Provide tab ids, a domain, or a URL pattern to close."}, nil
	}

	if len(targets) == 0 {
		return Result{Message: "No tabs match the close selector."}, nil
	}

	cmd, err := p.emit(types.Command{Action: types.ActionCloseTabs, TabIDs: ids(targets)})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message:  fmt.Sprintf("Queued close for %d tab(s): %s", len(targets), titles(targets)),
		Commands: []types.Command{cmd},
	}, nil
}

// CloseDuplicates queues a close command for every tab after the first with
// the same URL. Exactly one tab per distinct URL survives.
func (p *Planner) CloseDuplicates(s *types.Snapshot) (Result, error) {
	targets := duplicateTabs(s.Tabs)
	if len(targets) == 0 {
		return Result{Message: "No duplicate tabs to close."}, nil
	}

	cmd, err := p.emit(types.Command{Action: types.ActionCloseTabs, TabIDs: ids(targets)})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message:  fmt.Sprintf("Queued close for %d duplicate tab(s): %s", len(targets), titles(targets)),
		Commands: []types.Command{cmd},
	}, nil
}

// duplicateTabs returns every tab whose URL was already seen on an earlier
// tab, in snapshot order.
func duplicateTabs(tabs []types.Tab) []types.Tab {
	seen := make(map[string]bool)
	var out []types.Tab
	for _, t := range tabs {
		if seen[t.URL] {
			out = append(out, t)
			continue
		}
		seen[t.URL] = true
	}
	return out
}

// CreateGroup queues a create-group command for all tabs whose domain
// contains the given substring. Both name and domain are required; an
// unknown color falls back to the default.
func (p *Planner) CreateGroup(s *types.Snapshot, name, domain, color string) (Result, error) {
	if name == "" || domain == "" {
		return Result{Message: "Both a group name and a domain are required."}, nil
	}
	if !catalog.ValidGroupColor(color) {
		color = catalog.DefaultGroupColor
	}

	want := strings.ToLower(domain)
	var targets []types.Tab
	for _, t := range s.Tabs {
		if strings.Contains(strings.ToLower(t.Domain), want) {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return Result{Message: fmt.Sprintf("No tabs with domain containing %q.", domain)}, nil
	}

	cmd, err := p.emit(types.Command{
		Action: types.ActionCreateGroup,
		TabIDs: ids(targets),
		Name:   name,
		Color:  color,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message:  fmt.Sprintf("Queued group %q (%s) with %d tab(s): %s", name, color, len(targets), titles(targets)),
		Commands: []types.Command{cmd},
	}, nil
}

// FocusTab queues a focus command. The target resolves by explicit id
// first, then by the first tab whose title or URL contains the search
// string. A miss is a no-op, not an error.
func (p *Planner) FocusTab(s *types.Snapshot, tabID int, search string) (Result, error) {
	var target *types.Tab
	if tabID != 0 {
		for i := range s.Tabs {
			if s.Tabs[i].ID == tabID {
				target = &s.Tabs[i]
				break
			}
		}
	} else if search != "" {
		want := strings.ToLower(search)
		for i := range s.Tabs {
			t := &s.Tabs[i]
			if strings.Contains(strings.ToLower(t.Title), want) ||
				strings.Contains(strings.ToLower(t.URL), want) {
				target = t
				break
			}
		}
	}

	if target == nil {
		return Result{Message: "No matching tab to focus."}, nil
	}

	cmd, err := p.emit(types.Command{
		Action:   types.ActionFocusTab,
		TabID:    target.ID,
		WindowID: target.WindowID,
	})
	if err != nil {
		return Result{}, err
	}
	title := target.Title
	if title == "" {
		title = target.URL
	}
	return Result{
		Message:  fmt.Sprintf("Queued focus for %q", title),
		Commands: []types.Command{cmd},
	}, nil
}

// UngroupAll queues a single ungroup command covering every grouped tab.
func (p *Planner) UngroupAll(s *types.Snapshot) (Result, error) {
	var targets []types.Tab
	groupIDs := make(map[int]bool)
	for _, t := range s.Tabs {
		if t.GroupID != types.UngroupedID {
			targets = append(targets, t)
			groupIDs[t.GroupID] = true
		}
	}
	if len(targets) == 0 {
		return Result{Message: "No grouped tabs to ungroup."}, nil
	}

	cmd, err := p.emit(types.Command{Action: types.ActionUngroupTabs, TabIDs: ids(targets)})
	if err != nil {
		return Result{}, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, t := range targets {
		name := s.GroupTitle(t.GroupID)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return Result{
		Message:  fmt.Sprintf("Queued ungroup for %d tab(s) from: %s", len(targets), strings.Join(names, ", ")),
		Commands: []types.Command{cmd},
	}, nil
}

// Shuffle queues a single command moving every eligible tab to a uniformly
// random position. Eligible tabs — non-pinned, non-internal — form one
// flattened sequence regardless of originating window; the new index is
// the tab's position in the shuffled order and the executor applies each
// move within the tab's own window.
func (p *Planner) Shuffle(s *types.Snapshot) (Result, error) {
	var targets []types.Tab
	for _, t := range s.Tabs {
		if t.Pinned || catalog.IsInternalURL(t.URL) {
			continue
		}
		targets = append(targets, t)
	}
	if len(targets) < 2 {
		return Result{Message: "Need at least 2 shuffleable tabs."}, nil
	}

	shuffled := make([]types.Tab, len(targets))
	copy(shuffled, targets)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	moves := make([]types.TabMove, len(shuffled))
	for i, t := range shuffled {
		moves[i] = types.TabMove{TabID: t.ID, WindowID: t.WindowID, NewIndex: i}
	}

	cmd, err := p.emit(types.Command{Action: types.ActionShuffleTabs, Moves: moves})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message:  fmt.Sprintf("Queued shuffle of %d tab(s).", len(moves)),
		Commands: []types.Command{cmd},
	}, nil
}
