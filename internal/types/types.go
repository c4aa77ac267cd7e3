package types

import (
	"encoding/json"
	"time"
)

// UngroupedID is the browser's sentinel group id for tabs outside any group.
const UngroupedID = -1

// Tab represents a single browser tab at snapshot time.
type Tab struct {
	ID           int             `json:"id"`
	WindowID     int             `json:"windowId"`
	Index        int             `json:"index"`
	Title        string          `json:"title"`
	URL          string          `json:"url"`
	Domain       string          `json:"domain"`
	Pinned       bool            `json:"pinned"`
	Active       bool            `json:"active"`
	GroupID      int             `json:"groupId"`
	LastAccessed int64           `json:"lastAccessed,omitempty"` // unix ms; 0 = unknown
	Audible      bool            `json:"audible,omitempty"`
	MutedInfo    json.RawMessage `json:"mutedInfo,omitempty"`
	FavIconURL   string          `json:"favIconUrl,omitempty"`
}

// Accessed returns the last-accessed time, or the zero time if unknown.
func (t Tab) Accessed() time.Time {
	if t.LastAccessed == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.LastAccessed)
}

// TabGroup represents a named visual grouping of tabs.
type TabGroup struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	Collapsed bool   `json:"collapsed"`
	WindowID  int    `json:"windowId"`
}

// Snapshot is a point-in-time capture of the browser's tab state.
// It is created wholesale by the extension at sync time and never
// partially updated by this process.
type Snapshot struct {
	Timestamp   int64      `json:"timestamp"` // unix ms
	WindowCount int        `json:"windowCount"`
	TabCount    int        `json:"tabCount"`
	Groups      []TabGroup `json:"groups"`
	Tabs        []Tab      `json:"tabs"`
}

// Taken returns the snapshot creation time.
func (s *Snapshot) Taken() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// GroupTitle resolves a group id to a display title. Unknown ids render
// as "Unknown", untitled groups as "Unnamed".
func (s *Snapshot) GroupTitle(id int) string {
	for _, g := range s.Groups {
		if g.ID == id {
			if g.Title == "" {
				return "Unnamed"
			}
			return g.Title
		}
	}
	return "Unknown"
}

// Command statuses. This process only ever writes pending; the extension
// executor transitions commands to done.
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// Action identifies a command variant.
type Action string

const (
	ActionCloseTabs   Action = "close_tabs"
	ActionCreateGroup Action = "create_group"
	ActionFocusTab    Action = "focus_tab"
	ActionUngroupTabs Action = "ungroup_tabs"
	ActionShuffleTabs Action = "shuffle_tabs"
)

// TabMove is one entry of a shuffle command.
type TabMove struct {
	TabID    int `json:"tabId"`
	WindowID int `json:"windowId"`
	NewIndex int `json:"newIndex"`
}

// Command is a single queued mutation instruction for the extension to
// execute. Action selects which payload fields are meaningful.
type Command struct {
	ID     int64  `json:"id"`
	Action Action `json:"action"`
	Status string `json:"status"`

	TabIDs   []int     `json:"tabIds,omitempty"`   // close_tabs, create_group, ungroup_tabs
	Name     string    `json:"name,omitempty"`     // create_group
	Color    string    `json:"color,omitempty"`    // create_group
	TabID    int       `json:"tabId,omitempty"`    // focus_tab
	WindowID int       `json:"windowId,omitempty"` // focus_tab, create_group
	Moves    []TabMove `json:"moves,omitempty"`    // shuffle_tabs
}
