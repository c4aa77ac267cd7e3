// Package firefox reads snapshots from a Firefox profile's session store.
// It is the offline snapshot source: analysis tools can run against the
// on-disk session even before the extension has performed a sync. Tab and
// group ids are synthetic (session files carry none), so snapshots from
// this source are suitable for read-only analysis only.
package firefox

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/lotas/tabwarden/internal/types"
	"github.com/pierrec/lz4/v4"
)

// mozlz4 header: 8-byte magic "mozLz40\x00" + 4-byte LE uncompressed size.
var mozLz4Magic = []byte("mozLz40\x00")

// DecompressMozLz4 decompresses data in Mozilla's mozlz4 format.
func DecompressMozLz4(data []byte) ([]byte, error) {
	const headerSize = 12

	if len(data) < headerSize {
		return nil, fmt.Errorf("mozlz4: data too short (%d bytes)", len(data))
	}
	for i := range mozLz4Magic {
		if data[i] != mozLz4Magic[i] {
			return nil, fmt.Errorf("mozlz4: invalid header magic")
		}
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[8:12])
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data[headerSize:], dst)
	if err != nil {
		return nil, fmt.Errorf("mozlz4: decompress failed: %w", err)
	}
	return dst[:n], nil
}

// Raw JSON types for Firefox session file parsing.
type rawEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type rawTab struct {
	Entries      []rawEntry `json:"entries"`
	Index        int        `json:"index"`
	LastAccessed int64      `json:"lastAccessed"`
	Pinned       bool       `json:"pinned"`
	Image        string     `json:"image"`
	Group        string     `json:"groupId"`
}

type rawGroup struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Collapsed bool   `json:"collapsed"`
}

type rawWindow struct {
	Tabs   []rawTab   `json:"tabs"`
	Groups []rawGroup `json:"groups"`
}

type rawSession struct {
	Windows []rawWindow `json:"windows"`
}

// DeriveDomain extracts the hostname from a URL, or "" when it has none.
func DeriveDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ParseSession converts raw session JSON into a Snapshot. Ids are assigned
// sequentially: tabs and groups get 1-based ids in encounter order.
func ParseSession(data []byte, takenAt int64) (*types.Snapshot, error) {
	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse session JSON: %w", err)
	}

	snap := &types.Snapshot{
		Timestamp:   takenAt,
		WindowCount: len(raw.Windows),
	}

	nextTabID := 1
	nextGroupID := 1
	for winIdx, window := range raw.Windows {
		windowID := winIdx + 1

		groupIDs := make(map[string]int)
		for _, rg := range window.Groups {
			groupIDs[rg.ID] = nextGroupID
			snap.Groups = append(snap.Groups, types.TabGroup{
				ID:        nextGroupID,
				Title:     rg.Name,
				Color:     rg.Color,
				Collapsed: rg.Collapsed,
				WindowID:  windowID,
			})
			nextGroupID++
		}

		for tabIdx, rt := range window.Tabs {
			if len(rt.Entries) == 0 {
				continue
			}
			// index is 1-based; the current page is entries[index-1].
			entryIdx := rt.Index - 1
			if entryIdx < 0 || entryIdx >= len(rt.Entries) {
				entryIdx = len(rt.Entries) - 1
			}
			entry := rt.Entries[entryIdx]

			groupID := types.UngroupedID
			if rt.Group != "" {
				if id, ok := groupIDs[rt.Group]; ok {
					groupID = id
				}
			}

			snap.Tabs = append(snap.Tabs, types.Tab{
				ID:           nextTabID,
				WindowID:     windowID,
				Index:        tabIdx,
				Title:        entry.Title,
				URL:          entry.URL,
				Domain:       DeriveDomain(entry.URL),
				Pinned:       rt.Pinned,
				GroupID:      groupID,
				LastAccessed: rt.LastAccessed,
				FavIconURL:   rt.Image,
			})
			nextTabID++
		}
	}

	snap.TabCount = len(snap.Tabs)
	return snap, nil
}

// ReadSessionFile reads and parses the session store of a profile
// directory, trying the active session first, then the last closed one.
func ReadSessionFile(profileDir string) (*types.Snapshot, error) {
	backupDir := filepath.Join(profileDir, "sessionstore-backups")

	var data []byte
	var takenAt int64
	var err error
	for _, name := range []string{"recovery.jsonlz4", "previous.jsonlz4"} {
		path := filepath.Join(backupDir, name)
		data, err = os.ReadFile(path)
		if err == nil {
			if info, statErr := os.Stat(path); statErr == nil {
				takenAt = info.ModTime().UnixMilli()
			}
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("no session file found in %s", backupDir)
	}

	decompressed, err := DecompressMozLz4(data)
	if err != nil {
		return nil, fmt.Errorf("decompress session file: %w", err)
	}
	return ParseSession(decompressed, takenAt)
}
