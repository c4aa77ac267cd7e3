package storage

import (
	"database/sql"
	"fmt"

	"github.com/lotas/tabwarden/internal/types"
)

// keepSnapshots bounds how many historical syncs are retained; older rows
// are pruned on every save.
const keepSnapshots = 20

// Source adapts the database to the tool server's snapshot source.
type Source struct {
	DB *sql.DB
}

func (s Source) Latest() (*types.Snapshot, error) { return LatestSnapshot(s.DB) }

// SaveSnapshot persists a full snapshot in a single transaction and prunes
// history beyond the retention bound.
func SaveSnapshot(db *sql.DB, s *types.Snapshot) error {
	if err := types.ValidateSnapshot(s); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO snapshots (taken_at, window_count, tab_count) VALUES (?, ?, ?)",
		s.Timestamp, s.WindowCount, s.TabCount,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	snapID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get snapshot id: %w", err)
	}

	for _, g := range s.Groups {
		if _, err := tx.Exec(
			`INSERT INTO snapshot_groups (snapshot_id, browser_id, title, color, collapsed, window_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snapID, g.ID, g.Title, g.Color, g.Collapsed, g.WindowID,
		); err != nil {
			return fmt.Errorf("insert group %d: %w", g.ID, err)
		}
	}

	for _, t := range s.Tabs {
		var muted any
		if len(t.MutedInfo) > 0 {
			muted = string(t.MutedInfo)
		}
		if _, err := tx.Exec(
			`INSERT INTO snapshot_tabs
			 (snapshot_id, browser_id, window_id, tab_index, title, url, domain,
			  pinned, active, group_id, last_accessed, audible, muted_info, favicon_url)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snapID, t.ID, t.WindowID, t.Index, t.Title, t.URL, t.Domain,
			t.Pinned, t.Active, t.GroupID, t.LastAccessed, t.Audible, muted, t.FavIconURL,
		); err != nil {
			return fmt.Errorf("insert tab %d: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec(
		`DELETE FROM snapshots WHERE id NOT IN
		 (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`, keepSnapshots,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LatestSnapshot loads the most recent snapshot. Returns nil, nil when no
// sync has been performed yet — callers must treat that as "no data", which
// is distinct from a snapshot with zero tabs.
func LatestSnapshot(db *sql.DB) (*types.Snapshot, error) {
	var snapID int64
	s := &types.Snapshot{}
	err := db.QueryRow(
		"SELECT id, taken_at, window_count, tab_count FROM snapshots ORDER BY id DESC LIMIT 1",
	).Scan(&snapID, &s.Timestamp, &s.WindowCount, &s.TabCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	groupRows, err := db.Query(
		`SELECT browser_id, title, color, collapsed, window_id
		 FROM snapshot_groups WHERE snapshot_id = ? ORDER BY id`, snapID,
	)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer groupRows.Close()
	for groupRows.Next() {
		var g types.TabGroup
		if err := groupRows.Scan(&g.ID, &g.Title, &g.Color, &g.Collapsed, &g.WindowID); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		s.Groups = append(s.Groups, g)
	}
	if err := groupRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	tabRows, err := db.Query(
		`SELECT browser_id, window_id, tab_index, title, url, domain,
		        pinned, active, group_id, last_accessed, audible, muted_info, favicon_url
		 FROM snapshot_tabs WHERE snapshot_id = ? ORDER BY id`, snapID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	defer tabRows.Close()
	for tabRows.Next() {
		var t types.Tab
		var muted sql.NullString
		if err := tabRows.Scan(
			&t.ID, &t.WindowID, &t.Index, &t.Title, &t.URL, &t.Domain,
			&t.Pinned, &t.Active, &t.GroupID, &t.LastAccessed, &t.Audible,
			&muted, &t.FavIconURL,
		); err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		if muted.Valid {
			t.MutedInfo = []byte(muted.String)
		}
		s.Tabs = append(s.Tabs, t)
	}
	if err := tabRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tabs: %w", err)
	}

	return s, nil
}
