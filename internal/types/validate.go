package types

import "fmt"

// ValidateSnapshot checks structural invariants before a snapshot is used.
// Tab ids must be unique within the snapshot; a violation means the sync
// payload is corrupt and is reported immediately rather than surfacing as
// confusing results deeper in analysis.
func ValidateSnapshot(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	seen := make(map[int]bool, len(s.Tabs))
	for _, t := range s.Tabs {
		if seen[t.ID] {
			return fmt.Errorf("duplicate tab id %d in snapshot", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
