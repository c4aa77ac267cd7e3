package queue

import (
	"testing"

	"github.com/lotas/tabwarden/internal/types"
)

func TestMemorySink(t *testing.T) {
	m := NewMemory()

	cmds, err := m.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(cmds) != 0 {
		t.Fatalf("new sink should be empty, got %d", len(cmds))
	}

	if err := m.Append(types.Command{ID: 1, Action: types.ActionCloseTabs, Status: types.StatusPending, TabIDs: []int{1}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := m.Append(types.Command{ID: 2, Action: types.ActionFocusTab, Status: types.StatusDone, TabID: 3}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Only pending commands come back, in insertion order.
	cmds, err = m.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(cmds) != 1 || cmds[0].ID != 1 {
		t.Errorf("expected only the pending command, got %v", cmds)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cmds, _ = m.Pending()
	if len(cmds) != 0 {
		t.Errorf("expected empty sink after clear, got %v", cmds)
	}
}

var _ Sink = (*Memory)(nil)
