package queue

import (
	"sync"

	"github.com/lotas/tabwarden/internal/types"
)

// Memory is an in-process Sink. Used by tests and by the websocket bridge
// when running without a database.
type Memory struct {
	mu   sync.Mutex
	cmds []types.Command
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(cmd types.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = append(m.cmds, cmd)
	return nil
}

func (m *Memory) Pending() ([]types.Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Command
	for _, c := range m.cmds {
		if c.Status == types.StatusPending {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmds = nil
	return nil
}
