package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/storage"
	"github.com/lotas/tabwarden/internal/types"
)

// ParseSnapshot decodes and validates a snapshot payload from the
// extension. Tab domains arrive precomputed by the extension and are not
// re-derived here.
func ParseSnapshot(raw json.RawMessage) (*types.Snapshot, error) {
	var s types.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := types.ValidateSnapshot(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SyncLoop consumes extension messages until the context ends: snapshot
// pushes are persisted and acknowledged with the pending command queue;
// acks mark commands done and drop them from the queue.
func (s *Server) SyncLoop(ctx context.Context, db *sql.DB) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.msgs:
			if err := s.handle(db, msg); err != nil {
				applog.Error("sync.handle", err, "type", msg.Type)
			}
		}
	}
}

func (s *Server) handle(db *sql.DB, msg IncomingMsg) error {
	switch msg.Type {
	case "snapshot":
		snap, err := ParseSnapshot(msg.Snapshot)
		if err != nil {
			return err
		}
		if err := storage.SaveSnapshot(db, snap); err != nil {
			return err
		}
		applog.Info("sync.saved", "tabs", len(snap.Tabs), "windows", snap.WindowCount)

		pending, err := storage.PendingCommands(db)
		if err != nil {
			return err
		}
		if err := s.Send(OutgoingMsg{Type: "synced", TabCount: len(snap.Tabs)}); err != nil {
			return err
		}
		if len(pending) > 0 {
			return s.Send(OutgoingMsg{Type: "commands", Commands: pending})
		}
		return nil

	case "ack":
		if err := storage.MarkCommandsDone(db, msg.CommandIDs); err != nil {
			return err
		}
		applog.Info("sync.ack", "commands", len(msg.CommandIDs))
		return storage.ClearDoneCommands(db)

	default:
		applog.Debug("sync.ignored", "type", msg.Type)
		return nil
	}
}
