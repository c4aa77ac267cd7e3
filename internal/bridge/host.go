package bridge

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/storage"
	"github.com/lotas/tabwarden/internal/types"
)

// Request is one inbound native-messaging message from the extension.
type Request struct {
	Type       string          `json:"type"` // "sync", "poll", "ack"
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	CommandIDs []int64         `json:"commandIds,omitempty"`
}

// Response is the host's reply to a single request.
type Response struct {
	Type     string          `json:"type"`
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	TabCount int             `json:"tabCount,omitempty"`
	Commands []types.Command `json:"commands,omitempty"`
}

// Host serves the native-messaging protocol over the given streams,
// persisting syncs and serving the command queue from the database.
type Host struct {
	DB  *sql.DB
	In  io.Reader
	Out io.Writer
}

// Run processes requests until the browser closes the pipe. Each request
// gets exactly one response; a malformed request gets an error response
// rather than terminating the host.
func (h *Host) Run() error {
	for {
		payload, err := ReadFrame(h.In)
		if err == io.EOF {
			applog.Info("bridge.closed")
			return nil
		}
		if err != nil {
			return err
		}

		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			if werr := WriteFrame(h.Out, Response{Type: "error", Error: "malformed request"}); werr != nil {
				return werr
			}
			continue
		}

		resp := h.handle(req)
		if err := WriteFrame(h.Out, resp); err != nil {
			return err
		}
	}
}

func (h *Host) handle(req Request) Response {
	switch req.Type {
	case "sync":
		var snap types.Snapshot
		if err := json.Unmarshal(req.Snapshot, &snap); err != nil {
			return Response{Type: "synced", Error: fmt.Sprintf("parse snapshot: %v", err)}
		}
		if err := storage.SaveSnapshot(h.DB, &snap); err != nil {
			applog.Error("bridge.sync", err)
			return Response{Type: "synced", Error: err.Error()}
		}
		applog.Info("bridge.sync", "tabs", len(snap.Tabs), "windows", snap.WindowCount)
		return Response{Type: "synced", OK: true, TabCount: len(snap.Tabs)}

	case "poll":
		pending, err := storage.PendingCommands(h.DB)
		if err != nil {
			applog.Error("bridge.poll", err)
			return Response{Type: "commands", Error: err.Error()}
		}
		return Response{Type: "commands", OK: true, Commands: pending}

	case "ack":
		if err := storage.MarkCommandsDone(h.DB, req.CommandIDs); err != nil {
			applog.Error("bridge.ack", err)
			return Response{Type: "acked", Error: err.Error()}
		}
		if err := storage.ClearDoneCommands(h.DB); err != nil {
			applog.Error("bridge.ack.clear", err)
			return Response{Type: "acked", Error: err.Error()}
		}
		applog.Info("bridge.ack", "commands", len(req.CommandIDs))
		return Response{Type: "acked", OK: true}

	default:
		return Response{Type: "error", Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}
