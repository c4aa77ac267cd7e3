// Package server hosts the WebSocket bridge the browser extension connects
// to in live mode. The extension pushes snapshot syncs and acknowledges
// executed commands; the server pushes the pending command queue.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/types"
	"nhooyr.io/websocket"
)

// DefaultPort is the live-mode WebSocket port.
const DefaultPort = 19292

// IncomingMsg is a message from the extension.
type IncomingMsg struct {
	Type       string          `json:"type"`               // "snapshot", "ack"
	Snapshot   json.RawMessage `json:"snapshot,omitempty"` // full snapshot payload
	CommandIDs []int64         `json:"commandIds,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// OutgoingMsg is a message to the extension.
type OutgoingMsg struct {
	Type     string          `json:"type"` // "commands", "synced"
	Commands []types.Command `json:"commands,omitempty"`
	TabCount int             `json:"tabCount,omitempty"`
}

// Server manages a single WebSocket connection to the extension. A new
// connection replaces the previous one.
type Server struct {
	port    int
	msgs    chan IncomingMsg
	mu      sync.Mutex
	conn    *websocket.Conn
	connCtx context.Context
}

// New creates a Server for the given port.
func New(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}
	return &Server{
		port: port,
		msgs: make(chan IncomingMsg, 64),
	}
}

// Messages returns the channel of incoming extension messages.
func (s *Server) Messages() <-chan IncomingMsg {
	return s.msgs
}

// Connected reports whether an extension is connected.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Send sends a message to the connected extension. A nil connection is a
// silent no-op; queued commands are not lost, they stay in the sink until
// the next connection drains them.
func (s *Server) Send(msg OutgoingMsg) error {
	s.mu.Lock()
	conn := s.conn
	ctx := s.connCtx
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	applog.Info("ws.send", "type", msg.Type, "bytes", len(data))
	return conn.Write(ctx, websocket.MessageText, data)
}

// Handler returns an http.Handler accepting WebSocket upgrades.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("ws.accept", err)
			return
		}

		conn.SetReadLimit(16 << 20) // snapshots with many tabs can be large

		ctx := r.Context()
		s.mu.Lock()
		if s.conn != nil {
			applog.Info("ws.replaced")
			s.conn.CloseNow()
		}
		s.conn = conn
		s.connCtx = ctx
		s.mu.Unlock()

		applog.Info("ws.connected", "remote", r.RemoteAddr)

		defer func() {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
				s.connCtx = nil
			}
			s.mu.Unlock()
			conn.CloseNow()
			applog.Info("ws.disconnected")
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var msg IncomingMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				applog.Error("ws.parse", err)
				continue
			}
			applog.Debug("ws.recv", "type", msg.Type)
			select {
			case s.msgs <- msg:
			default:
			}
		}
	})
}

// ListenAndServe starts the WebSocket server on 127.0.0.1.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	applog.Info("server.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
