// Package mcp serves the tool surface over newline-framed JSON-RPC 2.0 on
// stdin/stdout, speaking the Model Context Protocol: initialize,
// tools/list, and tools/call.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/lotas/tabwarden/internal/applog"
	"github.com/lotas/tabwarden/internal/planner"
	"github.com/lotas/tabwarden/internal/queue"
	"github.com/lotas/tabwarden/internal/types"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "tabwarden"
	serverVersion   = "0.3.0"
)

// SnapshotSource supplies the snapshot a tool call operates on. Latest
// returns nil, nil when no sync has happened yet.
type SnapshotSource interface {
	Latest() (*types.Snapshot, error)
}

// Server dispatches MCP requests to the analysis engine and planner.
type Server struct {
	source  SnapshotSource
	sink    queue.Sink
	planner *planner.Planner

	outMu sync.Mutex
	out   io.Writer
}

// NewServer wires a Server to its snapshot source and command sink.
func NewServer(source SnapshotSource, sink queue.Sink) *Server {
	return &Server{
		source:  source,
		sink:    sink,
		planner: planner.New(sink),
	}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Run serves requests line by line until in is exhausted. Requests without
// an id are notifications and get no response.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	s.out = out

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(response{JSONRPC: "2.0", Error: &rpcError{codeParseError, "parse error"}})
			continue
		}

		applog.Debug("mcp.request", "method", req.Method)
		resp, notify := s.dispatch(req)
		if !notify {
			s.reply(resp)
		}
	}
	return scanner.Err()
}

func (s *Server) reply(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		applog.Error("mcp.marshal", err)
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	s.out.Write(data)
	s.out.Write([]byte("\n"))
}

func (s *Server) dispatch(req request) (response, bool) {
	if req.ID == nil {
		// Notification (e.g. notifications/initialized): nothing to send.
		return response{}, true
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = mustMarshal(map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo": map[string]any{
				"name":    serverName,
				"version": serverVersion,
			},
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
		})

	case "tools/list":
		resp.Result = mustMarshal(map[string]any{"tools": toolDescriptors()})

	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{codeInvalidParams, "invalid tool call params"}
			break
		}
		text, isErr, err := s.callTool(params.Name, params.Arguments)
		if err != nil {
			resp.Error = &rpcError{codeInternalError, err.Error()}
			break
		}
		resp.Result = toolResult(text, isErr)

	case "ping":
		resp.Result = json.RawMessage(`{}`)

	default:
		resp.Error = &rpcError{codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method)}
	}
	return resp, false
}

// toolResult wraps text in an MCP tool result content block.
func toolResult(text string, isErr bool) json.RawMessage {
	return mustMarshal(map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"isError": isErr,
	})
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with an unmarshalable value, which would be a
		// programming error in this package.
		applog.Error("mcp.marshal", err)
		return json.RawMessage(`{}`)
	}
	return data
}
