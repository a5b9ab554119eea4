/*
Package mcp implements the MCP server that exposes catalog search to agents.

The server uses stdio transport (line-delimited JSON-RPC 2.0) and exposes
4 tools:
  - catalog_search: Ranked suggestions for a query
  - catalog_feedback: Record whether a suggestion was selected
  - catalog_recent: Add to and list recent searches
  - catalog_prune: Delete feedback older than N days

Logs go to stderr; stdout carries protocol frames only.
*/
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/service"
	"github.com/khanglvm/catalog-search/internal/suggest"
	"github.com/khanglvm/catalog-search/internal/version"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "catalog-search"

	// maxLineSize bounds a single request line.
	maxLineSize = 1024 * 1024
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolError      = -32000
)

// Server is the catalog-search MCP server.
type Server struct {
	svc    *service.Service
	logger *log.Logger

	outMu sync.Mutex
	out   io.Writer
}

// NewServer creates a server backed by svc.
func NewServer(svc *service.Service) *Server {
	return &Server{
		svc:    svc,
		logger: logger.New("mcp"),
		out:    os.Stdout,
	}
}

// Close releases the service.
func (s *Server) Close() error {
	return s.svc.Close()
}

// Run serves stdin until it is closed.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads requests from r and writes responses to w, one JSON object
// per line, until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		response, err := s.handleRequest(ctx, line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request. Notifications get no
// response.
func (s *Server) handleRequest(ctx context.Context, data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(ctx, &req)
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}, nil
	default:
		if req.ID == nil && strings.HasPrefix(req.Method, "notifications/") {
			return nil, nil
		}
		return errorResponse(req.ID, codeMethodNotFound, "Method not found"), nil
	}
}

func errorResponse(id interface{}, code int, msg string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: msg},
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": version.Version,
			},
		},
	}, nil
}

// handleToolsList returns the tool definitions.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	kinds := make([]string, len(suggest.Kinds))
	for i, k := range suggest.Kinds {
		kinds[i] = string(k)
	}

	tools := []map[string]interface{}{
		{
			"name": "catalog_search",
			"description": fmt.Sprintf(`Search the tool catalog (%d items) and get ranked suggestions.

WHEN TO USE: When the user is looking for a tool, a category, an alternative to a known tool, or a comparison.

Handles exact names, typos, categories, tags, pricing ("free"), ratings ("4 stars"), questions ("how to edit video"), alternatives ("alternative to X") and comparisons ("X vs Y").

Returns: JSON array of suggestions with type, text and confidence. An empty query returns trending tools.`, s.svc.Catalog().Len()),
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "What the user typed",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of suggestions (default: all, at most 20)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "catalog_feedback",
			"description": `Record whether a suggestion was shown and selected.

WHEN TO USE: After the user picks (or ignores) a suggestion from catalog_search. Selected suggestions rank slightly higher in later searches.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The query that produced the suggestion",
					},
					"kind": map[string]interface{}{
						"type":        "string",
						"description": "Suggestion type as returned by catalog_search",
						"enum":        kinds,
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Suggestion text as returned by catalog_search",
					},
					"selected": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether the user selected the suggestion",
					},
				},
				"required": []string{"query", "kind", "text", "selected"},
			},
		},
		{
			"name": "catalog_recent",
			"description": `List recent searches, optionally adding a term first.

Returns: JSON array of up to 5 terms, most recent first.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"term": map[string]interface{}{
						"type":        "string",
						"description": "Search term to add before listing",
					},
				},
			},
		},
		{
			"name":        "catalog_prune",
			"description": `Delete feedback records older than the given number of days.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"days": map[string]interface{}{
						"type":        "integer",
						"description": "Retention window in days (default: 30)",
					},
				},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall dispatches a tool invocation.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err)), nil
	}

	var result string
	var err error

	switch params.Name {
	case "catalog_search":
		query, _ := params.Arguments["query"].(string)
		result, err = s.execSearch(ctx, query, intArg(params.Arguments, "limit", 0))
	case "catalog_feedback":
		query, _ := params.Arguments["query"].(string)
		kind, _ := params.Arguments["kind"].(string)
		text, _ := params.Arguments["text"].(string)
		selected, _ := params.Arguments["selected"].(bool)
		result, err = s.execFeedback(query, kind, text, selected)
	case "catalog_recent":
		term, _ := params.Arguments["term"].(string)
		result, err = s.execRecent(ctx, term)
	case "catalog_prune":
		result, err = s.execPrune(ctx, intArg(params.Arguments, "days", 0))
	default:
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name)), nil
	}

	if err != nil {
		s.logger.Warn("tool call failed", "tool", params.Name, "err", err)
		return errorResponse(req.ID, codeToolError, err.Error()), nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}, nil
}

// intArg reads a numeric argument. JSON numbers decode as float64.
func intArg(args map[string]interface{}, name string, def int) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// execSearch runs a search and records the query as a recent search.
func (s *Server) execSearch(ctx context.Context, query string, limit int) (string, error) {
	out := s.svc.Search(ctx, query)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if strings.TrimSpace(query) != "" {
		s.svc.AddRecentSearch(ctx, query)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode suggestions: %w", err)
	}
	return string(data), nil
}

// execFeedback queues a feedback event.
func (s *Server) execFeedback(query, kind, text string, selected bool) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text is required")
	}
	k, err := suggest.ParseKind(kind)
	if err != nil {
		return "", err
	}
	sg, err := suggest.New(k, text, 1)
	if err != nil {
		return "", err
	}
	s.svc.RecordFeedback(query, sg, selected)
	return fmt.Sprintf("Feedback recorded for %s %q", k, text), nil
}

// execRecent optionally adds term, then lists recent searches.
func (s *Server) execRecent(ctx context.Context, term string) (string, error) {
	if strings.TrimSpace(term) != "" {
		s.svc.AddRecentSearch(ctx, term)
	}
	recent, err := s.svc.RecentSearches(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read recent searches: %w", err)
	}
	if recent == nil {
		recent = []string{}
	}
	data, err := json.Marshal(recent)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// execPrune deletes old feedback.
func (s *Server) execPrune(ctx context.Context, days int) (string, error) {
	retention := history.DefaultRetention
	if days > 0 {
		retention = time.Duration(days) * 24 * time.Hour
	}
	n, err := s.svc.PruneFeedback(ctx, retention)
	if err != nil {
		return "", fmt.Errorf("failed to prune feedback: %w", err)
	}
	return fmt.Sprintf("Pruned %d feedback records older than %d days", n, int(retention.Hours()/24)), nil
}

// sendResponse writes a JSON-RPC response line.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "err", err)
		return
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, string(data))
}

// sendError writes a parse error response.
func (s *Server) sendError(err error) {
	s.sendResponse(errorResponse(nil, codeParseError, err.Error()))
}
