// Package mcp implements a Model Context Protocol server exposing the RAG
// corpus and query engine as tools for external AI agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/React-ChatBotify/rag-api-sub000/internal/service"
)

// Server implements the Model Context Protocol (MCP) server.
type Server struct {
	ragService      *service.RAGService
	documentService *service.DocumentService
	port            string
}

// NewServer creates a new MCP server.
func NewServer(ragService *service.RAGService, documentService *service.DocumentService, port string) *Server {
	return &Server{
		ragService:      ragService,
		documentService: documentService,
		port:            port,
	}
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Start begins the MCP server on the configured port.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleRPC)
	mux.HandleFunc("/mcp/sse", s.handleSSE)

	slog.Info("MCP server starting", "port", s.port)
	return http.ListenAndServe(":"+s.port, mux)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "parse error")
		return
	}

	var result interface{}
	var err error

	switch req.Method {
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, err = s.callTool(r.Context(), req.Params)
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]string{
				"name":    "rag-api",
				"version": "1.0.0",
			},
			"capabilities": map[string]interface{}{
				"tools": map[string]bool{"listChanged": false},
			},
		}
	default:
		writeError(w, req.ID, -32601, "method not found")
		return
	}

	if err != nil {
		writeError(w, req.ID, -32603, err.Error())
		return
	}

	writeResult(w, req.ID, result)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send initial endpoint message
	fmt.Fprintf(w, "event: endpoint\ndata: /mcp\n\n")
	w.(http.Flusher).Flush()

	// Keep connection alive
	<-r.Context().Done()
}

func (s *Server) listTools() map[string]interface{} {
	tools := []Tool{
		{
			Name:        "rag_query",
			Description: "Answer a question using retrieval-augmented generation over the document corpus",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Question to answer"},
					"rag_type": {"type": "string", "description": "Context strategy: basic or advanced"},
					"top_k": {"type": "integer", "description": "Number of chunks to retrieve"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "list_documents",
			Description: "List the ids of all documents in the corpus",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {}
			}`),
		},
		{
			Name:        "get_document",
			Description: "Read the full markdown content of a document",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"document_id": {"type": "string", "description": "Document id"}
				},
				"required": ["document_id"]
			}`),
		},
	}
	return map[string]interface{}{"tools": tools}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	switch req.Name {
	case "rag_query":
		var args struct {
			Query   string `json:"query"`
			RAGType string `json:"rag_type"`
			TopK    int    `json:"top_k"`
		}
		json.Unmarshal(req.Arguments, &args)

		result, err := s.ragService.Query(ctx, service.QueryRequest{
			Query:   args.Query,
			RAGType: args.RAGType,
			TopK:    args.TopK,
		})
		if err != nil {
			return nil, err
		}
		return textContent(result.Answer), nil

	case "list_documents":
		ids, err := s.documentService.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		return textContent(strings.Join(ids, "\n")), nil

	case "get_document":
		var args struct {
			DocumentID string `json:"document_id"`
		}
		json.Unmarshal(req.Arguments, &args)

		content, err := s.documentService.GetContent(ctx, args.DocumentID)
		if err != nil {
			return nil, err
		}
		return textContent(content), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", req.Name)
	}
}

func textContent(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
