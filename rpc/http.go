package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"rwachain/core"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000

	codeRwaValidation = -32061
	codeRwaNotFound   = -32062
	codeRwaForbidden  = -32063
	codeRwaConflict   = -32064
)

// Server exposes the program dispatcher over JSON-RPC. Mutating methods
// require a bearer token when RWA_RPC_TOKEN is configured; read queries are
// always open.
type Server struct {
	node      *core.Node
	authToken string
}

// NewServer wraps the node with a JSON-RPC surface.
func NewServer(node *core.Node) *Server {
	token := strings.TrimSpace(os.Getenv("RWA_RPC_TOKEN"))
	return &Server{node: node, authToken: token}
}

// Start serves the JSON-RPC endpoint at addr until the listener fails.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return http.ListenAndServe(addr, mux)
}

// Handler returns the HTTP handler for embedding in tests or custom servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

// RPCRequest is the JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// RPCError is the JSON-RPC 2.0 error payload.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "unable to read request body", "")
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", "")
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", "")
		return
	}

	handler, ok := s.routes()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), "")
		return
	}
	if mutatingMethods[req.Method] {
		if err := s.requireAuth(r); err != nil {
			writeError(w, http.StatusUnauthorized, req.ID, codeUnauthorized, err.Error(), "")
			return
		}
	}
	handler(w, &req)
}

type handlerFunc func(http.ResponseWriter, *RPCRequest)

var mutatingMethods = map[string]bool{
	"rwa_initialize":    true,
	"rwa_updateConfig":  true,
	"rwa_registerKyc":   true,
	"rwa_verifyKyc":     true,
	"rwa_mintAsset":     true,
	"rwa_mintPayment":   true,
	"rwa_fractionalize": true,
	"rwa_buyFractions":  true,
	"rwa_redeem":        true,
}

func (s *Server) routes() map[string]handlerFunc {
	return map[string]handlerFunc{
		"rwa_initialize":    s.handleInitialize,
		"rwa_updateConfig":  s.handleUpdateConfig,
		"rwa_registerKyc":   s.handleRegisterKyc,
		"rwa_verifyKyc":     s.handleVerifyKyc,
		"rwa_mintAsset":     s.handleMintAsset,
		"rwa_mintPayment":   s.handleMintPayment,
		"rwa_fractionalize": s.handleFractionalize,
		"rwa_buyFractions":  s.handleBuyFractions,
		"rwa_redeem":        s.handleRedeem,
		"rwa_getVault":      s.handleGetVault,
		"rwa_listVaults":    s.handleListVaults,
		"rwa_getKyc":        s.handleGetKyc,
		"rwa_getConfig":     s.handleGetConfig,
		"rwa_getBalance":    s.handleGetBalance,
	}
}

func (s *Server) requireAuth(r *http.Request) error {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return fmt.Errorf("missing bearer token")
	}
	presented := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(presented), []byte(s.authToken)) != 1 {
		return fmt.Errorf("invalid bearer token")
	}
	return nil
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

func writeError(w http.ResponseWriter, status int, id json.RawMessage, code int, message, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message, Data: data}})
}
