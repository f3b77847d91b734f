package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes bounds a JSON-RPC request body.
const maxRequestBytes = 1 << 20

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error)
}

// Mount attaches an extra handler, such as the streamable MCP endpoint,
// behind the same auth and session middleware.
type Mount struct {
	Pattern string
	Handler http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	handler       MCPHandler
	requireClient bool
	logger        *slog.Logger
}

// NewServer creates an HTTP server router with middleware. /health is
// always unauthenticated; /rpc and every mount sit behind authMiddleware.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger, mounts ...Mount) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler, requireClient: authMiddleware != nil, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(SessionMiddleware)
		r.Use(srv.logRequests)

		r.Post("/rpc", srv.handleRPC)
		for _, m := range mounts {
			r.Handle(m.Pattern, m.Handler)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		code := ErrInvalidReq
		if errors.Is(err, ErrParse) {
			code = ErrParseCode
		}
		WriteError(w, nil, code, err.Error(), nil)
		return
	}

	if s.requireClient {
		if clientID, ok := ClientFromContext(r.Context()); !ok || clientID == "" {
			http.Error(w, "missing client", http.StatusUnauthorized)
			return
		}
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), sessionID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		code, message, data := errorResponse(err)
		if code == ErrInternal {
			s.logger.Error("rpc failed", "method", req.Method, "error", err)
		}
		WriteError(w, req.ID, code, message, data)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		clientID, _ := ClientFromContext(r.Context())
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"client_id", clientID,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
