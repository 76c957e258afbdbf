package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/almanac-dev/almanac/internal/almanacd/config"
	"github.com/almanac-dev/almanac/internal/common/httpx"
	"github.com/almanac-dev/almanac/internal/common/jsonrpc"
	"github.com/almanac-dev/almanac/internal/common/middleware"
)

// SessionIDHeader carries the session identifier on every correlated reply.
const SessionIDHeader = "Mcp-Session-Id"

// MCPServer provides the HTTP endpoint for the MCP session.
type MCPServer struct {
	Router *chi.Mux // HTTP router for request handling
	svc    *Service
}

// CreateNewServer creates an MCPServer around the given service and mounts
// its routes.
func CreateNewServer(svc *Service) (*MCPServer, error) {
	if svc == nil {
		return nil, ErrTransportError.Msg("service is nil")
	}
	s := &MCPServer{
		Router: chi.NewRouter(),
		svc:    svc,
	}
	s.mountHandlers()
	return s, nil
}

// mountHandlers sets up middleware and the MCP routes.
func (s *MCPServer) mountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(s.handleCORS)
	}
	s.Router.Post("/mcp", s.handleMessage)
	s.Router.Delete("/mcp", s.handleTerminate)
	s.Router.Get("/health", s.getHealth)
}

// handleMessage terminates one HTTP call carrying a JSON-RPC message and
// classifies it: a notification is published and acknowledged immediately,
// a request blocks until its correlated reply arrives. The body cap is
// enforced before anything is decoded or registered.
func (s *MCPServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := config.Config().MCP.MaxBodyBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Ctx(ctx).Warn().Int64("limit", limit).Msg("request body exceeds cap")
			httpx.ErrRequestTooLarge(limit).Send(w)
			return
		}
		httpx.ErrUnableToReadRequest().Send(w)
		return
	}

	if _, err := jsonrpc.ParseRequest(body); err != nil {
		httpx.ErrInvalidRequest("invalid JSON-RPC message").Send(w)
		return
	}

	// An absent or null id marks a notification; no reply will ever exist
	// for it, so the call must not touch the registry.
	id := gjson.GetBytes(body, "id")
	if !id.Exists() || id.Type == gjson.Null {
		if aerr := s.svc.SubmitNotification(body); aerr != nil {
			httpx.SendError(w, aerr)
			return
		}
		w.Header().Set(SessionIDHeader, s.svc.Session().ID())
		w.WriteHeader(http.StatusAccepted)
		return
	}

	waiter, aerr := s.svc.SubmitRequest(body)
	if aerr != nil {
		httpx.SendError(w, aerr)
		return
	}

	waitCtx, cancel := s.svc.idleContext(ctx)
	defer cancel()
	reply, aerr := waiter.Await(waitCtx)
	if aerr != nil {
		httpx.SendError(w, aerr)
		return
	}

	w.Header().Set(SessionIDHeader, s.svc.Session().ID())
	httpx.SendJsonRsp(ctx, w, http.StatusOK, []byte(reply))
}

// handleTerminate ends the session: pending waiters are cancelled and
// subsequent requests fail with a session-closed error. Repeated calls are
// no-ops returning success.
func (s *MCPServer) handleTerminate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.svc.Close() {
		log.Ctx(ctx).Info().Str("session_id", s.svc.Session().ID()).Msg("session terminated by client")
	}
	httpx.SendJsonRsp(ctx, w, http.StatusOK, map[string]string{"status": "closed"})
}

// getHealth is a stateless liveness probe.
func (s *MCPServer) getHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleCORS provides CORS middleware for cross-origin requests.
func (s *MCPServer) handleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{SessionIDHeader, middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
