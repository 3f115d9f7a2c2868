// Package chi exposes the assistant over HTTP: retrieval pipeline
// endpoints under /api/rag and the chat orchestrator under /api/chat.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
	"github.com/Kcodess2807/Blitz-Protocol/internal/usecase/answer"
	"github.com/Kcodess2807/Blitz-Protocol/internal/usecase/orchestrator"
	"github.com/Kcodess2807/Blitz-Protocol/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Retrieval is the document pipeline the ingest/search/delete
// endpoints call.
type Retrieval interface {
	Ingest(ctx context.Context, content string, metadata map[string]string) (int, error)
	Search(ctx context.Context, query string, count int, threshold float64,
		filter map[string]string) ([]search.Result, error)
	DeleteAll(ctx context.Context) (int, error)
	DeleteByMetadata(ctx context.Context, filter map[string]string) (int, error)
}

// Answerer resolves a RAG configuration into a grounded answer.
type Answerer interface {
	Answer(ctx context.Context, cfg *workflow.RAGConfig, query, nodeID string) (*answer.Result, error)
}

// ChatOrchestrator runs one chat turn against a workflow graph.
type ChatOrchestrator interface {
	Execute(ctx context.Context, message string, assistant workflow.Node,
		nodes []workflow.Node, edges []workflow.Edge,
		execCtx workflow.ExecutionContext) (*orchestrator.Result, error)
}

// Pinger reports vector store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers for the assistant API.
type Server struct {
	retrieval     Retrieval
	answerer      Answerer
	chat          ChatOrchestrator
	health        Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval Retrieval,
	answerer Answerer,
	chat ChatOrchestrator,
	health Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval: retrieval,
		answerer:  answerer,
		chat:      chat,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationBackend, http.StatusBadGateway, codeGenerationBackend),
		sentinelHandler(domain.ErrUpsertTimeout, http.StatusGatewayTimeout, codeUpsertTimeout),
		sentinelHandler(domain.ErrStoreQuery, http.StatusBadGateway, codeStoreQuery),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/rag/ingest", s.handleIngest)
	r.Post("/api/rag/search", s.handleSearch)
	r.Post("/api/rag/answer", s.handleAnswer)
	r.Delete("/api/rag/documents", s.handleDeleteDocuments)
	r.Post("/api/chat", s.handleChat)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// handleIngest handles POST /api/rag/ingest.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	chunks, err := s.retrieval.Ingest(r.Context(), req.Content, req.Metadata)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{Success: true, ChunksCreated: chunks})
}

// handleSearch handles POST /api/rag/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	hits, err := s.retrieval.Search(r.Context(), req.Query, req.MatchCount, req.MatchThreshold, req.MetadataFilter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromResults(hits))
}

// handleAnswer handles POST /api/rag/answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Config == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "RAG configuration is required")
		return
	}

	res, err := s.answerer.Answer(r.Context(), req.Config.toDomain(), req.Query, req.NodeID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleDeleteDocuments handles DELETE /api/rag/documents. An empty or
// absent body deletes every stored chunk; a metadata filter narrows the
// deletion to matching chunks.
func (s *Server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req deleteDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var (
		deleted int
		err     error
	)
	if len(req.MetadataFilter) > 0 {
		deleted, err = s.retrieval.DeleteByMetadata(r.Context(), req.MetadataFilter)
	} else {
		deleted, err = s.retrieval.DeleteAll(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteDocumentsResponse{Success: true, Deleted: deleted})
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Message is required")
		return
	}

	assistant, nodes, edges, err := req.toGraph()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.chat.Execute(r.Context(), req.Message, assistant, nodes, edges, req.toExecutionContext())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns an error message safe to expose to clients.
// Wrapped detail beyond the sentinel text stays in logs only.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidConfig,
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationBackend,
		domain.ErrUpsertTimeout,
		domain.ErrStoreQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
