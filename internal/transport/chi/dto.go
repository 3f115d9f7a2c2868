package chi

import (
	"fmt"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
)

// errorCode is the machine-readable error tag returned to clients.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeEmbeddingProvider errorCode = "embedding_provider_error"
	codeGenerationBackend errorCode = "generation_backend_error"
	codeStoreQuery        errorCode = "store_query_error"
	codeUpsertTimeout     errorCode = "upsert_timeout"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type ingestRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ingestResponse struct {
	Success       bool `json:"success"`
	ChunksCreated int  `json:"chunksCreated"`
}

type searchRequest struct {
	Query          string            `json:"query"`
	MatchThreshold float64           `json:"matchThreshold,omitempty"`
	MatchCount     int               `json:"matchCount,omitempty"`
	MetadataFilter map[string]string `json:"metadataFilter,omitempty"`
}

type searchHit struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float64           `json:"similarity"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
	Count   int         `json:"count"`
}

func searchResponseFromResults(hits []search.Result) searchResponse {
	out := make([]searchHit, len(hits))
	for i, h := range hits {
		out[i] = searchHit{
			ID:         h.ID,
			Content:    h.Content,
			Metadata:   h.Metadata,
			Similarity: h.Similarity,
		}
	}
	return searchResponse{Results: out, Count: len(out)}
}

type uploadedFileWire struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

type ragConfigWire struct {
	DocumentMode    string             `json:"documentMode,omitempty"`
	DocumentContent string             `json:"documentContent,omitempty"`
	UploadedFiles   []uploadedFileWire `json:"uploadedFiles,omitempty"`
	Category        string             `json:"category,omitempty"`
	MatchThreshold  *float64           `json:"matchThreshold,omitempty"`
	MatchCount      *int               `json:"matchCount,omitempty"`
	ResponseMode    string             `json:"responseMode,omitempty"`
	FallbackMessage string             `json:"fallbackMessage,omitempty"`
}

func (c *ragConfigWire) toDomain() *workflow.RAGConfig {
	if c == nil {
		return nil
	}
	files := make([]workflow.UploadedFile, len(c.UploadedFiles))
	for i, f := range c.UploadedFiles {
		files[i] = workflow.UploadedFile{Name: f.Name, Content: f.Content, Type: f.Type}
	}
	return &workflow.RAGConfig{
		DocumentMode:    workflow.DocumentMode(c.DocumentMode),
		DocumentContent: c.DocumentContent,
		UploadedFiles:   files,
		Category:        c.Category,
		MatchThreshold:  c.MatchThreshold,
		MatchCount:      c.MatchCount,
		ResponseMode:    workflow.ResponseMode(c.ResponseMode),
		FallbackMessage: c.FallbackMessage,
	}
}

type answerRequest struct {
	Query  string         `json:"query"`
	NodeID string         `json:"nodeId,omitempty"`
	Config *ragConfigWire `json:"config"`
}

type deleteDocumentsRequest struct {
	MetadataFilter map[string]string `json:"metadataFilter,omitempty"`
}

type deleteDocumentsResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

type nodeWire struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Module       string         `json:"module,omitempty"`
	RAGConfig    *ragConfigWire `json:"ragConfig,omitempty"`
	IsConfigured bool           `json:"isConfigured,omitempty"`
}

func (n nodeWire) toDomain() (workflow.Node, error) {
	nodeType, err := workflow.ParseNodeType(n.Type)
	if err != nil {
		return workflow.Node{}, fmt.Errorf("node %s: %w", n.ID, err)
	}
	node := workflow.Node{
		ID:           n.ID,
		Type:         nodeType,
		RAGConfig:    n.RAGConfig.toDomain(),
		IsConfigured: n.IsConfigured,
	}
	if nodeType == workflow.NodeModule {
		module, err := workflow.ParseModuleType(n.Module)
		if err != nil {
			return workflow.Node{}, fmt.Errorf("node %s: %w", n.ID, err)
		}
		node.Module = module
	}
	return node, nil
}

type edgeWire struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type messageWire struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message    string        `json:"message"`
	Nodes      []nodeWire    `json:"nodes"`
	Edges      []edgeWire    `json:"edges"`
	BusinessID string        `json:"businessId,omitempty"`
	UserID     string        `json:"userId,omitempty"`
	History    []messageWire `json:"history,omitempty"`
}

// toGraph converts the wire workflow into domain nodes and edges and
// locates the assistant entry node.
func (r chatRequest) toGraph() (assistant workflow.Node, nodes []workflow.Node, edges []workflow.Edge, err error) {
	nodes = make([]workflow.Node, len(r.Nodes))
	assistantIdx := -1
	for i, nw := range r.Nodes {
		node, convErr := nw.toDomain()
		if convErr != nil {
			return workflow.Node{}, nil, nil, convErr
		}
		nodes[i] = node
		if node.Type == workflow.NodeGenAIIntent && assistantIdx < 0 {
			assistantIdx = i
		}
	}
	if assistantIdx < 0 {
		return workflow.Node{}, nil, nil, fmt.Errorf("workflow has no assistant node")
	}

	edges = make([]workflow.Edge, len(r.Edges))
	for i, ew := range r.Edges {
		edges[i] = workflow.Edge{Source: ew.Source, Target: ew.Target}
	}
	return nodes[assistantIdx], nodes, edges, nil
}

func (r chatRequest) toExecutionContext() workflow.ExecutionContext {
	history := make([]workflow.Message, len(r.History))
	for i, m := range r.History {
		history[i] = workflow.Message{Role: m.Role, Content: m.Content}
	}
	return workflow.ExecutionContext{
		BusinessID: r.BusinessID,
		UserID:     r.UserID,
		History:    history,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
