// Package workflow defines the node/edge graph a chat assistant executes
// against, plus the per-node RAG configuration and intent tags.
package workflow

import "fmt"

// NodeType is the closed set of workflow node kinds.
type NodeType string

const (
	NodeGenAIIntent NodeType = "genai-intent"
	NodeRouter      NodeType = "router"
	NodeModule      NodeType = "module"
	NodeResponse    NodeType = "response"
)

// ParseNodeType validates a raw node type string.
func ParseNodeType(s string) (NodeType, error) {
	switch t := NodeType(s); t {
	case NodeGenAIIntent, NodeRouter, NodeModule, NodeResponse:
		return t, nil
	default:
		return "", fmt.Errorf("unknown node type %q", s)
	}
}

// ModuleType is the closed set of business module kinds a module node
// can carry.
type ModuleType string

const (
	ModuleTracking     ModuleType = "tracking"
	ModuleCancellation ModuleType = "cancellation"
	ModuleFAQ          ModuleType = "faq"
	ModuleRefund       ModuleType = "refund"
	ModuleRAG          ModuleType = "rag"
)

// ParseModuleType validates a raw module type string.
func ParseModuleType(s string) (ModuleType, error) {
	switch m := ModuleType(s); m {
	case ModuleTracking, ModuleCancellation, ModuleFAQ, ModuleRefund, ModuleRAG:
		return m, nil
	default:
		return "", fmt.Errorf("unknown module type %q", s)
	}
}

// Node is a workflow graph node. The orchestrator receives a read-only
// snapshot per call; the surrounding application owns the graph.
type Node struct {
	ID           string
	Type         NodeType
	Module       ModuleType // set for module nodes only
	RAGConfig    *RAGConfig // set for configured RAG module nodes
	IsConfigured bool
}

// IsRAGModule reports whether the node is a RAG-type module node.
func (n Node) IsRAGModule() bool {
	return n.Type == NodeModule && n.Module == ModuleRAG
}

// Edge is a directed graph edge. The orchestrator only ever follows one
// hop, so the graph is not acyclicity-checked.
type Edge struct {
	Source string
	Target string
}
