// Package orchestrator executes one chat turn against a workflow graph:
// optional knowledge-base retrieval, intent classification and dispatch
// to the business-rule module matching the intent.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
	"github.com/Kcodess2807/Blitz-Protocol/internal/metrics"
	"github.com/Kcodess2807/Blitz-Protocol/internal/modules"
)

// Method tags tell the frontend which component produced the response.
const (
	MethodModule = "MODULE_TO_FRONTEND"
	MethodGenAI  = "GENAI_TO_FRONTEND"
)

// ContextSource is one retrieval source in the context summary.
type ContextSource struct {
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
}

// RAGContext summarizes the retrieval stage for the caller, carried on
// every result regardless of which branch produced the final text.
type RAGContext struct {
	HasContext bool            `json:"hasContext"`
	Confidence float64         `json:"confidence"`
	Sources    []ContextSource `json:"sources"`
}

// Result is the outcome of one orchestrated chat turn.
type Result struct {
	Response   string          `json:"response"`
	Intent     workflow.Intent `json:"intent"`
	Method     string          `json:"method"`
	Data       any             `json:"data,omitempty"`
	RAGContext *RAGContext     `json:"ragContext,omitempty"`
}

// Service orchestrates chat turns.
type Service struct {
	answerer   RAGAnswerer
	classifier IntentClassifier
	tracking   Tracker
	cancel     Canceller
	refund     Refunder
	enquiry    EnquiryDesk
	faq        FAQBank
	logger     *zap.Logger
}

// New creates the orchestrator.
func New(
	answerer RAGAnswerer, classifier IntentClassifier,
	tracking Tracker, cancel Canceller, refund Refunder,
	enquiry EnquiryDesk, faq FAQBank, logger *zap.Logger,
) *Service {
	return &Service{
		answerer:   answerer,
		classifier: classifier,
		tracking:   tracking,
		cancel:     cancel,
		refund:     refund,
		enquiry:    enquiry,
		faq:        faq,
		logger:     logger,
	}
}

// Execute runs the five orchestration stages in order: locate a RAG
// node, retrieve context, classify intent, dispatch to a module, and
// assemble the result. Retrieval failures never abort the turn.
func (s *Service) Execute(
	ctx context.Context, message string, assistant workflow.Node,
	nodes []workflow.Node, edges []workflow.Edge, execCtx workflow.ExecutionContext,
) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}

	ragNode := findConnectedRAGModule(assistant.ID, nodes, edges)
	ragCtx, ragAnswer := s.retrieveContext(ctx, message, ragNode)

	cls, err := s.classifier.Classify(ctx, message, ragAnswer, execCtx.History)
	if err != nil {
		return nil, err
	}
	metrics.IntentDispatchesTotal.WithLabelValues(string(cls.Intent)).Inc()

	result := s.dispatch(message, cls, ragAnswer)
	result.RAGContext = ragCtx

	s.logger.Info("chat turn served",
		zap.String("intent", string(cls.Intent)),
		zap.String("method", result.Method),
		zap.Bool("has_context", ragCtx != nil && ragCtx.HasContext),
	)
	return result, nil
}

// retrieveContext runs the optional RAG stage. Any failure is logged
// and swallowed; classification proceeds without context.
func (s *Service) retrieveContext(
	ctx context.Context, message string, ragNode *workflow.Node,
) (*RAGContext, string) {
	if ragNode == nil {
		return nil, ""
	}
	if ragNode.RAGConfig == nil {
		s.logger.Warn("rag node has no configuration, skipping retrieval",
			zap.String("node_id", ragNode.ID))
		return nil, ""
	}

	res, err := s.answerer.Answer(ctx, ragNode.RAGConfig, message, ragNode.ID)
	if err != nil {
		metrics.RAGSoftFailuresTotal.Inc()
		s.logger.Error("retrieval stage failed, continuing without context",
			zap.String("node_id", ragNode.ID), zap.Error(err))
		return nil, ""
	}

	sources := make([]ContextSource, len(res.Sources))
	for i, src := range res.Sources {
		sources[i] = ContextSource{Category: src.Category, Similarity: src.Similarity}
	}
	ragCtx := &RAGContext{
		HasContext: res.HasContext,
		Confidence: res.Confidence,
		Sources:    sources,
	}

	if !res.HasContext {
		return ragCtx, ""
	}
	return ragCtx, res.Answer
}

// dispatch routes a classified message to its module executor. The
// module's deterministic message supersedes the generated response; the
// general branch keeps it.
func (s *Service) dispatch(message string, cls Classification, ragAnswer string) *Result {
	orderRef := cls.OrderID
	if orderRef == "" {
		orderRef = message
	}

	switch cls.Intent {
	case workflow.IntentOrderQuery:
		info := s.tracking.Execute(orderRef)
		response := info.Message
		if info.Found {
			response = formatTrackingResponse(info)
		}
		return &Result{Response: response, Intent: cls.Intent, Method: MethodModule, Data: info}

	case workflow.IntentCancellation:
		res := s.cancel.Execute(orderRef, cls.Reason)
		return &Result{Response: res.Message, Intent: cls.Intent, Method: MethodModule, Data: res}

	case workflow.IntentRefund:
		res := s.refund.Execute(orderRef, cls.Reason)
		return &Result{Response: res.Message, Intent: cls.Intent, Method: MethodModule, Data: res}

	case workflow.IntentServiceEnquiry:
		description := cls.Description
		if description == "" {
			description = message
		}
		res := s.enquiry.Execute(cls.EnquiryType, description)
		return &Result{Response: res.Message, Intent: cls.Intent, Method: MethodModule, Data: res}

	case workflow.IntentFAQ:
		res := s.faq.Execute(message)
		return &Result{Response: res.Answer, Intent: cls.Intent, Method: MethodModule, Data: res}
	}

	response := cls.Response
	if response == "" {
		response = ragAnswer
	}
	if response == "" {
		response = "I'm here to help with orders, refunds, cancellations and product questions. Could you tell me a bit more?"
	}
	return &Result{Response: response, Intent: workflow.IntentGeneral, Method: MethodGenAI}
}

// findConnectedRAGModule walks outgoing edges from the assistant node
// and returns the first RAG module target. When no edge reaches one, it
// falls back to scanning the whole node set for a single configured RAG
// module; graphs saved without edges still carry their logical wiring.
func findConnectedRAGModule(nodeID string, nodes []workflow.Node, edges []workflow.Edge) *workflow.Node {
	byID := make(map[string]*workflow.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	for _, edge := range edges {
		if edge.Source != nodeID {
			continue
		}
		if target, ok := byID[edge.Target]; ok && target.IsRAGModule() {
			return target
		}
	}

	for i := range nodes {
		if nodes[i].IsRAGModule() && nodes[i].IsConfigured {
			metrics.RAGFallbackLookupsTotal.Inc()
			return &nodes[i]
		}
	}
	return nil
}

// formatTrackingResponse renders tracking info as a readable summary
// with the three most recent milestones.
func formatTrackingResponse(info modules.TrackingInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Tracking - %s\n\n", info.OrderID)
	fmt.Fprintf(&b, "Current Status: %s\n", info.Status)
	fmt.Fprintf(&b, "Location: %s\n", info.CurrentLocation)
	fmt.Fprintf(&b, "Estimated Delivery: %s\n\n", info.EstimatedDelivery)
	fmt.Fprintf(&b, "Tracking Number: %s\n", info.TrackingNumber)
	fmt.Fprintf(&b, "Carrier: %s\n", info.Carrier)

	recent := info.Milestones
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent Updates:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "- %s - %s (%s)\n", m.Date, m.Status, m.Location)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
