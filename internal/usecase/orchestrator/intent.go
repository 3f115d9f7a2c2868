package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
)

// Classification is the structured outcome of intent analysis: the
// intent tag, extracted fields for module dispatch and a default reply
// for the general branch.
type Classification struct {
	Intent      workflow.Intent
	OrderID     string
	Reason      string
	EnquiryType string
	Description string
	Response    string
}

const classifySystemPrompt = `You are the intent classifier of a customer support assistant for an industrial equipment retailer.
Classify the user's message into exactly one intent:
- general_query: anything not covered below
- order_query: order status or tracking questions
- cancellation: requests to cancel an order
- refund_query: refund or return requests
- service_enquiry: complaints, warranty claims, billing issues, bulk/business enquiries
- faq_support: questions about policies (shipping, returns, payment, warranty terms)

Respond with a single JSON object and nothing else:
{"intent": "...", "orderId": "...", "reason": "...", "enquiryType": "...", "description": "...", "response": "..."}

Leave fields you cannot extract as empty strings. "response" is a short helpful reply used when the intent is general_query.`

// Classifier drives intent analysis through the generation backend,
// with a deterministic keyword fallback when the model's reply cannot
// be parsed.
type Classifier struct {
	completer Completer
	logger    *zap.Logger
}

// NewClassifier creates an intent classifier.
func NewClassifier(completer Completer, logger *zap.Logger) *Classifier {
	return &Classifier{completer: completer, logger: logger}
}

// Classify analyzes one user message. Backend failures propagate; an
// unparsable model reply degrades to keyword matching instead.
func (c *Classifier) Classify(
	ctx context.Context, message, ragAnswer string, history []workflow.Message,
) (Classification, error) {
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	if ragAnswer != "" {
		fmt.Fprintf(&b, "\nKnowledge base context:\n%s\n", ragAnswer)
	}
	fmt.Fprintf(&b, "\nUser message: %s", message)

	reply, err := c.completer.Complete(ctx, classifySystemPrompt, b.String())
	if err != nil {
		return Classification{}, fmt.Errorf("classify intent: %w", err)
	}

	cls, ok := parseClassification(reply)
	if !ok {
		c.logger.Warn("unparsable classifier reply, falling back to keyword matching",
			zap.Int("reply_chars", len(reply)),
		)
		cls = keywordClassification(message)
		cls.Response = strings.TrimSpace(reply)
	}
	if cls.Response == "" {
		cls.Response = ragAnswer
	}
	return cls, nil
}

// parseClassification extracts the JSON object from the model reply,
// tolerating surrounding prose and code fences.
func parseClassification(reply string) (Classification, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return Classification{}, false
	}

	var parsed struct {
		Intent      string `json:"intent"`
		OrderID     string `json:"orderId"`
		Reason      string `json:"reason"`
		EnquiryType string `json:"enquiryType"`
		Description string `json:"description"`
		Response    string `json:"response"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return Classification{}, false
	}

	intent, ok := workflow.ParseIntent(parsed.Intent)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Intent:      intent,
		OrderID:     strings.TrimSpace(parsed.OrderID),
		Reason:      strings.TrimSpace(parsed.Reason),
		EnquiryType: strings.TrimSpace(parsed.EnquiryType),
		Description: strings.TrimSpace(parsed.Description),
		Response:    strings.TrimSpace(parsed.Response),
	}, true
}

// keywordClassification is the deterministic fallback: intent by
// substring matching over the lowercased message, checked in a fixed
// priority order.
func keywordClassification(message string) Classification {
	text := strings.ToLower(message)

	switch {
	case containsAny(text, "cancel"):
		return Classification{Intent: workflow.IntentCancellation}
	case containsAny(text, "refund", "money back", "return my"):
		return Classification{Intent: workflow.IntentRefund}
	case containsAny(text, "track", "where is", "order status", "ord-"):
		return Classification{Intent: workflow.IntentOrderQuery}
	case containsAny(text, "complaint", "warranty", "technical", "bulk", "wholesale", "invoice", "billing"):
		return Classification{Intent: workflow.IntentServiceEnquiry}
	case containsAny(text, "policy", "shipping", "payment method", "how do i", "how long"):
		return Classification{Intent: workflow.IntentFAQ}
	default:
		return Classification{Intent: workflow.IntentGeneral}
	}
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
