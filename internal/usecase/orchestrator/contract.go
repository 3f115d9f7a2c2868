package orchestrator

import (
	"context"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
	"github.com/Kcodess2807/Blitz-Protocol/internal/modules"
	"github.com/Kcodess2807/Blitz-Protocol/internal/usecase/answer"
)

// RAGAnswerer answers a query against a configured RAG node.
type RAGAnswerer interface {
	Answer(ctx context.Context, cfg *workflow.RAGConfig, query, nodeID string) (*answer.Result, error)
}

// IntentClassifier classifies a user message and extracts structured
// fields for module dispatch.
type IntentClassifier interface {
	Classify(ctx context.Context, message, ragAnswer string, history []workflow.Message) (Classification, error)
}

// Completer generates text from a system prompt and a user message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Module executor contracts, one per intent.
type (
	Tracker interface {
		Execute(query string) modules.TrackingInfo
	}
	Canceller interface {
		Execute(orderRef, reason string) modules.CancellationResult
	}
	Refunder interface {
		Execute(orderRef, reason string) modules.RefundResult
	}
	EnquiryDesk interface {
		Execute(enquiryType, description string) modules.EnquiryResult
	}
	FAQBank interface {
		Execute(query string) modules.FAQAnswer
	}
)
