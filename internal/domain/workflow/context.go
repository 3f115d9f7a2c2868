package workflow

// Message is one turn of a conversation.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ExecutionContext is the ambient per-request identity. Read-only input
// to the orchestrator and module executors.
type ExecutionContext struct {
	BusinessID string
	UserID     string
	History    []Message
}
