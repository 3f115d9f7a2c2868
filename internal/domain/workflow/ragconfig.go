package workflow

import (
	"fmt"
	"strings"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
)

// DocumentMode describes how a RAG module obtains its documents.
type DocumentMode string

const (
	DocumentExisting DocumentMode = "existing"
	DocumentUpload   DocumentMode = "upload"
	DocumentPaste    DocumentMode = "paste"
)

// ResponseMode describes how a RAG module formats its answer.
type ResponseMode string

const (
	ResponseConcise  ResponseMode = "concise"
	ResponseDetailed ResponseMode = "detailed"
	ResponseRaw      ResponseMode = "raw"
)

// UploadedFile is a document provided through the upload flow.
// Parsing of binary formats happens upstream; content arrives as text.
type UploadedFile struct {
	Name    string
	Content string
	Type    string
}

// RAGConfig is the per-module retrieval configuration.
type RAGConfig struct {
	DocumentMode    DocumentMode
	DocumentContent string
	UploadedFiles   []UploadedFile
	Category        string
	MatchThreshold  *float64 // in [0, 1]; nil means default
	MatchCount      *int     // in [1, 10]; nil means default
	ResponseMode    ResponseMode
	FallbackMessage string
}

// Validate checks the configuration before any retrieval call is made.
// All violations are reported together, wrapped in domain.ErrInvalidConfig.
func (c RAGConfig) Validate() error {
	var errs []string

	switch c.ResponseMode {
	case ResponseConcise, ResponseDetailed, ResponseRaw:
	case "":
		errs = append(errs, "response mode is required")
	default:
		errs = append(errs, fmt.Sprintf("invalid response mode %q", c.ResponseMode))
	}

	if c.MatchThreshold != nil && (*c.MatchThreshold < 0 || *c.MatchThreshold > 1) {
		errs = append(errs, "match threshold must be between 0 and 1")
	}
	if c.MatchCount != nil && (*c.MatchCount < 1 || *c.MatchCount > 10) {
		errs = append(errs, "match count must be between 1 and 10")
	}

	if c.DocumentMode == DocumentPaste && c.DocumentContent == "" {
		errs = append(errs, "document content is required in paste mode")
	}
	if c.DocumentMode == DocumentUpload && len(c.UploadedFiles) == 0 {
		errs = append(errs, "at least one uploaded file is required in upload mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, ", "))
	}
	return nil
}
