// Package chunk splits raw text into bounded, overlapping,
// sentence-aware segments for embedding.
package chunk

import (
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultSize is the default chunk window in characters.
	DefaultSize = 800
	// DefaultOverlap is the default overlap between adjacent chunks.
	DefaultOverlap = 200
	// MaxChunks caps the output per document; longer inputs are truncated.
	MaxChunks = 100
)

// Options controls chunk window size and overlap. Zero values fall back
// to the defaults.
type Options struct {
	Size    int
	Overlap int
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// Splitter produces chunks from raw text. Pure over its inputs apart
// from a bounded iteration budget; the logger only reports when a safety
// valve trips.
type Splitter struct {
	logger *zap.Logger
}

// NewSplitter creates a Splitter.
func NewSplitter(logger *zap.Logger) *Splitter {
	return &Splitter{logger: logger}
}

// Split chunks text into overlapping sentence-aware segments.
// Texts no longer than the window come back as a single chunk.
func (s *Splitter) Split(text string, opts Options) []string {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	overlap := opts.Overlap
	if overlap <= 0 {
		overlap = DefaultOverlap
	}

	clean := Normalize(text)
	runes := []rune(clean)

	if len(runes) <= size {
		return []string{clean}
	}

	stride := size - overlap
	if stride < 1 {
		stride = 1
	}
	// Safety valve against pathological inputs, not a correctness bound.
	maxIterations := int(math.Ceil(float64(len(runes))/float64(stride))) + 10

	var chunks []string
	start := 0
	iterations := 0

	for start < len(runes) && iterations < maxIterations {
		iterations++

		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		window := runes[start:end]
		actual := len(window)

		// Back-search for a sentence boundary, but only when the window
		// does not already reach the end of the text.
		if end < len(runes) {
			if b := lastSentenceBreak(window); b > size/2 {
				window = window[:b+1]
				actual = b + 1
			}
		}

		if c := strings.TrimSpace(string(window)); c != "" {
			chunks = append(chunks, c)
		}

		step := actual - overlap
		if step < 1 {
			step = 1
		}
		start += step
	}

	if iterations >= maxIterations {
		s.logger.Warn("chunking hit iteration cap, text may be truncated",
			zap.Int("iterations", iterations),
			zap.Int("text_length", len(runes)),
		)
	}

	if len(chunks) > MaxChunks {
		s.logger.Warn("too many chunks, truncating",
			zap.Int("chunks", len(chunks)),
			zap.Int("limit", MaxChunks),
		)
		chunks = chunks[:MaxChunks]
	}

	return chunks
}

// lastSentenceBreak returns the rune index of the last sentence terminal
// (. ? !) that is followed by a space, or -1 when none exists.
func lastSentenceBreak(window []rune) int {
	for i := len(window) - 2; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			if window[i+1] == ' ' {
				return i
			}
		}
	}
	return -1
}
