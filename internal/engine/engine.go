package engine

import (
	"log/slog"
)

const (
	// DefaultMaxStreamSize bounds how large a stream payload may be before
	// it is skipped outright instead of decompressed, capping worst-case
	// CPU on pathological inputs.
	DefaultMaxStreamSize = 512 * 1024

	// DefaultNoiseThreshold is the near-origin band, in PDF units, inside
	// which a resolved coordinate is treated as a failed positional
	// resolution rather than a tag genuinely at the page corner. The value
	// is an empirically tuned heuristic, not derived from the format;
	// documents whose correct layout depends on it deserve manual review.
	DefaultNoiseThreshold = 1.0
)

// Engine resolves placeholder tags in PDF templates and stamps signer
// values over them. It holds no per-document state: every Parse or Stamp
// call is independent and reentrant over distinct documents. Concurrent
// stamps against the same document are the caller's problem to serialize.
type Engine struct {
	logger         *slog.Logger
	maxStreamSize  int
	noiseThreshold float64
}

// Option adjusts engine tuning.
type Option func(*Engine)

// WithMaxStreamSize overrides the per-stream size guard.
func WithMaxStreamSize(n int) Option {
	return func(e *Engine) { e.maxStreamSize = n }
}

// WithNoiseThreshold overrides the near-origin noise band.
func WithNoiseThreshold(t float64) Option {
	return func(e *Engine) { e.noiseThreshold = t }
}

// NewEngine creates an engine. A nil logger falls back to slog.Default.
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger:         logger,
		maxStreamSize:  DefaultMaxStreamSize,
		noiseThreshold: DefaultNoiseThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse locates every tag occurrence in the document and returns the
// ordered placeholder list. Structural misses, undecodable streams and
// unparseable tags all degrade to fewer placeholders; Parse itself never
// fails. An empty document simply yields zero placeholders.
func (e *Engine) Parse(data []byte) []Placeholder {
	doc := IndexDocument(data)
	global := GlobalXObjects(doc)
	placements := LocatePlacements(doc, global, e.maxStreamSize, e.logger)
	locations := e.ScanTags(doc, placements)

	placeholders := make([]Placeholder, 0, len(locations))
	for _, loc := range locations {
		parsed, ok := ParseTag(loc.TagText)
		if !ok {
			e.logger.Warn("tag matches neither grammar, skipped", "tag", loc.TagText)
			continue
		}
		w, h := placeholderBox(parsed.Type)
		placeholders = append(placeholders, Placeholder{
			Type:        parsed.Type,
			Role:        parsed.Role,
			FieldName:   parsed.FieldName,
			OriginalTag: loc.TagText,
			PageNumber:  loc.PageIndex + 1,
			X:           loc.X,
			Y:           loc.Y,
			Width:       w,
			Height:      h,
		})
	}
	return placeholders
}
