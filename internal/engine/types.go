// Package engine locates signature, date and text marker tags embedded in a
// PDF template, resolves each occurrence to an absolute page coordinate by
// walking the document's numbered objects and content streams, and stamps
// final signer values back over the tags without disturbing page layout.
//
// The engine recovers document structure with byte patterns rather than a
// conformant object-graph parser: objects are indexed by scanning for
// "N 0 obj" fragments, resources are resolved by id lookup into that index,
// and coordinates are composed from Tm/Td/cm operators found in decompressed
// content streams. Every parse or stamp call is a pure function over the
// input bytes; no state survives between calls.
package engine

// PlaceholderType classifies what kind of value a tag expects.
type PlaceholderType string

const (
	TypeSignature PlaceholderType = "SIGNATURE"
	TypeDate      PlaceholderType = "DATE"
	TypeText      PlaceholderType = "TEXT"
)

// RoleAny is the catch-all role assigned to bracket-grammar TEXT tags,
// which carry a field name but no signer role of their own.
const RoleAny = "signer"

// Fixed visual boxes per placeholder type. Boxes are not measured from the
// surrounding content; the signing UI sizes its inputs from these.
const (
	SignatureWidth  = 150.0
	SignatureHeight = 50.0
	DateWidth       = 100.0
	DateHeight      = 20.0
	TextWidth       = 120.0
	TextHeight      = 20.0
)

// Placeholder is one positioned tag occurrence, ready for the signing
// workflow. Identical tags that appear at several visual positions produce
// one Placeholder each; all of them are stamped identically later.
type Placeholder struct {
	Type        PlaceholderType `json:"type"`
	Role        string          `json:"role"`
	FieldName   string          `json:"field_name,omitempty"`
	OriginalTag string          `json:"original_tag"`
	PageNumber  int             `json:"page_number"` // 1-based
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Width       float64         `json:"width"`
	Height      float64         `json:"height"`
}

// TagLocation is a raw tag occurrence with its resolved absolute coordinate,
// before grammar classification.
type TagLocation struct {
	TagText   string  `json:"tag_text"`
	PageIndex int     `json:"page_index"` // 0-based
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	StreamID  int     `json:"stream_id"`
}

// Placement records where a Form XObject is drawn on a page: the translation
// components of the cm matrix preceding its Do operator.
type Placement struct {
	PageIndex int     `json:"page_index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// ValueMap carries the final stamped strings, keyed by placeholder identity:
// "sig:<role>" and "date:<role>" for signature and date tags, "text:<field>"
// for named fields. A missing key leaves the original tag visible in the
// stamped output rather than silently dropping it.
type ValueMap map[string]string

// ValueKeys returns the lookup keys tried for a placeholder, most specific
// first. Brace-grammar date tags carry a field name as well as a role, so a
// named date field supplied as a plain field value still resolves.
func (p *Placeholder) ValueKeys() []string {
	switch p.Type {
	case TypeSignature:
		return []string{"sig:" + p.Role}
	case TypeDate:
		if p.FieldName != "" {
			return []string{"date:" + p.Role, "text:" + p.FieldName}
		}
		return []string{"date:" + p.Role}
	default:
		return []string{"text:" + p.FieldName}
	}
}

// Lookup resolves a placeholder against the map, trying each key in order.
func (m ValueMap) Lookup(p *Placeholder) (string, bool) {
	for _, k := range p.ValueKeys() {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return "", false
}

// Request and result types for the file-level service surface.

// ParseFileRequest asks for the placeholder list of a PDF template.
type ParseFileRequest struct {
	Path string `json:"path"`
}

// ParseFileResult is the ordered placeholder list recovered from a template.
type ParseFileResult struct {
	Path         string        `json:"path"`
	Placeholders []Placeholder `json:"placeholders"`
	Pages        int           `json:"pages"`
}

// StampFileRequest asks for a template to be stamped with signer values.
type StampFileRequest struct {
	Path       string   `json:"path"`
	OutputPath string   `json:"output_path"`
	Values     ValueMap `json:"values"`
}

// StampFileResult reports the outcome of a stamp operation.
type StampFileResult struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Stamped    int    `json:"stamped"`
	Remaining  int    `json:"remaining"`
	Size       int64  `json:"size"`
}

// InspectFileRequest asks for structural information about a PDF.
type InspectFileRequest struct {
	Path string `json:"path"`
}

// InspectFileResult summarizes a document without parsing placeholders.
type InspectFileResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Version      string `json:"version"`
	Pages        int    `json:"pages"`
	IndexedPages int    `json:"indexed_pages"`
	Streams      int    `json:"streams"`
}
