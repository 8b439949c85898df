package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// span is a half-open byte range into the raw document.
type span struct {
	start int
	end   int
}

// Document is the two-pass arena built over a raw PDF: pass one indexes
// every "N 0 obj … endobj" fragment by object id, pass two classifies pages
// and resolves /Contents references by id lookup. Generation numbers are
// assumed to be 0 throughout; documents that reuse object numbers across
// generations are outside the supported shape.
type Document struct {
	raw  []byte
	text string // single-byte view of raw; PDF syntax is Latin-1 safe

	objects map[int]span   // object id -> full object span
	dicts   map[int]string // object id -> dictionary fragment
	streams map[int]span   // object id -> stream payload span

	pages       []int       // page object ids, ascending
	pageIndex   map[int]int // page object id -> 0-based page index
	contentPage map[int]int // content stream object id -> 0-based page index
}

var (
	objHeaderRe   = regexp.MustCompile(`(\d+)\s+0\s+obj\b`)
	contentsArrRe = regexp.MustCompile(`/Contents\s*\[([^\]]*)\]`)
	contentsRefRe = regexp.MustCompile(`/Contents\s+(\d+)\s+0\s+R`)
	objRefRe      = regexp.MustCompile(`(\d+)\s+0\s+R`)
	typePageRe    = regexp.MustCompile(`/Type\s*/Page\b`)
)

// IndexDocument builds the object arena for a raw PDF.
func IndexDocument(raw []byte) *Document {
	doc := &Document{
		raw:         raw,
		text:        string(raw),
		objects:     make(map[int]span),
		dicts:       make(map[int]string),
		streams:     make(map[int]span),
		pageIndex:   make(map[int]int),
		contentPage: make(map[int]int),
	}
	doc.indexObjects()
	doc.classifyPages()
	return doc
}

// indexObjects is pass one: locate every numbered object, its dictionary
// fragment and, where present, its stream payload.
func (d *Document) indexObjects() {
	headers := objHeaderRe.FindAllStringSubmatchIndex(d.text, -1)
	for _, h := range headers {
		id, err := strconv.Atoi(d.text[h[2]:h[3]])
		if err != nil {
			continue
		}
		bodyStart := h[1]
		end := strings.Index(d.text[bodyStart:], "endobj")
		if end < 0 {
			continue
		}
		objEnd := bodyStart + end + len("endobj")
		d.objects[id] = span{start: h[0], end: objEnd}

		body := d.text[bodyStart:objEnd]
		lengthHint := -1
		if dict, ok := scanDictionary(body, 0); ok {
			d.dicts[id] = dict
			lengthHint = literalLength(dict)
		}
		if payload, ok := scanStreamPayload(body, lengthHint); ok {
			d.streams[id] = span{start: bodyStart + payload.start, end: bodyStart + payload.end}
		}
	}
}

// scanDictionary returns the first balanced << … >> fragment at or after
// from, including the delimiters.
func scanDictionary(s string, from int) (string, bool) {
	open := strings.Index(s[from:], "<<")
	if open < 0 {
		return "", false
	}
	start := from + open
	depth := 0
	for i := start; i < len(s)-1; i++ {
		switch {
		case s[i] == '<' && s[i+1] == '<':
			depth++
			i++
		case s[i] == '>' && s[i+1] == '>':
			depth--
			i++
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// scanStreamPayload finds the stream … endstream payload inside an object
// body. The payload starts after the EOL following the stream keyword. A
// literal /Length hint wins when it lines up with the endstream marker,
// since compressed payloads can legitimately end in EOL bytes that a plain
// marker scan would trim away.
func scanStreamPayload(body string, lengthHint int) (span, bool) {
	idx := strings.Index(body, "stream")
	if idx < 0 {
		return span{}, false
	}
	start := idx + len("stream")
	if start < len(body) && body[start] == '\r' {
		start++
	}
	if start < len(body) && body[start] == '\n' {
		start++
	}
	if lengthHint >= 0 && start+lengthHint <= len(body) {
		rest := strings.TrimLeft(body[start+lengthHint:], "\r\n")
		if strings.HasPrefix(rest, "endstream") {
			return span{start: start, end: start + lengthHint}, true
		}
	}
	end := strings.Index(body[start:], "endstream")
	if end < 0 {
		return span{}, false
	}
	end = start + end
	// Trailing EOL before the endstream keyword belongs to the marker.
	for end > start && (body[end-1] == '\n' || body[end-1] == '\r') {
		end--
	}
	return span{start: start, end: end}, true
}

// literalLength extracts a literal integer /Length from a dictionary
// fragment, returning -1 for indirect or absent lengths.
func literalLength(dict string) int {
	m := lengthLitRe.FindStringSubmatchIndex(dict)
	if m == nil {
		return -1
	}
	rest := strings.TrimLeft(dict[m[3]:], " \t\r\n")
	if strings.HasPrefix(rest, "0 R") {
		return -1
	}
	n, err := strconv.Atoi(dict[m[2]:m[3]])
	if err != nil {
		return -1
	}
	return n
}

// classifyPages is pass two: pick out page objects, order them by ascending
// object id to assign page indexes, and map their content streams back to
// the owning page. Ordering by object id is a proxy for true page order and
// only holds when ids were assigned monotonically by page; the page tree is
// deliberately not walked.
func (d *Document) classifyPages() {
	var ids []int
	for id, dict := range d.dicts {
		if isPageDictionary(dict) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	idx := 0
	for _, id := range ids {
		refs := contentStreamRefs(d.dicts[id])
		if len(refs) == 0 {
			// A page without resolvable contents cannot carry tags.
			continue
		}
		d.pages = append(d.pages, id)
		d.pageIndex[id] = idx
		for _, ref := range refs {
			d.contentPage[ref] = idx
		}
		idx++
	}
}

// isPageDictionary applies the page heuristic: the object must reference
// contents and look page-shaped in at least one other way.
func isPageDictionary(dict string) bool {
	if !strings.Contains(dict, "/Contents") {
		return false
	}
	return strings.Contains(dict, "/MediaBox") ||
		typePageRe.MatchString(dict) ||
		strings.Contains(dict, "/Parent")
}

// contentStreamRefs extracts the content stream object ids referenced by a
// page dictionary, handling both a lone reference and a bracketed array.
func contentStreamRefs(dict string) []int {
	if m := contentsArrRe.FindStringSubmatch(dict); m != nil {
		var ids []int
		for _, ref := range objRefRe.FindAllStringSubmatch(m[1], -1) {
			if id, err := strconv.Atoi(ref[1]); err == nil {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if m := contentsRefRe.FindStringSubmatch(dict); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			return []int{id}
		}
	}
	return nil
}

// PageCount returns the number of indexed pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// StreamIDs returns every object id that owns a stream payload, ascending.
func (d *Document) StreamIDs() []int {
	ids := make([]int, 0, len(d.streams))
	for id := range d.streams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// StreamBytes returns the raw (still compressed) payload of a stream object.
func (d *Document) StreamBytes(id int) ([]byte, bool) {
	sp, ok := d.streams[id]
	if !ok {
		return nil, false
	}
	return d.raw[sp.start:sp.end], true
}
