package engine

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Stamped signature text is wrapped in a save/restore pair that shears the
// text space to suggest cursive handwriting and switches to a distinct ink
// color; other stamped types only get the color change.
const (
	inkColorOp   = "0.07 0.13 0.40 rg"
	sigShearOp   = "1 0 0.25 1 0 0 cm"
	lengthKeyPat = `/Length\s+(\d+)`
)

var lengthLitRe = regexp.MustCompile(lengthKeyPat)

// splice is one pending byte replacement against the original document.
type splice struct {
	start int
	end   int
	repl  []byte
}

// Stamp rewrites tag occurrences with their final values and returns the
// rewritten, normalized document bytes along with the number of occurrences
// stamped. Tags without a ValueMap entry are left untouched in the output,
// a visible failure instead of silent data loss. Only an unreadable
// document or a failed final normalization is an error.
func (e *Engine) Stamp(data []byte, placeholders []Placeholder, values ValueMap) ([]byte, int, error) {
	out, stamped := e.stampBytes(data, placeholders, values)
	normalized, err := Normalize(out)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to normalize stamped document: %w", err)
	}
	return normalized, stamped, nil
}

// stampBytes performs the splice rewrite without the final normalization
// round-trip.
func (e *Engine) stampBytes(data []byte, placeholders []Placeholder, values ValueMap) ([]byte, int) {
	doc := IndexDocument(data)
	var splices []splice
	stamped := 0

	for _, streamID := range doc.StreamIDs() {
		payload, _ := doc.StreamBytes(streamID)
		if len(payload) > e.maxStreamSize {
			e.logger.Warn("stream exceeds size guard, left unstamped", "object", streamID, "size", len(payload))
			continue
		}
		content, inflated := inflateStream(payload)
		text := string(content)
		if !strings.Contains(text, "[[") && !strings.Contains(text, "{{") {
			continue
		}

		rewritten, n := e.rewriteStream(text, values)
		if n == 0 {
			continue
		}
		stamped += n

		var newPayload []byte
		if inflated {
			newPayload = deflateStream([]byte(rewritten))
		} else {
			newPayload = []byte(rewritten)
		}

		sp := doc.streams[streamID]
		splices = append(splices, splice{start: sp.start, end: sp.end, repl: newPayload})
		if ls, ok := literalLengthSpan(doc, streamID); ok {
			splices = append(splices, splice{
				start: ls.start,
				end:   ls.end,
				repl:  []byte(strconv.Itoa(len(newPayload))),
			})
		}
	}

	out := applySplices(data, splices)
	out = e.stampFlatOccurrences(out, placeholders, values)
	return out, stamped
}

// rewriteStream substitutes valued tags inside the show-text runs of one
// decompressed stream. A run containing at least one valued tag is replaced
// wholesale by a single-show operator carrying the substituted text, so
// array-show kerning collapses; runs with no valued tags are untouched.
func (e *Engine) rewriteStream(text string, values ValueMap) (string, int) {
	runs := showTextRuns(text)
	if len(runs) == 0 {
		return text, 0
	}

	var sb strings.Builder
	prev := 0
	stamped := 0
	for _, run := range runs {
		content := run.content
		replaced := false
		hasSignature := false
		for _, tag := range tagCandidateRe.FindAllString(run.content, -1) {
			parsed, ok := ParseTag(tag)
			if !ok {
				continue
			}
			value, ok := lookupTagValue(parsed, values)
			if !ok {
				e.logger.Warn("no value for placeholder, tag left in place", "tag", tag)
				continue
			}
			content = strings.ReplaceAll(content, tag, value)
			replaced = true
			stamped++
			if parsed.Type == TypeSignature {
				hasSignature = true
			}
		}
		if !replaced {
			continue
		}

		sb.WriteString(text[prev:run.start])
		if hasSignature {
			sb.WriteString("q " + sigShearOp + " " + inkColorOp + " (" + escapeString(content) + ") Tj Q")
		} else {
			sb.WriteString(inkColorOp + " (" + escapeString(content) + ") Tj")
		}
		prev = run.end
	}
	if stamped == 0 {
		return text, 0
	}
	sb.WriteString(text[prev:])
	return sb.String(), stamped
}

// lookupTagValue resolves a parsed tag against the value map using the same
// key shapes the placeholder list advertises.
func lookupTagValue(parsed ParsedTag, values ValueMap) (string, bool) {
	p := Placeholder{Type: parsed.Type, Role: parsed.Role, FieldName: parsed.FieldName}
	return values.Lookup(&p)
}

// literalLengthSpan finds the byte span of a literal integer /Length entry
// in a stream object's dictionary. Indirect lengths (/Length N 0 R) are
// left alone; the final normalization pass reconciles those.
func literalLengthSpan(doc *Document, streamID int) (span, bool) {
	obj, ok := doc.objects[streamID]
	if !ok {
		return span{}, false
	}
	st, ok := doc.streams[streamID]
	if !ok {
		return span{}, false
	}
	head := doc.text[obj.start:st.start]
	m := lengthLitRe.FindStringSubmatchIndex(head)
	if m == nil {
		return span{}, false
	}
	rest := strings.TrimLeft(head[m[3]:], " \t\r\n")
	if strings.HasPrefix(rest, "0 R") {
		return span{}, false
	}
	return span{start: obj.start + m[2], end: obj.start + m[3]}, true
}

// applySplices rewrites the document in reverse offset order so earlier
// splices cannot invalidate later offsets.
func applySplices(data []byte, splices []splice) []byte {
	if len(splices) == 0 {
		return data
	}
	sort.Slice(splices, func(i, j int) bool { return splices[i].start > splices[j].start })
	out := make([]byte, len(data))
	copy(out, data)
	for _, s := range splices {
		var buf bytes.Buffer
		buf.Grow(len(out) - (s.end - s.start) + len(s.repl))
		buf.Write(out[:s.start])
		buf.Write(s.repl)
		buf.Write(out[s.end:])
		out = buf.Bytes()
	}
	return out
}

// stampFlatOccurrences is the final pass: any literal tag text that
// survived outside a recognized show-text wrapper is substituted directly
// in the flat byte stream, provided a value exists for it.
func (e *Engine) stampFlatOccurrences(data []byte, placeholders []Placeholder, values ValueMap) []byte {
	done := make(map[string]bool)
	for i := range placeholders {
		p := &placeholders[i]
		if done[p.OriginalTag] {
			continue
		}
		done[p.OriginalTag] = true
		value, ok := values.Lookup(p)
		if !ok {
			continue
		}
		tag := []byte(p.OriginalTag)
		if bytes.Contains(data, tag) {
			e.logger.Debug("substituting tag outside show-text wrapper", "tag", p.OriginalTag)
			data = bytes.ReplaceAll(data, tag, []byte(value))
		}
	}
	return data
}
