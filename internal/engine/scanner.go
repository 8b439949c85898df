package engine

import (
	"math"
	"regexp"
	"strings"
)

var (
	// Single-show form: a parenthesized string followed by Tj.
	showSingleRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj\b`)
	// Array-show form: bracketed strings interspersed with kerning numbers,
	// followed by TJ. Member strings are matched as whole units so brackets
	// inside tag text do not terminate the array early; the strings are
	// concatenated before grammar matching.
	showArrayRe  = regexp.MustCompile(`\[((?:\s*(?:\((?:\\.|[^\\()])*\)|` + numPat + `))*)\s*\]\s*TJ\b`)
	stringPartRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)

	tmRe = regexp.MustCompile(`(` + numPat + `)\s+(` + numPat + `)\s+(` + numPat + `)\s+(` +
		numPat + `)\s+(` + numPat + `)\s+(` + numPat + `)\s+Tm\b`)
	tdRe = regexp.MustCompile(`(` + numPat + `)\s+(` + numPat + `)\s+T[dD]\b`)
	cmRe = regexp.MustCompile(`(` + numPat + `)\s+(` + numPat + `)\s+(` + numPat + `)\s+(` +
		numPat + `)\s+(` + numPat + `)\s+(` + numPat + `)\s+cm\b`)

	tagCandidateRe = regexp.MustCompile(`\[\[[^\[\]]+\]\]|\{\{[^{}]+\}\}`)
)

// textRun is one show-text operator occurrence in a decompressed stream:
// the byte span of the full operator and the concatenated, unescaped string
// content it draws.
type textRun struct {
	start   int
	end     int
	content string
	array   bool
}

// showTextRuns extracts every show-text run from a decompressed content
// stream, in stream order.
func showTextRuns(text string) []textRun {
	var runs []textRun
	for _, m := range showSingleRe.FindAllStringSubmatchIndex(text, -1) {
		runs = append(runs, textRun{
			start:   m[0],
			end:     m[1],
			content: unescapeString(text[m[2]:m[3]]),
		})
	}
	for _, m := range showArrayRe.FindAllStringSubmatchIndex(text, -1) {
		inner := text[m[2]:m[3]]
		var sb strings.Builder
		for _, p := range stringPartRe.FindAllStringSubmatch(inner, -1) {
			sb.WriteString(unescapeString(p[1]))
		}
		runs = append(runs, textRun{
			start:   m[0],
			end:     m[1],
			content: sb.String(),
			array:   true,
		})
	}
	// The two regexes cannot overlap, but array runs were appended after
	// single runs; restore stream order.
	for i := 1; i < len(runs); i++ {
		for j := i; j > 0 && runs[j].start < runs[j-1].start; j-- {
			runs[j], runs[j-1] = runs[j-1], runs[j]
		}
	}
	return runs
}

// unescapeString undoes PDF string-literal escaping for the characters that
// can occur in tag text. Unknown escapes keep the escaped character.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// escapeString applies PDF string-literal escaping to a stamped value.
func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// streamGeometry caches the positioning operators of one decompressed
// stream so each tag occurrence resolves in O(log n) over the match lists.
type streamGeometry struct {
	text string
	tms  [][]int
	tds  [][]int
	cms  [][]int
}

func newStreamGeometry(text string) *streamGeometry {
	return &streamGeometry{
		text: text,
		tms:  tmRe.FindAllStringSubmatchIndex(text, -1),
		tds:  tdRe.FindAllStringSubmatchIndex(text, -1),
		cms:  cmRe.FindAllStringSubmatchIndex(text, -1),
	}
}

// positionAt composes the local coordinate active at a stream offset: the
// translation of the last Tm before the offset, plus every Td/TD delta
// applied after that Tm and before the offset, summed cumulatively.
func (g *streamGeometry) positionAt(offset int) (x, y float64) {
	tmEnd := 0
	for _, m := range g.tms {
		if m[1] > offset {
			break
		}
		x = parseFloat(g.text[m[10]:m[11]])
		y = parseFloat(g.text[m[12]:m[13]])
		tmEnd = m[1]
	}
	for _, m := range g.tds {
		if m[1] > offset {
			break
		}
		if m[0] < tmEnd {
			continue
		}
		x += parseFloat(g.text[m[2]:m[3]])
		y += parseFloat(g.text[m[4]:m[5]])
	}
	return x, y
}

// enclosingCM returns the translation of the last cm operator before the
// offset. Used only by the near-origin fallback.
func (g *streamGeometry) enclosingCM(offset int) (x, y float64, ok bool) {
	for _, m := range g.cms {
		if m[1] > offset {
			break
		}
		x = parseFloat(g.text[m[10]:m[11]])
		y = parseFloat(g.text[m[12]:m[13]])
		ok = true
	}
	return x, y, ok
}

// nearOrigin reports whether a coordinate falls inside the noise band in
// both axes.
func nearOrigin(x, y, threshold float64) bool {
	return math.Abs(x) < threshold && math.Abs(y) < threshold
}

// ScanTags decompresses every stream and emits each tag occurrence with its
// absolute coordinate. Page content streams resolve through their own
// Tm/Td composition; other streams are Form XObject content and add their
// placement origin to the same local composition. Occurrences that still
// resolve inside the near-origin noise band are dropped as positionally
// indeterminate rather than emitted at the page corner. Identical tag
// strings at distinct positions all survive; nothing is deduplicated.
func (e *Engine) ScanTags(doc *Document, placements map[int]Placement) []TagLocation {
	var locations []TagLocation

	scan := func(streamID int, pageIdx int, isPage bool) {
		payload, ok := doc.StreamBytes(streamID)
		if !ok {
			return
		}
		if len(payload) > e.maxStreamSize {
			e.logger.Warn("stream exceeds size guard, skipped", "object", streamID, "size", len(payload))
			return
		}
		content, inflated := inflateStream(payload)
		if !inflated {
			e.logger.Debug("stream not flate-compressed, treating as literal text", "object", streamID)
		}
		text := string(content)
		if !strings.Contains(text, "[[") && !strings.Contains(text, "{{") {
			return
		}
		geom := newStreamGeometry(text)

		var origin Placement
		if !isPage {
			pl, placed := placements[streamID]
			if !placed {
				e.logger.Debug("tags in undrawn xobject stream, skipped", "object", streamID)
				return
			}
			origin = pl
			pageIdx = pl.PageIndex
		}

		for _, run := range showTextRuns(text) {
			for _, tag := range tagCandidateRe.FindAllString(run.content, -1) {
				x, y := geom.positionAt(run.start)
				if nearOrigin(x, y, e.noiseThreshold) {
					// Empirical fallback: a zero text matrix usually means
					// the position lives in an enclosing transform instead.
					if cx, cy, ok := geom.enclosingCM(run.start); ok {
						x, y = cx, cy
					}
				}
				if !isPage {
					x += origin.X
					y += origin.Y
				}
				if nearOrigin(x, y, e.noiseThreshold) {
					e.logger.Warn("tag position unresolved, occurrence dropped",
						"tag", tag, "object", streamID)
					continue
				}
				locations = append(locations, TagLocation{
					TagText:   tag,
					PageIndex: pageIdx,
					X:         x,
					Y:         y,
					StreamID:  streamID,
				})
			}
		}
	}

	// Page content streams first, in page order, then the remaining
	// streams (Form XObjects and anything else) by ascending object id.
	done := make(map[int]bool)
	for _, pageID := range doc.pages {
		idx := doc.pageIndex[pageID]
		for _, streamID := range doc.StreamIDs() {
			if pi, ok := doc.contentPage[streamID]; ok && pi == idx {
				scan(streamID, idx, true)
				done[streamID] = true
			}
		}
	}
	for _, streamID := range doc.StreamIDs() {
		if !done[streamID] {
			scan(streamID, -1, false)
		}
	}
	return locations
}
