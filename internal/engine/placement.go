package engine

import (
	"log/slog"
	"regexp"
	"strconv"
)

const numPat = `[-+]?[0-9]*\.?[0-9]+`

// placementRe matches a "cm … /Name Do" operator pair, optionally preceded
// by a graphics-state save. The 5th and 6th cm operands are the translation
// components, i.e. where the named XObject lands on the page.
var placementRe = regexp.MustCompile(
	`(?:q\s+)?(` + numPat + `)\s+(` + numPat + `)\s+(` + numPat + `)\s+(` + numPat +
		`)\s+(` + numPat + `)\s+(` + numPat + `)\s+cm\s*/([A-Za-z0-9#.+_-]+)\s+Do\b`)

// LocatePlacements walks every page's decompressed content streams and
// records the placement origin of each Form XObject drawn there. The first
// placement found for a given object id wins; later draws of the same id
// are ignored.
func LocatePlacements(doc *Document, global map[string]int, maxStreamSize int, logger *slog.Logger) map[int]Placement {
	placements := make(map[int]Placement)
	for _, pageID := range doc.pages {
		pageIdx := doc.pageIndex[pageID]
		scoped := PageXObjects(doc, pageID)
		if scoped == nil {
			logger.Debug("xobject scoping failed, using global fallback", "page", pageIdx+1)
		}
		for streamID, idx := range doc.contentPage {
			if idx != pageIdx {
				continue
			}
			payload, ok := doc.StreamBytes(streamID)
			if !ok || len(payload) > maxStreamSize {
				continue
			}
			content, _ := inflateStream(payload)
			text := string(content)
			for _, m := range placementRe.FindAllStringSubmatch(text, -1) {
				name := m[7]
				id, ok := resolveXObject(scoped, global, name)
				if !ok {
					logger.Debug("drawn xobject name not resolvable", "name", name, "page", pageIdx+1)
					continue
				}
				if _, seen := placements[id]; seen {
					continue
				}
				x := parseFloat(m[5])
				y := parseFloat(m[6])
				placements[id] = Placement{PageIndex: pageIdx, X: x, Y: y}
			}
		}
	}
	return placements
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
