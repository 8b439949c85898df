package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Resource names are unique only within their owning dictionary, so XObject
// resolution is tiered: a per-page scoped map is attempted first (inline
// Resources, then a /Resources indirection, then an /XObject indirection
// inside that), and a global name->id map of every pair seen anywhere is
// kept purely as a best-effort fallback. The global map never overrides a
// scoped resolution.

var (
	nameRefRe       = regexp.MustCompile(`/([A-Za-z0-9#.+_-]+)\s+(\d+)\s+0\s+R`)
	resourcesRefRe  = regexp.MustCompile(`/Resources\s+(\d+)\s+0\s+R`)
	xobjectRefRe    = regexp.MustCompile(`/XObject\s+(\d+)\s+0\s+R`)
	xobjectInlineRe = regexp.MustCompile(`/XObject\s*<<`)
	resourcesInline = regexp.MustCompile(`/Resources\s*<<`)
)

// GlobalXObjects records every XObject name->id pair found anywhere in the
// document, with no scoping. When the same name maps to different ids in
// different dictionaries the last occurrence wins, which is exactly why this
// map is only a fallback.
func GlobalXObjects(doc *Document) map[string]int {
	global := make(map[string]int)
	for _, loc := range xobjectInlineRe.FindAllStringIndex(doc.text, -1) {
		dict, ok := scanDictionary(doc.text, loc[1]-2)
		if !ok {
			continue
		}
		for name, id := range xobjectEntries(dict) {
			global[name] = id
		}
	}
	return global
}

// PageXObjects resolves the XObject dictionary scoped to one page, following
// the documented fallback order. An empty map means scoping failed and the
// caller should fall back to the global map.
func PageXObjects(doc *Document, pageID int) map[string]int {
	dict, ok := doc.dicts[pageID]
	if !ok {
		return nil
	}

	// Tier 1: inline /Resources << … /XObject << … >> … >> on the page.
	if loc := resourcesInline.FindStringIndex(dict); loc != nil {
		if res, ok := scanDictionary(dict, loc[1]-2); ok {
			if entries := xobjectsFromResources(doc, res); len(entries) > 0 {
				return entries
			}
		}
	}

	// Tier 2: /Resources N 0 R indirection.
	if m := resourcesRefRe.FindStringSubmatch(dict); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			if res, ok := doc.dicts[id]; ok {
				if entries := xobjectsFromResources(doc, res); len(entries) > 0 {
					return entries
				}
			}
		}
	}

	return nil
}

// xobjectsFromResources extracts name->id pairs from a resources dictionary,
// following one further /XObject N 0 R indirection if the XObject dictionary
// is not inline. This is tier 3 of the scoping fallback.
func xobjectsFromResources(doc *Document, resources string) map[string]int {
	if loc := xobjectInlineRe.FindStringIndex(resources); loc != nil {
		if dict, ok := scanDictionary(resources, loc[1]-2); ok {
			return xobjectEntries(dict)
		}
	}
	if m := xobjectRefRe.FindStringSubmatch(resources); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			if dict, ok := doc.dicts[id]; ok {
				return xobjectEntries(dict)
			}
		}
	}
	return nil
}

// xobjectEntries pulls the name -> object id pairs out of one XObject
// dictionary fragment.
func xobjectEntries(dict string) map[string]int {
	inner := strings.TrimPrefix(dict, "<<")
	entries := make(map[string]int)
	for _, m := range nameRefRe.FindAllStringSubmatch(inner, -1) {
		if m[1] == "XObject" || m[1] == "Resources" || m[1] == "Length" {
			continue
		}
		if id, err := strconv.Atoi(m[2]); err == nil {
			entries[m[1]] = id
		}
	}
	return entries
}

// resolveXObject looks a drawn name up in the page-scoped map first, then in
// the global fallback.
func resolveXObject(scoped map[string]int, global map[string]int, name string) (int, bool) {
	if id, ok := scoped[name]; ok {
		return id, true
	}
	id, ok := global[name]
	return id, ok
}
