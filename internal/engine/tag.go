package engine

import (
	"regexp"
	"strings"
)

// Two independent tag grammars are recognized, tried in precedence order:
//
//	bracket: [[SIGNATURE:role]] [[DATE:role]] [[TEXT:fieldName]]
//	brace:   {{Prefix_es_:role[:kind]}}   (legacy interop format)
//
// A candidate that matches neither grammar is skipped and contributes
// nothing; the caller logs it as a diagnostic, never an error.

var (
	bracketTagRe = regexp.MustCompile(`^\[\[(SIGNATURE|DATE|TEXT):([^\[\]:]+)\]\]$`)
	braceTagRe   = regexp.MustCompile(`^\{\{([A-Za-z0-9#.+-]+)_es_:([^:{}]+?)(?::([A-Za-z]+))?\}\}$`)
	dateMarkerRe = regexp.MustCompile(`(?i)^(?:date|dte)[0-9]*$`)
	datePrefixRe = regexp.MustCompile(`(?i)(?:date|dte)`)
)

// ParsedTag is the typed classification of one raw tag string.
type ParsedTag struct {
	Type      PlaceholderType
	Role      string
	FieldName string
}

// ParseTag classifies a raw tag string, reporting false when the string
// matches neither grammar.
func ParseTag(tag string) (ParsedTag, bool) {
	if m := bracketTagRe.FindStringSubmatch(tag); m != nil {
		return parseBracketTag(m[1], m[2])
	}
	if m := braceTagRe.FindStringSubmatch(tag); m != nil {
		return parseBraceTag(m[1], m[2], m[3])
	}
	return ParsedTag{}, false
}

func parseBracketTag(kind, ident string) (ParsedTag, bool) {
	switch kind {
	case "SIGNATURE":
		return ParsedTag{Type: TypeSignature, Role: ident}, true
	case "DATE":
		return ParsedTag{Type: TypeDate, Role: ident}, true
	case "TEXT":
		// TEXT tags carry no role of their own.
		return ParsedTag{Type: TypeText, Role: RoleAny, FieldName: ident}, true
	}
	return ParsedTag{}, false
}

func parseBraceTag(prefix, role, kind string) (ParsedTag, bool) {
	switch {
	case strings.HasPrefix(prefix, "Sig") && kind == "signature":
		return ParsedTag{Type: TypeSignature, Role: role}, true

	case (datePrefixRe.MatchString(prefix) && kind == "date") || dateMarkerRe.MatchString(prefix):
		return ParsedTag{Type: TypeDate, Role: role, FieldName: prefix}, true

	case strings.HasPrefix(prefix, "Int"):
		// Initials render as a plain text field named Int.
		return ParsedTag{Type: TypeText, Role: role, FieldName: "Int"}, true

	case kind == "signature" || kind == "date":
		// A signature/date suffix on an unrecognized prefix would double
		// classify; skip it.
		return ParsedTag{}, false

	default:
		return ParsedTag{Type: TypeText, Role: role, FieldName: prefix}, true
	}
}

// placeholderBox returns the fixed visual box for a placeholder type.
func placeholderBox(t PlaceholderType) (width, height float64) {
	switch t {
	case TypeSignature:
		return SignatureWidth, SignatureHeight
	case TypeDate:
		return DateWidth, DateHeight
	default:
		return TextWidth, TextHeight
	}
}
