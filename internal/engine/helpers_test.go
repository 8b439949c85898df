package engine

import (
	"fmt"
	"strings"
)

// Test documents are assembled from object fragments the same way real
// producers lay them out. Streams are written uncompressed unless a test
// compresses them explicitly; the engine's literal-text fallback covers
// both shapes.

func buildPDF(objects ...string) []byte {
	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")
	for _, o := range objects {
		sb.WriteString(o)
		sb.WriteString("\n")
	}
	sb.WriteString("%%EOF\n")
	return []byte(sb.String())
}

func dictObj(id int, dict string) string {
	return fmt.Sprintf("%d 0 obj\n%s\nendobj", id, dict)
}

func streamObj(id int, dictExtra string, content []byte) string {
	return fmt.Sprintf("%d 0 obj\n<< /Length %d%s >>\nstream\n%s\nendstream\nendobj",
		id, len(content), dictExtra, content)
}

func pageObj(id int, contentsRef string, extra string) string {
	return dictObj(id, fmt.Sprintf(
		"<< /Type /Page /Parent 100 0 R /MediaBox [0 0 612 792] /Contents %s%s >>",
		contentsRef, extra))
}

// buildValidPDF assembles a complete single-page document with a correct
// cross-reference table and trailer, so it survives the structural
// normalization round-trip as well as the pattern-based indexer.
func buildValidPDF(content []byte) []byte {
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>\nendobj\n",
		fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			len(content), content),
		"5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
	}

	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, o := range objects {
		offsets[i] = sb.Len()
		sb.WriteString(o)
	}
	xref := sb.Len()
	fmt.Fprintf(&sb, "xref\n0 %d\n", len(objects)+1)
	sb.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&sb, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&sb, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return []byte(sb.String())
}

// validTemplate is the shared end-to-end fixture: one page, one tag.
func validTemplate() []byte {
	return buildValidPDF([]byte(
		"BT /F1 12 Tf 1 0 0 1 50 700 Tm ({{Sig_es_:signer1:signature}}) Tj ET"))
}
