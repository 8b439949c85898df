package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Normalize loads the document through a conforming structural PDF library
// and re-saves it once, repairing the internal inconsistencies that direct
// byte splicing can introduce (stale cross-reference offsets, indirect
// stream lengths). Relaxed validation matches how spliced output actually
// looks before repair.
func Normalize(data []byte) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// Classic xref with literal object headers: the byte-pattern indexer
	// cannot see objects packed into /ObjStm streams, so a re-saved
	// document must keep every page dictionary as a visible "N 0 obj".
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read document for normalization: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to resolve page count: %w", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write normalized document: %w", err)
	}
	return buf.Bytes(), nil
}

// DocumentInfo is the structural summary produced by Inspect.
type DocumentInfo struct {
	Version string
	Pages   int
}

// Inspect reads the document with the structural library and reports its
// header version and true page count. The engine's own page indexing orders
// pages by ascending object id, which is only a proxy for document order;
// comparing the two counts surfaces documents that need manual review.
func Inspect(data []byte) (*DocumentInfo, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to resolve page count: %w", err)
	}
	return &DocumentInfo{
		Version: ctx.HeaderVersion.String(),
		Pages:   ctx.PageCount,
	}, nil
}
