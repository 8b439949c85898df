package engine

import (
	"fmt"
	"log/slog"
	"os"
)

// Service exposes the engine over file paths, pairing each operation with
// the validator so malformed inputs fail before parsing starts.
type Service struct {
	engine    *Engine
	validator *Validator
}

// NewService creates a service around a configured engine.
func NewService(maxFileSize int64, logger *slog.Logger, opts ...Option) *Service {
	return &Service{
		engine:    NewEngine(logger, opts...),
		validator: NewValidator(maxFileSize),
	}
}

// Engine returns the underlying byte-level engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// ParseFile reads a template and returns its placeholder list.
func (s *Service) ParseFile(req ParseFileRequest) (*ParseFileResult, error) {
	data, err := s.readValidated(req.Path)
	if err != nil {
		return nil, err
	}
	doc := IndexDocument(data)
	return &ParseFileResult{
		Path:         req.Path,
		Placeholders: s.engine.Parse(data),
		Pages:        doc.PageCount(),
	}, nil
}

// StampFile stamps a template with the supplied values and writes the
// rewritten document to the output path.
func (s *Service) StampFile(req StampFileRequest) (*StampFileResult, error) {
	data, err := s.readValidated(req.Path)
	if err != nil {
		return nil, err
	}

	placeholders := s.engine.Parse(data)
	out, stamped, err := s.engine.Stamp(data, placeholders, req.Values)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(req.OutputPath, out, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write stamped document: %w", err)
	}

	return &StampFileResult{
		Path:       req.Path,
		OutputPath: req.OutputPath,
		Stamped:    stamped,
		Remaining:  len(s.engine.Parse(out)),
		Size:       int64(len(out)),
	}, nil
}

// InspectFile reports structural information about a document, including
// both the engine's heuristic page index count and the page count from the
// conforming library so disagreements are visible.
func (s *Service) InspectFile(req InspectFileRequest) (*InspectFileResult, error) {
	data, err := s.readValidated(req.Path)
	if err != nil {
		return nil, err
	}

	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	doc := IndexDocument(data)

	return &InspectFileResult{
		Path:         req.Path,
		Size:         int64(len(data)),
		Version:      info.Version,
		Pages:        info.Pages,
		IndexedPages: doc.PageCount(),
		Streams:      len(doc.StreamIDs()),
	}, nil
}

func (s *Service) readValidated(path string) ([]byte, error) {
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
