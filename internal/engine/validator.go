package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validator performs cheap file-level checks before a document is handed to
// the engine proper.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the specified size cap.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile checks that a path points at a readable, size-bounded PDF.
func (v *Validator) ValidateFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("no input path supplied")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("no such file: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("expected a file, got a directory: %s", filePath)
	}
	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("not a .pdf file: %s", filePath)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("empty file: %s", filePath)
	}
	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file exceeds size cap: %d > %d bytes",
			fileInfo.Size(), v.maxFileSize)
	}

	// Opening with a lightweight reader catches gross corruption before the
	// pattern-based engine runs.
	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("unreadable as PDF: %w", err)
	}
	defer f.Close()

	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF.
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.ValidateFile(filePath) == nil
}
