package pdf

import (
	"fmt"
	"os"
	"strings"
)

// Validator handles exported document validation
type Validator struct {
	maxFileSize int64
	post        *PostProcessor
}

// NewValidator creates a new document validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		post:        NewPostProcessor(""),
	}
}

// ValidateFile checks that path is a readable, structurally valid PDF.
// An invalid document is reported in the result, not as an error.
func (v *Validator) ValidateFile(path string) (*ValidateDocumentResult, error) {
	result := &ValidateDocumentResult{
		Path:  path,
		Valid: false,
	}

	pages, err := v.validatePDFFile(path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Pages = pages
	return result, nil
}

// validatePDFFile performs detailed validation on a PDF file
func (v *Validator) validatePDFFile(filePath string) (int, error) {
	if filePath == "" {
		return 0, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return 0, fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return 0, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return 0, err
	}

	if err := v.post.Validate(filePath); err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}

	pages, err := v.post.PageCount(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return pages, nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	_, err := v.validatePDFFile(filePath)
	return err == nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	return checkFileInfo(filePath, fileInfo, v.maxFileSize)
}

// checkFileInfo rejects directories, non-PDF names, empty files and files
// over maxFileSize
func checkFileInfo(filePath string, fileInfo os.FileInfo, maxFileSize int64) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	return nil
}
