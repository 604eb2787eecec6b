package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Stats reads size, page count and metadata of exported documents
type Stats struct {
	validator *Validator
}

// NewStats creates a new stats reader sharing the given validator
func NewStats(validator *Validator) *Stats {
	return &Stats{
		validator: validator,
	}
}

// GetFileStats returns detailed statistics about a single document
func (s *Stats) GetFileStats(path string) (*DocumentStatsResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := s.validator.ValidateFileInfo(path, fileInfo); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result := &DocumentStatsResult{
		Path:         path,
		Size:         fileInfo.Size(),
		Pages:        r.NumPage(),
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}

	s.extractMetadata(r, result)

	return result, nil
}

// extractMetadata copies the info dictionary into result. A malformed
// dictionary leaves the fields empty.
func (s *Stats) extractMetadata(r *pdf.Reader, result *DocumentStatsResult) {
	defer func() {
		_ = recover()
	}()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return
	}

	text := func(key string) string {
		v := info.Key(key)
		if v.IsNull() {
			return ""
		}
		return strings.TrimSpace(v.Text())
	}

	result.Title = text("Title")
	result.Author = text("Author")
	result.Subject = text("Subject")
	result.Creator = text("Creator")
	result.Producer = text("Producer")
	result.Keywords = text("Keywords")
	result.CreatedDate = text("CreationDate")
	result.FormKind = text("FormKind")
	result.FormReference = text("FormReference")
	result.Company = text("Company")
}
