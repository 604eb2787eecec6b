package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/fieldforms/internal/pdf/security"
)

// Search discovers exported documents in the output directory
type Search struct {
	validator     *Validator
	pathValidator *security.PathValidator
}

// NewSearch creates a new document search over the validated directory
func NewSearch(validator *Validator, pathValidator *security.PathValidator) *Search {
	return &Search{
		validator:     validator,
		pathValidator: pathValidator,
	}
}

// List walks the output directory for PDFs matching the query, most
// recently modified first. Hidden files, such as exports still in progress,
// are skipped.
func (s *Search) List(req ListDocumentsRequest) (*ListDocumentsResult, error) {
	directory := s.pathValidator.GetConfiguredDirectory()
	if _, err := os.Stat(directory); err != nil {
		return nil, fmt.Errorf("output directory unavailable: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	type found struct {
		info    FileInfo
		modTime int64
	}
	var files []found

	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != directory {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if within, err := s.pathValidator.IsPathWithinDirectory(path); err != nil || !within {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !isPDFFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}

		if query != "" && !matchesQuery(d.Name(), query) {
			return nil
		}

		files = append(files, found{
			info: FileInfo{
				Path:         path,
				Name:         info.Name(),
				Size:         info.Size(),
				ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
			},
			modTime: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime > files[j].modTime
		}
		return files[i].info.Name < files[j].info.Name
	})

	total := len(files)
	if req.Limit > 0 && len(files) > req.Limit {
		files = files[:req.Limit]
	}

	result := &ListDocumentsResult{
		Files:      make([]FileInfo, len(files)),
		TotalCount: total,
		Directory:  directory,
		Query:      req.Query,
	}
	for i, f := range files {
		result.Files[i] = f.info
	}
	return result, nil
}

// isPDFFile checks if a file has a PDF extension
func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// matchesQuery performs fuzzy matching on the filename. Every word of the
// query must appear inside some word of the name.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	fileName := strings.ToLower(filename)
	if strings.Contains(fileName, query) {
		return true
	}

	words := splitIntoWords(strings.TrimSuffix(fileName, ".pdf"))
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// splitIntoWords splits a string into lower-case words on common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}
