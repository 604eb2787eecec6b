package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageBreak separates pages in extracted text
const pageBreak = "\n\n--- Page Break ---\n\n"

// Reader extracts text from exported documents for preview
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadFile extracts the text content of the document at path. With ranges,
// only the pages they select are read.
func (r *Reader) ReadFile(path string, ranges ...PageRange) (*ReadDocumentResult, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := checkFileInfo(path, fileInfo, r.maxFileSize); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := selectPages(pdfReader.NumPage(), ranges)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages selected (document has %d)", pdfReader.NumPage())
	}

	content, err := r.extractTextContent(pdfReader, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	result := &ReadDocumentResult{
		Path:    path,
		Content: content,
		Pages:   pdfReader.NumPage(),
		Size:    fileInfo.Size(),
		Images:  r.countImages(pdfReader),
	}
	if len(ranges) > 0 {
		result.PagesRead = pages
	}
	return result, nil
}

// selectPages turns ranges into an ascending list of page numbers. Bounds
// are clamped to the document and inverted ranges are skipped; no ranges
// selects every page.
func selectPages(total int, ranges []PageRange) []int {
	if len(ranges) == 0 {
		ranges = []PageRange{{Start: 1, End: total}}
	}

	selected := make(map[int]bool)
	for _, r := range ranges {
		start, end := max(r.Start, 1), r.End
		if end == 0 || end > total {
			end = total
		}
		for p := start; p <= end; p++ {
			selected[p] = true
		}
	}

	pages := make([]int, 0, len(selected))
	for p := 1; p <= total; p++ {
		if selected[p] {
			pages = append(pages, p)
		}
	}
	return pages
}

// extractTextContent extracts text content from a PDF reader
func (r *Reader) extractTextContent(pdfReader *pdf.Reader, pages []int) (string, error) {
	var builder strings.Builder
	totalLength := 0

	for i, pageNum := range pages {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			if remaining := r.maxTextSize - totalLength; remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		totalLength += len(content)

		if i < len(pages)-1 {
			builder.WriteString(pageBreak)
		}
	}

	text := builder.String()
	if strings.TrimSpace(strings.ReplaceAll(text, strings.TrimSpace(pageBreak), "")) == "" {
		return "", fmt.Errorf("no text content could be extracted from PDF")
	}
	return text, nil
}

// countImages counts image XObjects over all pages. Embedded signatures are
// the only images a rendered form carries.
func (r *Reader) countImages(pdfReader *pdf.Reader) int {
	total := 0
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		total += r.countImagesOnPage(pdfReader, pageNum)
	}
	return total
}

// countImagesOnPage counts images on a specific page
func (r *Reader) countImagesOnPage(pdfReader *pdf.Reader, pageNum int) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return 0
	}

	xObjects := page.Resources().Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	for _, key := range xObjects.Keys() {
		if xObjects.Key(key).Key("Subtype").Name() == "Image" {
			count++
		}
	}
	return count
}
