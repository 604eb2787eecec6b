package pdf

import (
	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/pdf/errors"
)

// FileInfo represents information about an exported PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExportRequest asks for one form to be rendered. Either Form or Envelope
// must be set; Form wins when both are.
type ExportRequest struct {
	Form     forms.Form      `json:"-"`
	Envelope *forms.Envelope `json:"form,omitempty"`
	FileName string          `json:"file_name,omitempty"`
}

// BundleRequest asks for several exported documents to be merged
type BundleRequest struct {
	Paths    []string `json:"paths"`
	FileName string   `json:"file_name"`
}

// ListDocumentsRequest filters the exported documents by file name
type ListDocumentsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// DocumentRequest points at one exported document. Pages narrows
// ReadDocument to the given ranges and is ignored elsewhere.
type DocumentRequest struct {
	Path  string      `json:"path"`
	Pages []PageRange `json:"pages,omitempty"`
}

// PageRange selects pages Start through End, 1-based and inclusive. A zero
// End runs to the last page.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Response Types

// ExportResult describes a document written to the output directory
type ExportResult struct {
	Path      string     `json:"path"`
	Name      string     `json:"name"`
	Kind      forms.Kind `json:"kind"`
	Reference string     `json:"reference"`
	Pages     int        `json:"pages"`
	Size      int64      `json:"size"`
	Unsigned  []string   `json:"unsigned,omitempty"`
	Draft     bool       `json:"draft"`
	Duration  string     `json:"duration"`
}

// BatchResult holds the outcome of ExportBatch. Results keeps the order of
// the requests; failed items are nil and described in Errors.
type BatchResult struct {
	Results   []*ExportResult         `json:"results"`
	Errors    *errors.ErrorCollection `json:"errors"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
}

// ValidateFormResult is the validation report of a form that was not rendered
type ValidateFormResult struct {
	Kind      forms.Kind `json:"kind"`
	Reference string     `json:"reference"`
	Valid     bool       `json:"valid"`
	Problems  []string   `json:"problems,omitempty"`
	Unsigned  []string   `json:"unsigned,omitempty"`
}

// BundleResult describes a merged document
type BundleResult struct {
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
	Size    int64  `json:"size"`
	Sources int    `json:"sources"`
}

// ListDocumentsResult lists exported documents
type ListDocumentsResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
}

// DocumentStatsResult represents the result of a document stats operation
type DocumentStatsResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	Keywords     string `json:"keywords,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date"`

	// Properties recorded at export time
	FormKind      string `json:"form_kind,omitempty"`
	FormReference string `json:"form_reference,omitempty"`
	Company       string `json:"company,omitempty"`
	Draft         bool   `json:"draft"`
}

// ReadDocumentResult holds the plain text of an exported document
type ReadDocumentResult struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Pages   int    `json:"pages"`
	Size    int64  `json:"size"`
	Images  int    `json:"images"`

	// PagesRead lists the pages included in Content when ranges were given
	PagesRead []int `json:"pages_read,omitempty"`
}

// ValidateDocumentResult represents the result of a document validation
type ValidateDocumentResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// KindInfo describes one supported form kind
type KindInfo struct {
	Kind  forms.Kind `json:"kind"`
	Title string     `json:"title"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// InfoResult represents server information and current output directory state
type InfoResult struct {
	ServerName       string     `json:"server_name"`
	Version          string     `json:"version"`
	OutputDirectory  string     `json:"output_directory"`
	MaxFileSize      int64      `json:"max_file_size"`
	MaxSignatureSize int        `json:"max_signature_size"`
	PageSize         string     `json:"page_size"`
	Timeout          string     `json:"timeout"`
	Workers          int        `json:"workers"`
	Draft            bool       `json:"draft"`
	Kinds            []KindInfo `json:"kinds"`
	AvailableTools   []ToolInfo `json:"available_tools"`
	RecentDocuments  []FileInfo `json:"recent_documents"`
	UsageGuidance    string     `json:"usage_guidance"`
}
