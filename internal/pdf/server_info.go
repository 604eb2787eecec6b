package pdf

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/fieldforms/internal/descriptions"
	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/layout"
)

// Limits for the directory scan done by Info
const (
	recentDocuments = 20
	infoScanTimeout = 5 * time.Second
)

// Info returns the service configuration, the supported form kinds and the
// most recent documents in the output directory. A slow or failing
// directory scan leaves the document list empty instead of failing.
func (s *Service) Info(ctx context.Context, serverName, version string) (*InfoResult, error) {
	recent, err := withTimeout(ctx, infoScanTimeout, func() ([]FileInfo, error) {
		list, err := s.search.List(ListDocumentsRequest{Limit: recentDocuments})
		if err != nil {
			return nil, err
		}
		return list.Files, nil
	})
	if err != nil {
		s.logger.Warn("output directory scan failed", zap.Error(err))
		recent = []FileInfo{}
	}

	kinds := make([]KindInfo, 0, len(forms.Kinds()))
	for _, k := range forms.Kinds() {
		kinds = append(kinds, KindInfo{Kind: k, Title: k.Label()})
	}

	pageSize := s.opts.PageSize
	if pageSize == "" {
		pageSize = layout.SizeA4
	}

	return &InfoResult{
		ServerName:       serverName,
		Version:          version,
		OutputDirectory:  s.OutputDirectory(),
		MaxFileSize:      s.opts.MaxFileSize,
		MaxSignatureSize: s.opts.MaxSignatureSize,
		PageSize:         pageSize,
		Timeout:          s.opts.Timeout.String(),
		Workers:          s.opts.Workers,
		Draft:            s.opts.Draft,
		Kinds:            kinds,
		AvailableTools:   availableTools(),
		RecentDocuments:  recent,
		UsageGuidance:    s.usageGuidance(),
	}, nil
}

// availableTools returns the list of available tools
func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "form_export",
			Description: descriptions.GetToolDescription("form_export"),
			Usage:       "Render one or more filled forms into PDFs in the output directory.",
			Parameters: "form (required): JSON envelope {\"kind\": ..., \"data\": {...}} or a JSON array of envelopes, " +
				"file_name (optional): output file name for a single form",
		},
		{
			Name:        "form_validate",
			Description: descriptions.GetToolDescription("form_validate"),
			Usage:       "Check a form and its signatures without rendering it.",
			Parameters:  "form (required): JSON envelope",
		},
		{
			Name:        "form_blank",
			Description: descriptions.GetToolDescription("form_blank"),
			Usage:       "Get an empty form of a kind to fill in.",
			Parameters:  "kind (required): work_order, maintenance or survey",
		},
		{
			Name:        "form_set_field",
			Description: descriptions.GetToolDescription("form_set_field"),
			Usage:       "Set or remove one field of a form by its dotted path and get the updated form back.",
			Parameters: "form (required): JSON envelope, path (required): dotted field path such as client.name or materials.0.quantity, " +
				"value (optional): JSON value, omit to remove the field",
		},
		{
			Name:        "document_list",
			Description: descriptions.GetToolDescription("document_list"),
			Usage:       "Find exported documents, most recent first, with fuzzy file name search.",
			Parameters:  "query (optional): search words, limit (optional): maximum number of results",
		},
		{
			Name:        "document_stats",
			Description: descriptions.GetToolDescription("document_stats"),
			Usage:       "Get size, page count and the properties recorded at export time.",
			Parameters:  "path (required): file name or path inside the output directory",
		},
		{
			Name:        "document_read",
			Description: descriptions.GetToolDescription("document_read"),
			Usage:       "Get the plain text of an exported document to preview it.",
			Parameters: "path (required): file name or path inside the output directory, " +
				"first_page, last_page (optional): page range to read",
		},
		{
			Name:        "document_validate",
			Description: descriptions.GetToolDescription("document_validate"),
			Usage:       "Check that an exported document is a structurally valid PDF.",
			Parameters:  "path (required): file name or path inside the output directory",
		},
		{
			Name:        "document_bundle",
			Description: descriptions.GetToolDescription("document_bundle"),
			Usage:       "Merge several exported documents into one PDF.",
			Parameters:  "paths (required): JSON array of file names, file_name (optional): name of the merged file",
		},
		{
			Name:        "server_info",
			Description: descriptions.GetToolDescription("server_info"),
			Usage:       "Get the server configuration, the form kinds and the recent documents.",
			Parameters:  "No parameters required",
		},
	}
}

// usageGuidance returns the workflow description shown to clients
func (s *Service) usageGuidance() string {
	return fmt.Sprintf(`Field Forms Server Usage Guide:

1. START A FORM:
   - Use 'form_blank' to get an empty work_order, maintenance or survey form
   - Use 'form_set_field' to fill it one field at a time

2. CHECK IT:
   - Use 'form_validate' to list missing fields, bad dates and broken signatures
   - Missing signatures are allowed; they print as empty dotted blanks

3. EXPORT:
   - Use 'form_export' with one form, or an array of forms for a batch
   - Files are named <kind>-<reference>-<id>.pdf unless file_name is given
   - Unsigned documents are stamped DRAFT when the server runs with draft enabled

4. REVIEW AND SHARE:
   - Use 'document_list' to find exported documents
   - Use 'document_read' to preview the text, 'document_stats' for properties
   - Use 'document_bundle' to merge the documents of a visit into one file

IMPORTANT NOTES:
- All documents live in %s
- Signatures are base64 PNG or JPEG images up to %d bytes
- Exports are cut off after %s`, s.OutputDirectory(), s.opts.MaxSignatureSize, s.opts.Timeout)
}
