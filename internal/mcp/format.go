package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/fieldforms/internal/pdf"
)

// recentShown caps the documents listed by server_info
const recentShown = 10

func formatExportResult(result *pdf.ExportResult) string {
	text := fmt.Sprintf("Exported %s %s\n", result.Kind, orDash(result.Reference))
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Rendered in: %s\n", result.Duration)
	if len(result.Unsigned) > 0 {
		text += fmt.Sprintf("Unsigned: %s\n", strings.Join(result.Unsigned, ", "))
	}
	if result.Draft {
		text += "Stamped DRAFT until all signatures are captured\n"
	}
	return text
}

func formatBatchResult(result *pdf.BatchResult) string {
	text := fmt.Sprintf("Batch export: %d succeeded, %d failed\n", result.Succeeded, result.Failed)

	for i, r := range result.Results {
		if r == nil {
			continue
		}
		text += fmt.Sprintf("%d. %s (%d pages)", i+1, r.Name, r.Pages)
		if len(r.Unsigned) > 0 {
			text += fmt.Sprintf(", unsigned: %s", strings.Join(r.Unsigned, ", "))
		}
		text += "\n"
	}

	if result.Errors != nil && !result.Errors.Empty() {
		text += "\n" + result.Errors.Summary() + ":\n"
		for _, e := range result.Errors.Errors {
			text += fmt.Sprintf("  ✗ %s\n", e.Error())
		}
		for _, e := range result.Errors.Warnings {
			text += fmt.Sprintf("  ⚠ %s\n", e.Error())
		}
	}
	return text
}

func formatValidateFormResult(result *pdf.ValidateFormResult) string {
	var text string
	if result.Valid {
		text = fmt.Sprintf("%s %s is ready to export\n", result.Kind, orDash(result.Reference))
	} else {
		text = fmt.Sprintf("%s %s has %d problem(s):\n", result.Kind, orDash(result.Reference), len(result.Problems))
		for _, p := range result.Problems {
			text += fmt.Sprintf("  - %s\n", p)
		}
	}
	if len(result.Unsigned) > 0 {
		text += fmt.Sprintf("Unsigned: %s\n", strings.Join(result.Unsigned, ", "))
	}
	return text
}

func formatListDocumentsResult(result *pdf.ListDocumentsResult) string {
	text := fmt.Sprintf("Found %d document(s) in: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	if len(result.Files) < result.TotalCount {
		text += fmt.Sprintf("Showing the %d most recent\n", len(result.Files))
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}
	return text
}

func formatDocumentStatsResult(result *pdf.DocumentStatsResult) string {
	text := "Document Statistics\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	fields := []struct{ label, value string }{
		{"Form kind", result.FormKind},
		{"Form reference", result.FormReference},
		{"Company", result.Company},
		{"Title", result.Title},
		{"Author", result.Author},
		{"Subject", result.Subject},
		{"Keywords", result.Keywords},
		{"Creator", result.Creator},
		{"Producer", result.Producer},
		{"Created", result.CreatedDate},
	}
	for _, f := range fields {
		if f.value != "" {
			text += fmt.Sprintf("%s: %s\n", f.label, f.value)
		}
	}
	if result.Draft {
		text += "Draft: watermarked, signatures missing\n"
	}
	return text
}

func formatInfoResult(result *pdf.InfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Output Directory: %s\n", result.OutputDirectory)
	text += fmt.Sprintf("📄 Page Size: %s\n", result.PageSize)
	text += fmt.Sprintf("⏱️  Export Timeout: %s, %d batch worker(s)\n", result.Timeout, result.Workers)
	text += fmt.Sprintf("✍️  Max Signature Size: %d KB\n", result.MaxSignatureSize/1024)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🏷️  Draft Watermark: %t\n\n", result.Draft)

	text += "🧾 Form Kinds:\n"
	for _, k := range result.Kinds {
		text += fmt.Sprintf("  • %s (%s)\n", k.Kind, k.Title)
	}
	text += "\n"

	if len(result.RecentDocuments) > 0 {
		text += fmt.Sprintf("📂 Recent Documents (%d):\n", len(result.RecentDocuments))
		for i, file := range result.RecentDocuments {
			if i >= recentShown {
				text += fmt.Sprintf("   ... and %d more\n", len(result.RecentDocuments)-recentShown)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Recent Documents: none exported yet\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
