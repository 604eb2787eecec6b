package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Form Tools
	FormExportDescription = `Render filled field-service forms into print-ready PDF documents.

**When to use:** A work order, maintenance checklist or site survey is complete and needs to be printed, archived or sent to the customer.

**Why it's useful:** Wraps long answers, draws dotted answer blanks, paginates with a repeated header and "Page n of N" footer, and embeds the captured signatures in fixed boxes.

**Examples:**
• Close a job: "Export the work order WO-1042 for Acme Cold Storage"
• End of a route: "Export all maintenance checklists filled today in one batch"
• Named output: "Export the Northwind survey as survey-northwind.pdf"

**Common workflows:**
1. Single job: form_validate → fix problems → form_export → document_read to preview
2. Batch: pass an array of forms → check the per-item results → retry failed items
3. Visit pack: export each form → document_bundle into one file

**Best practices:** Validate first. Missing signatures still export, but are listed in "unsigned" and may be stamped DRAFT.`

	FormValidateDescription = `Check a form for missing fields, bad dates and broken signatures without rendering it.

**When to use:** Before exporting, or while a form is being filled in, to find out what still needs attention.

**Why it's useful:** Reports every problem at once with the dotted path of the field, so each one can be fixed with form_set_field.

**Examples:**
• Pre-flight: "Is work order WO-1042 ready to export?"
• Signature check: "Does the customer signature on PM-88 decode?"

**Common workflows:**
1. form_validate → form_set_field for each problem → form_validate → form_export

**Best practices:** Treat "unsigned" as information, not an error: a form can be exported before the customer signs.`

	FormBlankDescription = `Get an empty form of a given kind, ready to be filled in.

**When to use:** Starting a new work order, maintenance checklist or site survey.

**Why it's useful:** Returns the full nested structure with every field present. Maintenance checklists come pre-filled with the standard inspection items.

**Examples:**
• "Start a new work order"
• "Give me a blank maintenance checklist with the default items"

**Common workflows:**
1. form_blank → form_set_field repeatedly → form_validate → form_export

**Best practices:** Keep the returned envelope and pass it back to form_set_field unchanged apart from your edits.`

	FormSetFieldDescription = `Set or remove one field of a form by its dotted path.

**When to use:** Filling a form step by step, the way a form screen edits one input at a time.

**Why it's useful:** Creates missing objects and list entries along the path, so nested answers such as materials.2.quantity can be written directly.

**Examples:**
• "Set client.name to Acme Cold Storage"
• "Mark sections.1.items.0.status as nok"
• "Remove materials.3"

**Common workflows:**
1. form_blank → form_set_field per answer → form_export

**Best practices:** List indexes must exist or be exactly the list length (which appends). Omit the value to remove a field.`

	// Document Tools
	DocumentListDescription = `Find exported documents in the output directory.

**When to use:** Locating a previously exported form, or checking what was produced today.

**Why it's useful:** Lists the most recent documents first and supports fuzzy file name search by kind, reference or custom name.

**Examples:**
• "List the last 10 exported documents"
• "Find the documents for WO-1042"

**Common workflows:**
1. document_list → document_read to preview → document_bundle to merge

**Best practices:** File names follow <kind>-<reference>-<id>.pdf, so searching by reference is usually enough.`

	DocumentStatsDescription = `Get size, page count and properties of an exported document.

**When to use:** Checking an export before sending it, or cataloging documents.

**Why it's useful:** Reports the form kind, reference and company recorded in the PDF at export time together with the standard metadata.

**Examples:**
• "How many pages is the PM-88 checklist?"
• "Which form produced bundle-visit.pdf?"

**Best practices:** Pass a file name from document_list; paths outside the output directory are refused.`

	DocumentReadDescription = `Extract the plain text of an exported document for preview.

**When to use:** Checking what was printed without opening a PDF viewer.

**Why it's useful:** Returns the text page by page and counts the embedded signature images. A page range limits long checklists to the pages of interest.

**Examples:**
• "Show me what the exported WO-1042 says"
• "Did the customer signature make it into the survey PDF?"
• "Read only page 2 of the PM-88 checklist"

**Best practices:** Text layout is approximate; use it to check content, not appearance.`

	DocumentValidateDescription = `Verify that an exported document is a structurally valid PDF.

**When to use:** Before sending or archiving a document, especially after bundling.

**Why it's useful:** Runs a full structural validation and reports the page count.

**Examples:**
• "Validate visit-2024-03-18.pdf before emailing it"

**Best practices:** An invalid document is reported in the result, not as a tool error.`

	DocumentBundleDescription = `Merge several exported documents into one PDF.

**When to use:** Sending all the paperwork of a visit or a day as a single file.

**Why it's useful:** Keeps the given order and writes the merged file next to its sources.

**Examples:**
• "Bundle the work order and the checklist from today's Acme visit"

**Common workflows:**
1. document_list → pick documents → document_bundle → document_validate

**Best practices:** Choose a descriptive file_name; the bundle cannot overwrite one of its sources.`

	ServerInfoDescription = `Get server configuration, supported form kinds and recent documents.

**When to use:** First call of a session, to learn where documents go and which limits apply.

**Why it's useful:** Shows the output directory, page size, export timeout, signature size limit, draft setting and a usage guide.

**Best practices:** Call once at the start; recent documents are limited to the latest few.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"form_export":       FormExportDescription,
	"form_validate":     FormValidateDescription,
	"form_blank":        FormBlankDescription,
	"form_set_field":    FormSetFieldDescription,
	"document_list":     DocumentListDescription,
	"document_stats":    DocumentStatsDescription,
	"document_read":     DocumentReadDescription,
	"document_validate": DocumentValidateDescription,
	"document_bundle":   DocumentBundleDescription,
	"server_info":       ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
