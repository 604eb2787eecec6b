package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/fieldforms/internal/forms"
)

// draftWatermark is the pdfcpu description of the DRAFT stamp
const draftWatermark = "font:Helvetica, scale:0.6, rot:45, op:0.18, fillcolor:#B00000"

// PostProcessor finishes rendered documents with pdfcpu
type PostProcessor struct {
	company string
}

// NewPostProcessor creates a post-processor that records company as the
// issuing organisation
func NewPostProcessor(company string) *PostProcessor {
	return &PostProcessor{company: company}
}

func (p *PostProcessor) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Finish validates the document at path, records the form properties in its
// info dictionary and stamps it as a draft when asked. The file is rewritten
// in place.
func (p *PostProcessor) Finish(path string, form forms.Form, draft bool) error {
	if err := api.ValidateFile(path, p.config()); err != nil {
		return fmt.Errorf("invalid PDF produced: %w", err)
	}

	props := map[string]string{
		"FormKind":      string(form.Kind()),
		"FormReference": form.Reference(),
	}
	if p.company != "" {
		props["Company"] = p.company
	}
	if err := api.AddPropertiesFile(path, "", props, p.config()); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if draft {
		if err := api.AddTextWatermarksFile(path, "", nil, true, "DRAFT", draftWatermark, p.config()); err != nil {
			return fmt.Errorf("failed to stamp draft watermark: %w", err)
		}
	}
	return nil
}

// HasWatermark reports whether the document at path carries a watermark
func (p *PostProcessor) HasWatermark(path string) (bool, error) {
	return api.HasWatermarksFile(path, p.config())
}

// Validate runs the pdfcpu structural validation on path
func (p *PostProcessor) Validate(path string) error {
	return api.ValidateFile(path, p.config())
}

// PageCount returns the number of pages of the document at path
func (p *PostProcessor) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return api.PageCount(f, p.config())
}

// Merge concatenates the documents in paths into out
func (p *PostProcessor) Merge(paths []string, out string) error {
	return api.MergeCreateFile(paths, out, false, p.config())
}
