package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/a3tai/fieldforms/internal/forms"
)

// Result describes a rendered document
type Result struct {
	Kind      forms.Kind
	Reference string
	Pages     int
	Unsigned  []string
}

// Render dispatches to the template for the form's kind and writes the PDF to w
func Render(w io.Writer, form forms.Form, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	captions := SignatureCaptions(form.Kind())
	sigs := form.Signatures()
	result := &Result{Kind: form.Kind(), Reference: form.Reference()}
	for i, s := range sigs {
		captured, err := Captured(opts.Decoder, s)
		if err != nil {
			return nil, fmt.Errorf("%w (%s): %v", ErrSignature, captions[i], err)
		}
		if !captured {
			result.Unsigned = append(result.Unsigned, captions[i])
		}
	}
	opts.Draft = opts.Draft && len(result.Unsigned) > 0

	var (
		c   *Canvas
		err error
	)
	switch f := form.(type) {
	case *forms.WorkOrder:
		c, err = WorkOrder(f, opts)
	case *forms.MaintenanceChecklist:
		c, err = Maintenance(f, opts)
	case *forms.SiteSurvey:
		c, err = Survey(f, opts)
	default:
		return nil, fmt.Errorf("no template for form kind %q", form.Kind())
	}
	if err != nil {
		return nil, err
	}

	if err := c.Output(w); err != nil {
		return nil, err
	}
	result.Pages = c.PageCount()
	return result, nil
}

// RenderFile renders form into a new file at path
func RenderFile(path string, form forms.Form, opts Options) (*Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	result, err := Render(f, form, opts)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return result, nil
}

// SignatureCaptions names the signature boxes of a kind, in the order of
// Form.Signatures
func SignatureCaptions(kind forms.Kind) []string {
	if kind == forms.KindSurvey {
		return []string{"Surveyor", "Customer"}
	}
	return []string{"Technician", "Customer"}
}

func clientFields(c *Canvas, client forms.Party) {
	c.Heading("Client")
	c.Fields(Field{Label: "Name", Value: client.Name})
	c.Fields(
		Field{Label: "Address", Value: client.Address, Weight: 2},
		Field{Label: "City", Value: client.City, Weight: 1},
	)
	c.Fields(
		Field{Label: "Contact", Value: client.Contact},
		Field{Label: "Phone", Value: client.Phone},
		Field{Label: "Email", Value: client.Email},
	)
}

func equipmentFields(c *Canvas, eq forms.Equipment) {
	c.Heading("Equipment")
	c.Fields(
		Field{Label: "Type", Value: eq.Type},
		Field{Label: "Brand", Value: eq.Brand},
		Field{Label: "Model", Value: eq.Model},
	)
	c.Fields(
		Field{Label: "Serial no.", Value: eq.Serial},
		Field{Label: "Location", Value: eq.Location, Weight: 2},
	)
}

// WorkOrder lays out a work order document
func WorkOrder(wo *forms.WorkOrder, opts Options) (*Canvas, error) {
	c, err := NewCanvas(opts, header{title: wo.Title(), reference: wo.Number, date: wo.Date})
	if err != nil {
		return nil, err
	}

	clientFields(c, wo.Client)
	c.Fields(
		Field{Label: "Site", Value: wo.Site, Weight: 2},
		Field{Label: "Priority", Value: wo.Priority, Weight: 1},
	)
	equipmentFields(c, wo.Equipment)

	c.Heading("Problem reported")
	c.Paragraph("", wo.ProblemReported, 3)

	c.Heading("Work performed")
	c.Paragraph("", wo.WorkPerformed, 4)

	c.Heading("Materials")
	materials := make([][]string, len(wo.Materials))
	for i, m := range wo.Materials {
		materials[i] = []string{m.Description, number(m.Quantity), m.Unit}
	}
	c.Table([]Column{
		{Header: "Description", Weight: 6},
		{Header: "Qty", Weight: 1.2, Align: "R"},
		{Header: "Unit", Weight: 1.2, Align: "C"},
	}, materials)

	c.Heading("Labour")
	labor := make([][]string, 0, len(wo.Labor)+1)
	for _, l := range wo.Labor {
		labor = append(labor, []string{l.Technician, l.Date, number(l.Hours)})
	}
	if len(wo.Labor) > 0 {
		labor = append(labor, []string{"Total", "", number(wo.TotalHours())})
	}
	c.Table([]Column{
		{Header: "Technician", Weight: 4},
		{Header: "Date", Weight: 2, Align: "C"},
		{Header: "Hours", Weight: 1.2, Align: "R"},
	}, labor)

	c.Heading("Observations")
	c.Paragraph("", wo.Observations, 2)

	if err := c.Signatures(
		labelledSignature{caption: "Technician", sig: wo.Technician},
		labelledSignature{caption: "Customer", sig: wo.Customer},
	); err != nil {
		return nil, err
	}
	return c, nil
}

// statusMark returns the cells of the OK / NOK / N/A columns
func statusMark(status string) (ok, nok, na string) {
	switch status {
	case forms.StatusOK:
		return "X", "", ""
	case forms.StatusNOK:
		return "", "X", ""
	case forms.StatusNA:
		return "", "", "X"
	default:
		return "", "", ""
	}
}

// Maintenance lays out a routine maintenance checklist
func Maintenance(mc *forms.MaintenanceChecklist, opts Options) (*Canvas, error) {
	c, err := NewCanvas(opts, header{title: mc.Title(), reference: mc.Number, date: mc.Date})
	if err != nil {
		return nil, err
	}

	clientFields(c, mc.Client)
	equipmentFields(c, mc.Equipment)
	c.Fields(
		Field{Label: "Period", Value: mc.Period},
		Field{Label: "Next visit", Value: mc.NextVisit},
	)

	columns := []Column{
		{Header: "Item", Weight: 6},
		{Header: "OK", Weight: 0.8, Align: "C"},
		{Header: "NOK", Weight: 0.8, Align: "C"},
		{Header: "N/A", Weight: 0.8, Align: "C"},
		{Header: "Remark", Weight: 4},
	}
	for _, section := range mc.Sections {
		c.Heading(section.Title)
		rows := make([][]string, len(section.Items))
		for i, item := range section.Items {
			ok, nok, na := statusMark(item.Status)
			rows[i] = []string{item.Label, ok, nok, na, item.Remark}
		}
		c.Table(columns, rows)
	}

	counts := mc.Counts()
	c.Spacer(2)
	c.Fields(Field{
		Label: "Summary",
		Value: fmt.Sprintf("%d OK, %d not OK, %d not applicable, %d unchecked",
			counts[forms.StatusOK], counts[forms.StatusNOK], counts[forms.StatusNA], counts[forms.StatusBlank]),
	})

	c.Heading("Observations")
	c.Paragraph("", mc.Observations, 3)

	if err := c.Signatures(
		labelledSignature{caption: "Technician", sig: mc.Technician},
		labelledSignature{caption: "Customer", sig: mc.Customer},
	); err != nil {
		return nil, err
	}
	return c, nil
}

// Survey lays out a site survey report
func Survey(sv *forms.SiteSurvey, opts Options) (*Canvas, error) {
	c, err := NewCanvas(opts, header{title: sv.Title(), reference: sv.Number, date: sv.Date})
	if err != nil {
		return nil, err
	}

	clientFields(c, sv.Client)
	c.Fields(Field{Label: "Site", Value: sv.Site})

	for _, section := range sv.Sections {
		c.Heading(section.Title)
		for i, q := range section.Questions {
			prompt := fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(q.Prompt))
			c.Paragraph(prompt, q.Answer, 1)
		}
	}

	if len(sv.Measurements) > 0 {
		c.Heading("Measurements")
		rows := make([][]string, len(sv.Measurements))
		for i, m := range sv.Measurements {
			rows[i] = []string{m.Label, m.Value, m.Unit}
		}
		c.Table([]Column{
			{Header: "Measurement", Weight: 5},
			{Header: "Value", Weight: 2, Align: "R"},
			{Header: "Unit", Weight: 1.2, Align: "C"},
		}, rows)
	}

	c.Heading("Conclusion")
	c.Paragraph("", sv.Conclusion, 4)

	if err := c.Signatures(
		labelledSignature{caption: "Surveyor", sig: sv.Surveyor},
		labelledSignature{caption: "Customer", sig: sv.Customer},
	); err != nil {
		return nil, err
	}
	return c, nil
}
