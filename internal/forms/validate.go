package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format used by every form field
const DateLayout = "2006-01-02"

// ValidationError aggregates every problem found in a form
type ValidationError struct {
	Kind     Kind
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(e.Problems, "; "))
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type problems struct {
	kind Kind
	list []string
}

func (p *problems) addf(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		p.addf("%s is required", field)
	}
}

func (p *problems) date(field, value string, required bool) {
	if value == "" {
		if required {
			p.addf("%s is required", field)
		}
		return
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		p.addf("%s must be a YYYY-MM-DD date, got %q", field, value)
	}
}

func (p *problems) err() error {
	if len(p.list) == 0 {
		return nil
	}
	return &ValidationError{Kind: p.kind, Problems: p.list}
}

// Validate checks required fields and value ranges of a work order
func (w *WorkOrder) Validate() error {
	p := &problems{kind: KindWorkOrder}
	p.required("number", w.Number)
	p.date("date", w.Date, true)
	p.required("client.name", w.Client.Name)
	for i, m := range w.Materials {
		p.required(fmt.Sprintf("materials.%d.description", i), m.Description)
		if m.Quantity < 0 {
			p.addf("materials.%d.quantity cannot be negative", i)
		}
	}
	for i, l := range w.Labor {
		p.required(fmt.Sprintf("labor.%d.technician", i), l.Technician)
		p.date(fmt.Sprintf("labor.%d.date", i), l.Date, false)
		if l.Hours < 0 {
			p.addf("labor.%d.hours cannot be negative", i)
		}
	}
	p.date("technician.signed_at", w.Technician.SignedAt, false)
	p.date("customer.signed_at", w.Customer.SignedAt, false)
	return p.err()
}

// Validate checks required fields and item statuses of a checklist
func (m *MaintenanceChecklist) Validate() error {
	p := &problems{kind: KindMaintenance}
	p.required("number", m.Number)
	p.date("date", m.Date, true)
	p.required("client.name", m.Client.Name)
	p.date("next_visit", m.NextVisit, false)
	if len(m.Sections) == 0 {
		p.addf("at least one checklist section is required")
	}
	for i, section := range m.Sections {
		p.required(fmt.Sprintf("sections.%d.title", i), section.Title)
		for j, item := range section.Items {
			p.required(fmt.Sprintf("sections.%d.items.%d.label", i, j), item.Label)
			switch item.Status {
			case StatusOK, StatusNOK, StatusNA, StatusBlank:
			default:
				p.addf("sections.%d.items.%d.status must be one of ok, nok, na (got %q)", i, j, item.Status)
			}
		}
	}
	p.date("technician.signed_at", m.Technician.SignedAt, false)
	p.date("customer.signed_at", m.Customer.SignedAt, false)
	return p.err()
}

// Validate checks required fields of a site survey
func (s *SiteSurvey) Validate() error {
	p := &problems{kind: KindSurvey}
	p.required("number", s.Number)
	p.date("date", s.Date, true)
	p.required("client.name", s.Client.Name)
	for i, section := range s.Sections {
		p.required(fmt.Sprintf("sections.%d.title", i), section.Title)
		for j, q := range section.Questions {
			p.required(fmt.Sprintf("sections.%d.questions.%d.prompt", i, j), q.Prompt)
		}
	}
	for i, m := range s.Measurements {
		p.required(fmt.Sprintf("measurements.%d.label", i), m.Label)
	}
	p.date("surveyor.signed_at", s.Surveyor.SignedAt, false)
	p.date("customer.signed_at", s.Customer.SignedAt, false)
	return p.err()
}
