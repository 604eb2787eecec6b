package forms

// Kind identifies a document type
type Kind string

const (
	KindWorkOrder   Kind = "work_order"
	KindMaintenance Kind = "maintenance"
	KindSurvey      Kind = "survey"
)

// Kinds returns every supported document kind
func Kinds() []Kind {
	return []Kind{KindWorkOrder, KindMaintenance, KindSurvey}
}

// Valid reports whether k is a supported kind
func (k Kind) Valid() bool {
	switch k {
	case KindWorkOrder, KindMaintenance, KindSurvey:
		return true
	default:
		return false
	}
}

// Label returns the printed document title for the kind
func (k Kind) Label() string {
	switch k {
	case KindWorkOrder:
		return "Work Order"
	case KindMaintenance:
		return "Routine Maintenance Checklist"
	case KindSurvey:
		return "Site Survey"
	default:
		return string(k)
	}
}

// Check item statuses
const (
	StatusOK    = "ok"
	StatusNOK   = "nok"
	StatusNA    = "na"
	StatusBlank = ""
)

// Form is implemented by every typed document
type Form interface {
	Kind() Kind
	Title() string
	Reference() string
	Validate() error
	Signatures() []Signature
}

// Party is a client or customer block
type Party struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Equipment describes the serviced unit
type Equipment struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Brand    string `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Serial   string `json:"serial,omitempty" yaml:"serial,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Signature is a captured handwritten signature.
// Image holds raw base64 or a data URL as produced by the capture canvas.
type Signature struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
	Image    string `json:"image,omitempty" yaml:"image,omitempty"`
	SignedAt string `json:"signed_at,omitempty" yaml:"signed_at,omitempty"`
}

// Signed reports whether an image was captured
func (s Signature) Signed() bool {
	return s.Image != ""
}

// Material is a line of the materials table
type Material struct {
	Description string  `json:"description" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	Unit        string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// LaborEntry records technician time
type LaborEntry struct {
	Technician string  `json:"technician" yaml:"technician"`
	Date       string  `json:"date,omitempty" yaml:"date,omitempty"`
	Hours      float64 `json:"hours" yaml:"hours"`
}

// WorkOrder is a corrective or on-demand service job
type WorkOrder struct {
	Number          string       `json:"number" yaml:"number"`
	Date            string       `json:"date" yaml:"date"`
	Client          Party        `json:"client" yaml:"client"`
	Site            string       `json:"site,omitempty" yaml:"site,omitempty"`
	Equipment       Equipment    `json:"equipment" yaml:"equipment"`
	Priority        string       `json:"priority,omitempty" yaml:"priority,omitempty"`
	ProblemReported string       `json:"problem_reported,omitempty" yaml:"problem_reported,omitempty"`
	WorkPerformed   string       `json:"work_performed,omitempty" yaml:"work_performed,omitempty"`
	Materials       []Material   `json:"materials,omitempty" yaml:"materials,omitempty"`
	Labor           []LaborEntry `json:"labor,omitempty" yaml:"labor,omitempty"`
	Observations    string       `json:"observations,omitempty" yaml:"observations,omitempty"`
	Technician      Signature    `json:"technician" yaml:"technician"`
	Customer        Signature    `json:"customer" yaml:"customer"`
}

// CheckItem is one line of a maintenance checklist
type CheckItem struct {
	Label  string `json:"label" yaml:"label"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Remark string `json:"remark,omitempty" yaml:"remark,omitempty"`
}

// ChecklistSection groups check items under a heading
type ChecklistSection struct {
	Title string      `json:"title" yaml:"title"`
	Items []CheckItem `json:"items" yaml:"items"`
}

// MaintenanceChecklist is a routine preventive maintenance visit
type MaintenanceChecklist struct {
	Number       string             `json:"number" yaml:"number"`
	Date         string             `json:"date" yaml:"date"`
	Client       Party              `json:"client" yaml:"client"`
	Equipment    Equipment          `json:"equipment" yaml:"equipment"`
	Period       string             `json:"period,omitempty" yaml:"period,omitempty"`
	Sections     []ChecklistSection `json:"sections" yaml:"sections"`
	Observations string             `json:"observations,omitempty" yaml:"observations,omitempty"`
	NextVisit    string             `json:"next_visit,omitempty" yaml:"next_visit,omitempty"`
	Technician   Signature          `json:"technician" yaml:"technician"`
	Customer     Signature          `json:"customer" yaml:"customer"`
}

// Question is a survey prompt and its free-text answer
type Question struct {
	Prompt string `json:"prompt" yaml:"prompt"`
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// SurveySection groups questions under a heading
type SurveySection struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Measurement is a recorded on-site value
type Measurement struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// SiteSurvey is a pre-installation site visit report
type SiteSurvey struct {
	Number       string          `json:"number" yaml:"number"`
	Date         string          `json:"date" yaml:"date"`
	Client       Party           `json:"client" yaml:"client"`
	Site         string          `json:"site,omitempty" yaml:"site,omitempty"`
	Sections     []SurveySection `json:"sections" yaml:"sections"`
	Measurements []Measurement   `json:"measurements,omitempty" yaml:"measurements,omitempty"`
	Conclusion   string          `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
	Surveyor     Signature       `json:"surveyor" yaml:"surveyor"`
	Customer     Signature       `json:"customer" yaml:"customer"`
}

func (w *WorkOrder) Kind() Kind              { return KindWorkOrder }
func (w *WorkOrder) Title() string           { return KindWorkOrder.Label() }
func (w *WorkOrder) Reference() string       { return w.Number }
func (w *WorkOrder) Signatures() []Signature { return []Signature{w.Technician, w.Customer} }

func (m *MaintenanceChecklist) Kind() Kind              { return KindMaintenance }
func (m *MaintenanceChecklist) Title() string           { return KindMaintenance.Label() }
func (m *MaintenanceChecklist) Reference() string       { return m.Number }
func (m *MaintenanceChecklist) Signatures() []Signature { return []Signature{m.Technician, m.Customer} }

func (s *SiteSurvey) Kind() Kind              { return KindSurvey }
func (s *SiteSurvey) Title() string           { return KindSurvey.Label() }
func (s *SiteSurvey) Reference() string       { return s.Number }
func (s *SiteSurvey) Signatures() []Signature { return []Signature{s.Surveyor, s.Customer} }

// TotalHours sums the labor table
func (w *WorkOrder) TotalHours() float64 {
	var total float64
	for _, l := range w.Labor {
		total += l.Hours
	}
	return total
}

// Counts tallies check item statuses across all sections
func (m *MaintenanceChecklist) Counts() map[string]int {
	counts := map[string]int{StatusOK: 0, StatusNOK: 0, StatusNA: 0, StatusBlank: 0}
	for _, section := range m.Sections {
		for _, item := range section.Items {
			counts[item.Status]++
		}
	}
	return counts
}
