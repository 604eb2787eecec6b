package forms

// defaultChecklist is the routine maintenance template printed on blank forms
var defaultChecklist = []ChecklistSection{
	{
		Title: "General inspection",
		Items: []CheckItem{
			{Label: "Visual condition of the unit and enclosure"},
			{Label: "Identification plates and safety labels legible"},
			{Label: "Fixings, supports and anti-vibration mounts"},
			{Label: "Access and surroundings clear of obstructions"},
		},
	},
	{
		Title: "Electrical",
		Items: []CheckItem{
			{Label: "Supply voltage within tolerance"},
			{Label: "Terminal tightness and cable condition"},
			{Label: "Protective devices and earthing"},
			{Label: "Control panel indicators and alarms"},
		},
	},
	{
		Title: "Mechanical",
		Items: []CheckItem{
			{Label: "Belts, bearings and couplings"},
			{Label: "Lubrication points"},
			{Label: "Abnormal noise or vibration"},
			{Label: "Filters cleaned or replaced"},
		},
	},
	{
		Title: "Operation",
		Items: []CheckItem{
			{Label: "Start-up and shutdown sequence"},
			{Label: "Operating pressures and temperatures"},
			{Label: "Leak check"},
			{Label: "Final functional test"},
		},
	},
}

// DefaultChecklist returns a fresh copy of the routine maintenance sections
func DefaultChecklist() []ChecklistSection {
	sections := make([]ChecklistSection, len(defaultChecklist))
	for i, s := range defaultChecklist {
		items := make([]CheckItem, len(s.Items))
		copy(items, s.Items)
		sections[i] = ChecklistSection{Title: s.Title, Items: items}
	}
	return sections
}
