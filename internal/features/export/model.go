package export

import "fmt"

type Kind string

const (
	KindActivities Kind = "activities"
	KindActions    Kind = "actions"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var (
	ActivityColumns = []string{"Date", "Time", "Project", "Type", "Shift", "Crew", "Remarks"}
	ActionColumns   = []string{"Issue", "Status", "Priority", "Due Date", "Responsible Person", "Created At"}
)

// Table is the rendered-agnostic form of an export. Rows follow the input
// order.
type Table struct {
	Kind    Kind
	Columns []string
	Rows    [][]string
}

func (t Table) Title() string {
	switch t.Kind {
	case KindActivities:
		return "Activities Report"
	case KindActions:
		return "Actions Report"
	}
	return string(t.Kind)
}

// Document is a finished export file.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename is <kind>_export_<YYYY-MM-DD>.<ext>.
func Filename(kind Kind, format Format, day string) string {
	return fmt.Sprintf("%s_export_%s.%s", kind, day, format)
}
