package render

import "time"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01",
	"01/2006",
	"Jan 2006",
}

// FormatMonthYear renders a stored date string as "Jan 2006". Formatting
// fails open: anything unparsable renders as "Present" rather than
// erroring out of a template.
func FormatMonthYear(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return "Present"
}

// FormatDateRange renders "Jan 2020 - Present" style ranges. A nil end
// date means the entry is ongoing.
func FormatDateRange(start string, end *string) string {
	from := FormatMonthYear(start)
	to := "Present"
	if end != nil && *end != "" {
		to = FormatMonthYear(*end)
	}
	return from + " - " + to
}
