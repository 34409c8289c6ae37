package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

// TemplateID selects one of the built-in visual templates. Selection is a
// pure function of the id; no renderer reads mutable state besides the
// resume passed in.
type TemplateID string

const (
	TemplateClassic  TemplateID = "classic"
	TemplateModern   TemplateID = "modern"
	TemplateCreative TemplateID = "creative"
)

var AllTemplates = []TemplateID{TemplateClassic, TemplateModern, TemplateCreative}

func ParseTemplateID(s string) (TemplateID, error) {
	for _, id := range AllTemplates {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", s)
}

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"dateRange": FormatDateRange,
	"monthYear": FormatMonthYear,
	"join":      strings.Join,
}

// sectionLabels is per-template presentation policy: the same underlying
// data may be labeled differently (creative calls projects "Awards",
// modern calls them "Certificates"). The data itself never changes.
var sectionLabels = map[TemplateID]map[string]string{
	TemplateClassic: {
		"education":  "Education",
		"experience": "Experience",
		"projects":   "Projects",
		"skills":     "Skills",
	},
	TemplateModern: {
		"education":  "Education",
		"experience": "Work Experience",
		"projects":   "Certificates",
		"skills":     "Core Skills",
	},
	TemplateCreative: {
		"education":  "Learning Journey",
		"experience": "Experience",
		"projects":   "Awards",
		"skills":     "Toolbox",
	},
}

var templates = map[TemplateID]*template.Template{}

func init() {
	for _, id := range AllTemplates {
		name := string(id) + ".html"
		tpl := template.Must(
			template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/"+name),
		)
		templates[id] = tpl
	}
}
