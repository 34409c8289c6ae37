package render

import (
	"bytes"
	"fmt"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
)

type Mode int

const (
	// ModePreview shows "add now" affordances for missing sections.
	ModePreview Mode = iota
	// ModeExport omits missing sections entirely.
	ModeExport
)

type ErrorKind string

const (
	KindTemplate ErrorKind = "template"
	KindData     ErrorKind = "data"
)

// Error is the result-type form of a document construction failure. A
// broken template or malformed data never escapes as a panic; callers
// render a diagnostic branch from this value instead.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("render failed (%s): %s", e.Kind, e.Message)
}

// placeholderBasic keeps the rest of the layout previewable when the
// identity block has not been filled in yet.
var placeholderBasic = resume.BasicInfo{
	Name:     "Your Name",
	Email:    "email@example.com",
	Phone:    "000-000-0000",
	Location: "Your Location",
	Summary:  "A short summary about you will appear here.",
}

type viewData struct {
	Basic      resume.BasicInfo
	Education  []resume.Education
	Experience []resume.Experience
	Projects   []resume.Project
	Skills     []resume.Skill
	Labels     map[string]string
	Preview    bool
	Title      string
}

func buildViewData(r *resume.Resume, id TemplateID, mode Mode) viewData {
	data := viewData{
		Education:  r.Education,
		Experience: r.Experience,
		Projects:   r.Projects,
		Skills:     r.Skills,
		Labels:     sectionLabels[id],
		Preview:    mode == ModePreview,
		Title:      r.Title,
	}
	if r.Basic != nil {
		data.Basic = *r.Basic
	} else {
		data.Basic = placeholderBasic
	}
	return data
}

// Render produces the HTML document for one template. The input resume is
// never mutated; rendering the same data across templates yields the same
// factual content under different layout and labels.
func Render(r *resume.Resume, id TemplateID, mode Mode) (out string, err error) {
	if r == nil {
		return "", &Error{Kind: KindData, Message: "no resume data to render"}
	}

	tpl, ok := templates[id]
	if !ok {
		return "", &Error{Kind: KindTemplate, Message: fmt.Sprintf("unknown template %q", id)}
	}

	// Template execution is isolated: a panic inside a template or a
	// helper surfaces as an Error value, never crosses the call boundary.
	defer func() {
		if rec := recover(); rec != nil {
			err = &Error{Kind: KindData, Message: fmt.Sprint(rec)}
			out = ""
		}
	}()

	var buf bytes.Buffer
	if execErr := tpl.Execute(&buf, buildViewData(r, id, mode)); execErr != nil {
		return "", &Error{Kind: KindTemplate, Message: execErr.Error()}
	}
	return buf.String(), nil
}
