package resume

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// ValidateSection checks a section payload against the embedded JSON schema
// for that section before anything is written.
func ValidateSection(name SectionName, data json.RawMessage) error {
	raw, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.schema.json", name))
	if err != nil {
		return fmt.Errorf("no schema for section %q: %w", name, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(raw)
	docLoader := gojsonschema.NewBytesLoader(data)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("section %q is not valid JSON: %w", name, err)
	}
	if res.Valid() {
		return nil
	}

	var msgs []string
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("section %q failed validation: %s", name, strings.Join(msgs, "; "))
}
