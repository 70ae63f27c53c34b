// Package schema checks validator responses against the JSON Schemas of the
// Nu Html Checker and CSS validator output formats.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var files embed.FS

var (
	// Markup describes the Nu Html Checker "out=json" document.
	Markup = mustLoad("markup.schema.json")
	// CSS describes the CSS validator "output=json" document.
	CSS = mustLoad("css.schema.json")
)

// Schema is a compiled response schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "response does not match %s schema", ve.Schema)
	for i, err := range ve.Errors {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", err.Field, err.Message)
	}
	return sb.String()
}

func mustLoad(name string) *Schema {
	s, err := load(name)
	if err != nil {
		panic(fmt.Sprintf("load schema %s: %v", name, err))
	}
	return s
}

func load(name string) (*Schema, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return nil, err
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, err
	}
	return &Schema{name: strings.TrimSuffix(name, ".schema.json"), schema: compiled}, nil
}

// Name is the short name of the schema, e.g. "markup".
func (s *Schema) Name() string { return s.name }

// Validate checks that body is JSON conforming to the schema. A body that is
// not JSON yields a plain error, a conforming-but-incomplete one a
// *ValidationError.
func (s *Schema) Validate(body []byte) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("parse %s response: %w", s.name, err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{Schema: s.name}
	for _, re := range res.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return ve
}
