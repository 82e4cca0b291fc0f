package legacy

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/frontmatter.schema.json
var frontMatterSchema []byte

var ErrMetadataInvalid = errors.New("legacy: front matter invalid")

// MetadataIssue is one schema violation at an instance location.
type MetadataIssue struct {
	Location string
	Message  string
}

// MetadataError lists every front matter violation in a file.
type MetadataError struct {
	Issues []MetadataIssue
}

func (e *MetadataError) Error() string {
	if len(e.Issues) == 0 {
		return ErrMetadataInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrMetadataInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *MetadataError) Unwrap() error {
	return ErrMetadataInvalid
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func metadataSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("frontmatter.schema.json", bytes.NewReader(frontMatterSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("frontmatter.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateFrontMatter checks front matter fields against the legacy export
// schema. Violations are returned as *MetadataError.
func ValidateFrontMatter(fm FrontMatter) error {
	schema, err := metadataSchema()
	if err != nil {
		return fmt.Errorf("legacy: compile front matter schema: %w", err)
	}

	encoded, err := json.Marshal(fm.Fields())
	if err != nil {
		return &MetadataError{Issues: []MetadataIssue{{Message: err.Error()}}}
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return &MetadataError{Issues: []MetadataIssue{{Message: err.Error()}}}
	}

	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &MetadataError{Issues: collectIssues(validationErr)}
		}
		return &MetadataError{Issues: []MetadataIssue{{Message: err.Error()}}}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []MetadataIssue {
	var issues []MetadataIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, MetadataIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
