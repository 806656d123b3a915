package validation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a compiled JSON schema for one kind of config document.
type Schema struct {
	path   string
	schema *jsonschema.Schema
}

var (
	schemaMu    sync.Mutex
	schemaCache = make(map[string]*Schema)
)

// LoadSchema compiles the schema file at path. Compiled schemas are cached
// by path for the life of the process.
func LoadSchema(path string) (*Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[path]; ok {
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", path, err)
	}
	compiled, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
	}

	s := &Schema{path: path, schema: compiled}
	schemaCache[path] = s
	return s, nil
}

// Validate checks a JSON document against the schema. Rule violations are
// returned as a *SchemaError; malformed JSON is returned as is.
func (s *Schema) Validate(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON document: %w", err)
	}

	err = s.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	schemaErr := &SchemaError{Schema: s.path}
	collectViolations(ve, &schemaErr.Violations)
	return schemaErr
}

// Violation is one schema rule broken at a document location.
type Violation struct {
	Location string // JSON pointer, "/" for the root
	Keyword  string // failed keyword path, e.g. "properties.inventory_type.enum"
}

// SchemaError lists every rule a document broke.
type SchemaError struct {
	Schema     string
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Location + ": " + v.Keyword
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// collectViolations walks the cause tree and keeps the leaves, which name
// the concrete rule that failed.
func collectViolations(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectViolations(cause, out)
		}
		return
	}

	v := Violation{Location: "/" + strings.Join(ve.InstanceLocation, "/")}
	if ve.ErrorKind != nil {
		v.Keyword = strings.Join(ve.ErrorKind.KeywordPath(), ".")
	}
	*out = append(*out, v)
}
