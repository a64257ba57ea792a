// The package used for describing binding methods and reading them from schema files.
package metadata

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"sort"
	"strings"

	"napigen/internal/errors"

	"gopkg.in/yaml.v3"
)

type SchemaReader struct {
	path   string
	schema Schema
}

// Reads and validates the schema file under given path.
func NewReader(schemaPath string) (SchemaReader, error) {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return SchemaReader{}, errors.New(errors.PhaseLoad, errors.KindIO).
			Path(schemaPath).
			Cause(err).
			Detail("cannot read schema").
			Build()
	}

	schema, err := Parse(data)
	if err != nil {
		var structured *errors.Error
		if stderrors.As(err, &structured) && len(structured.Path) == 0 {
			structured.Path = []string{schemaPath}
		}
		return SchemaReader{}, err
	}

	return SchemaReader{path: schemaPath, schema: schema}, nil
}

// Parses a YAML or JSON schema document. Unknown keys are rejected.
func Parse(data []byte) (Schema, error) {
	var schema Schema
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&schema); err != nil {
		if err == io.EOF {
			return Schema{}, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Detail("schema is empty").
				Build()
		}
		return Schema{}, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Cause(err).
			Detail("malformed schema").
			Build()
	}

	for i := range schema.Methods {
		if schema.Methods[i].Return == "" {
			schema.Methods[i].Return = CallValue
		}
	}

	if err := Validate(schema); err != nil {
		return Schema{}, err
	}

	return schema, nil
}

func (reader *SchemaReader) Path() string {
	return reader.path
}

func (reader *SchemaReader) Schema() Schema {
	return reader.schema
}

// Methods in declaration order.
func (reader *SchemaReader) Methods() []Method {
	return reader.schema.Methods
}

// Distinct class names, sorted.
func (reader *SchemaReader) Classes() []string {
	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, method := range reader.schema.Methods {
		if _, ok := seen[method.Class]; ok {
			continue
		}
		seen[method.Class] = struct{}{}
		classes = append(classes, method.Class)
	}
	sort.Strings(classes)
	return classes
}

// Tries to get method by its qualified name, "Class::Method" or "Class.Method".
func (reader *SchemaReader) TryGetMethod(name string) (element Method, found bool) {
	class, method, ok := strings.Cut(name, "::")
	if !ok {
		class, method, ok = strings.Cut(name, ".")
	}
	if !ok {
		return Method{}, false
	}

	match := findElement(reader.schema.Methods, func(m *Method) bool {
		return m.Class == class && m.Name == method
	})
	if match == nil {
		return Method{}, false
	}

	return *match, true
}

// Finds element in given slice and returns it. If element is not found then `nil` is returned.
func findElement[T any](items []T, match func(*T) bool) *T {
	for idx := range items {
		if match(&items[idx]) {
			return &items[idx]
		}
	}

	return nil
}
