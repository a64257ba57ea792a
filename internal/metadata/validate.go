package metadata

import (
	"regexp"

	"napigen/internal/errors"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reserved are the locals every generated method body declares before its parameters.
var reserved = map[string]struct{}{
	"env":      {},
	"info":     {},
	"deferred": {},
}

// Validate checks every method of the schema and returns the first problem found.
func Validate(schema Schema) error {
	for _, method := range schema.Methods {
		if err := ValidateMethod(method); err != nil {
			return err
		}
	}
	return nil
}

func ValidateMethod(method Method) error {
	path := []string{method.Class, method.Name}

	if !identifier.MatchString(method.Class) {
		return errors.InvalidDescriptor(path, "class name %q is not an identifier", method.Class)
	}
	if !identifier.MatchString(method.Name) {
		return errors.InvalidDescriptor(path, "method name %q is not an identifier", method.Name)
	}
	if !method.Return.Valid() {
		return errors.InvalidDescriptor(path, "unknown call kind %q", method.Return)
	}

	names := make(map[string]struct{}, len(method.Params))
	for _, param := range method.Params {
		if err := ValidateParameter(param, path...); err != nil {
			return err
		}
		if _, dup := names[param.Name]; dup {
			return errors.InvalidDescriptor(append(path, param.Name), "duplicate parameter name")
		}
		names[param.Name] = struct{}{}
	}
	// Array views and object wrappers are declared as <name>_.
	for _, param := range method.Params {
		if _, clash := names[param.Name+"_"]; clash {
			return errors.InvalidDescriptor(append(path, param.Name+"_"), "parameter name clashes with the local generated for %q", param.Name)
		}
	}

	return nil
}

// ValidateParameter checks one descriptor; prefix is prepended to the error path.
func ValidateParameter(param Parameter, prefix ...string) error {
	path := append(append([]string{}, prefix...), param.Name)

	if !identifier.MatchString(param.Name) {
		return errors.InvalidDescriptor(path, "parameter name %q is not an identifier", param.Name)
	}
	if _, ok := reserved[param.Name]; ok {
		return errors.InvalidDescriptor(path, "parameter name %q is reserved", param.Name)
	}
	if param.JsIndex < 0 {
		return errors.InvalidDescriptor(path, "negative jsIndex %d", param.JsIndex)
	}
	switch param.Ref {
	case "", "*", "&":
	default:
		return errors.InvalidDescriptor(path, "ref must be empty, \"*\" or \"&\", got %q", param.Ref)
	}

	switch {
	case param.RawType == "double", param.IsNumber, param.RawType == "bool", param.IsBool:
	case param.JsType == "Array":
		if param.ElementType == nil || param.ElementType.CppType == "" {
			return errors.InvalidDescriptor(path, "array parameter has no element cppType")
		}
		if param.RawType == "" {
			return errors.InvalidDescriptor(path, "array parameter has no container rawType")
		}
	case param.IsCppString2CString:
	case param.IsEnum:
		if param.RawType == "" {
			return errors.InvalidDescriptor(path, "enum parameter has no rawType")
		}
	default:
		if param.CppType == "" {
			return errors.InvalidDescriptor(path, "object parameter has no cppType")
		}
		if param.RawType == "" {
			return errors.InvalidDescriptor(path, "object parameter has no rawType")
		}
	}

	return nil
}
