// Package errors provides the structured error type used by the generator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (what went wrong).
//
//	err := errors.New(errors.PhaseLoad, errors.KindInvalidDescriptor).
//		Path("Vector", "Add", "other").
//		Detail("array parameter has no element type").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // environment and flags
	PhaseLoad    Phase = "load"    // schema loading and validation
	PhaseConvert Phase = "convert" // descriptor to statement IR
	PhaseRender  Phase = "render"  // IR to source text
	PhaseCall    Phase = "call"    // generated conversion executing against runtime values
)

// Kind categorizes the error
type Kind string

const (
	KindMissingRequired   Kind = "missing_required"
	KindTypeMismatch      Kind = "type_mismatch"
	KindNullElement       Kind = "null_element"
	KindInvalidDescriptor Kind = "invalid_descriptor"
	KindUnsupported       Kind = "unsupported"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindIO                Kind = "io"
)

// Error is the structured error type used throughout the generator
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	NativeType string
	JsType     string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.NativeType != "" || e.JsType != "" {
		b.WriteString(": ")
		switch {
		case e.NativeType != "" && e.JsType != "":
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
			b.WriteString(", JS type ")
			b.WriteString(e.JsType)
		case e.NativeType != "":
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
		default:
			b.WriteString("JS type ")
			b.WriteString(e.JsType)
		}
	}

	if e.Detail != "" {
		if e.NativeType != "" || e.JsType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the descriptor path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// NativeType sets the native type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
	return b
}

// JsType sets the runtime type name
func (b *Builder) JsType(t string) *Builder {
	b.err.JsType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// InvalidDescriptor creates a descriptor validation error
func InvalidDescriptor(path []string, detail string, args ...any) *Error {
	return New(PhaseLoad, KindInvalidDescriptor).Path(path...).Detail(detail, args...).Build()
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a lookup failure error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
