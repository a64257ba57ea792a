package generation

import (
	"io"
	"sort"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
)

// Unit is the content of one output file: the converted methods of one class.
type Unit struct {
	Class   string
	Package string
	Methods []ConvertedMethod
}

type ConvertedMethod struct {
	Method metadata.Method
	Blocks []*conversion.Block
}

// Renderer spells conversion units in one target language. FileName names the
// output file of a class relative to the output directory.
type Renderer interface {
	Name() string
	FileName(class string) string
	Render(w io.Writer, unit Unit) error
}

// registry maps backend names to renderer factories.
var registry = map[string]func() Renderer{}

// Register adds a backend. Called from init() in each renderer file.
func Register(name string, factory func() Renderer) {
	registry[name] = factory
}

// Lookup creates the renderer registered under name.
func Lookup(name string) (Renderer, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRender, "backend", name)
	}
	return factory(), nil
}

// Backends returns sorted names of all registered backends.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// usesEnv reports whether rendered statements refer to the runtime environment.
func usesEnv(stmts []conversion.Stmt) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case conversion.Declare:
			if s.Init != nil && exprUsesEnv(s.Init) {
				return true
			}
		case conversion.Assign:
			if exprUsesEnv(s.Value) {
				return true
			}
		case conversion.If:
			if exprUsesEnv(s.Cond) || usesEnv(s.Then) || usesEnv(s.Else) {
				return true
			}
		case conversion.ForEach:
			if usesEnv(s.Body) {
				return true
			}
		case conversion.Signal:
			return true
		}
	}
	return false
}

func exprUsesEnv(expr conversion.Expr) bool {
	switch e := expr.(type) {
	case conversion.ArrayOf, conversion.IsInstance:
		return true
	case conversion.NumberOf:
		return exprUsesEnv(e.X)
	case conversion.Not:
		return exprUsesEnv(e.X)
	case conversion.Cast:
		return exprUsesEnv(e.X)
	case conversion.NewContainer:
		return exprUsesEnv(e.Len)
	}
	return false
}
