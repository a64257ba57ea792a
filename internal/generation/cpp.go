package generation

import (
	"fmt"
	"io"
	"strings"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
)

const cppIndent = "    "

func init() {
	Register("cpp", func() Renderer { return CppRenderer{} })
}

// CppRenderer writes N-API C++ argument conversions. Each method becomes a marked
// section meant to be spliced into the body of its binding function.
type CppRenderer struct{}

func (CppRenderer) Name() string { return "cpp" }

func (CppRenderer) FileName(class string) string { return class + ".cc" }

func (r CppRenderer) Render(w io.Writer, unit Unit) error {
	var b strings.Builder
	b.WriteString("// Code generated by napigen. DO NOT EDIT.\n")

	for _, method := range unit.Methods {
		b.WriteString("\n")
		b.WriteString(r.RenderMethod(method))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "writing "+unit.Class)
	}
	return nil
}

// RenderMethod renders the conversion section of one method, environment prologue included.
func (CppRenderer) RenderMethod(method ConvertedMethod) string {
	w := &cppWriter{kind: method.Method.Return}
	name := method.Method.String()

	w.b.WriteString("// BEGIN " + name + "\n")
	w.line(1, "Napi::Env env = info.Env();")
	if method.Method.Return == metadata.CallPromise {
		w.line(1, "Napi::Promise::Deferred deferred = Napi::Promise::Deferred::New(env);")
	}
	for _, block := range method.Blocks {
		w.stmts(1, block.Stmts)
	}
	w.b.WriteString("// END " + name + "\n")

	return w.b.String()
}

// RenderBlock renders the statements of a single converted parameter without indentation.
func RenderBlock(block *conversion.Block) string {
	w := &cppWriter{kind: block.Kind}
	w.stmts(0, block.Stmts)
	return w.b.String()
}

type cppWriter struct {
	b    strings.Builder
	kind metadata.CallKind
}

func (w *cppWriter) line(depth int, text string) {
	w.b.WriteString(strings.Repeat(cppIndent, depth))
	w.b.WriteString(text)
	w.b.WriteString("\n")
}

func (w *cppWriter) stmts(depth int, stmts []conversion.Stmt) {
	for _, stmt := range stmts {
		w.stmt(depth, stmt)
	}
}

func (w *cppWriter) stmt(depth int, stmt conversion.Stmt) {
	switch s := stmt.(type) {
	case conversion.Declare:
		decl := cppDeclarator(s.Type, s.Binding, s.Name)
		if s.Const {
			decl = "const " + decl
		}
		if s.Init != nil {
			decl += " = " + cppExpr(s.Init)
		}
		w.line(depth, decl+";")
	case conversion.Assign:
		w.line(depth, fmt.Sprintf("%s = %s;", s.Name, cppExpr(s.Value)))
	case conversion.If:
		w.line(depth, "if ("+cppExpr(s.Cond)+") {")
		w.stmts(depth+1, s.Then)
		w.elseChain(depth, s.Else)
	case conversion.ForEach:
		w.line(depth, fmt.Sprintf("for (size_t %[1]s = 0; %[1]s < %[2]s.Length(); %[1]s++) {", s.Index, s.Array))
		w.stmts(depth+1, s.Body)
		w.line(depth, "}")
	case conversion.Append:
		access := "."
		if s.Heap {
			access = "->"
		}
		w.line(depth, fmt.Sprintf("%s%sAdd(%s);", s.Container, access, cppExpr(s.Value)))
	case conversion.Warn:
		w.line(depth, fmt.Sprintf(`std::cerr << __FILE__ << ":" << __LINE__ << " warning: Passed an array with a null element at [" << %s << "]. This is probably a mistake, so skipping\n";`, s.Index))
	case conversion.Signal:
		w.signal(depth, s.Message)
	default:
		w.line(depth, fmt.Sprintf("/* unsupported statement %T */", stmt))
	}
}

func (w *cppWriter) elseChain(depth int, stmts []conversion.Stmt) {
	if len(stmts) == 0 {
		w.line(depth, "}")
		return
	}
	if len(stmts) == 1 {
		if nested, ok := stmts[0].(conversion.If); ok {
			w.line(depth, "} else if ("+cppExpr(nested.Cond)+") {")
			w.stmts(depth+1, nested.Then)
			w.elseChain(depth, nested.Else)
			return
		}
	}
	w.line(depth, "} else {")
	w.stmts(depth+1, stmts)
	w.line(depth, "}")
}

func (w *cppWriter) signal(depth int, message string) {
	literal := cppString(message)
	switch w.kind {
	case metadata.CallPromise:
		w.line(depth, "deferred.Reject(Napi::String::New(env, "+literal+"));")
		w.line(depth, "return deferred.Promise();")
	case metadata.CallVoid:
		w.line(depth, "Napi::Error::New(env, "+literal+").ThrowAsJavaScriptException();")
		w.line(depth, "return;")
	default:
		w.line(depth, "Napi::Error::New(env, "+literal+").ThrowAsJavaScriptException();")
		w.line(depth, "return env.Undefined();")
	}
}

func cppDeclarator(t conversion.Type, binding, name string) string {
	spelled := cppType(t)
	if binding == "" {
		return spelled + " " + name
	}
	return spelled + " " + binding + name
}

func cppType(t conversion.Type) string {
	switch t.Kind {
	case conversion.TypeDouble:
		return "double"
	case conversion.TypeInt:
		return "int"
	case conversion.TypeBool:
		return "bool"
	case conversion.TypeString:
		return "std::string"
	case conversion.TypeArray:
		return "Napi::Array"
	}
	return t.Name
}

func cppExpr(expr conversion.Expr) string {
	switch e := expr.(type) {
	case conversion.Arg:
		return fmt.Sprintf("info[%d]", e.Index)
	case conversion.Local:
		return e.Name
	case conversion.Elem:
		return fmt.Sprintf("%s[%s]", e.Array, e.Index)
	case conversion.NumberOf:
		accessor := "DoubleValue"
		switch e.As {
		case conversion.NumberInt64:
			accessor = "Int64Value"
		case conversion.NumberUint32:
			accessor = "Uint32Value"
		}
		return cppExpr(e.X) + ".ToNumber()." + accessor + "()"
	case conversion.BoolOf:
		return cppExpr(e.X) + ".ToBoolean()"
	case conversion.StringOf:
		return cppExpr(e.X) + ".ToString().Utf8Value()"
	case conversion.ArrayOf:
		return "Napi::Array(env, " + cppExpr(e.X) + ")"
	case conversion.Length:
		return cppExpr(e.X) + ".Length()"
	case conversion.IsNullish:
		x := cppExpr(e.X)
		return x + ".IsNull() || " + x + ".IsUndefined()"
	case conversion.IsInstance:
		x := cppExpr(e.X)
		return fmt.Sprintf("%s.IsObject() && %s.ToObject().InstanceOf(%s::GetConstructor(env))", x, x, e.Class)
	case conversion.Not:
		if inst, ok := e.X.(conversion.IsInstance); ok {
			x := cppExpr(inst.X)
			return fmt.Sprintf("!%s.IsObject() || !%s.ToObject().InstanceOf(%s::GetConstructor(env))", x, x, inst.Class)
		}
		return "!(" + cppExpr(e.X) + ")"
	case conversion.Unwrap:
		return fmt.Sprintf("%s::Unwrap(%s.ToObject())", e.Class, cppExpr(e.X))
	case conversion.Underlying:
		return cppExpr(e.X) + "->_underlying"
	case conversion.Deref:
		return "*" + cppExpr(e.X)
	case conversion.Cast:
		return fmt.Sprintf("static_cast<%s>(%s)", cppType(e.To), cppExpr(e.X))
	case conversion.Null:
		return "NULL"
	case conversion.NewContainer:
		ctor := fmt.Sprintf("%s(%s, 1)", cppType(e.Type), cppExpr(e.Len))
		if e.Heap {
			return "new " + ctor
		}
		return ctor
	}
	return fmt.Sprintf("/* unsupported expression %T */", expr)
}

// cppString quotes s as a C++ string literal.
func cppString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
