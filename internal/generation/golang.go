package generation

import (
	"fmt"
	"go/token"
	"go/types"
	"io"
	"strings"

	"github.com/dave/jennifer/jen"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
)

const napiPath = "napigen/napi"

// Identifiers of the generated function body that parameters must not shadow.
var reservedLocals = map[string]bool{
	"env":      true,
	"info":     true,
	"deferred": true,
	"napi":     true,
	"fmt":      true,
	"os":       true,
}

func init() {
	Register("go", func() Renderer { return GoRenderer{} })
}

// GoRenderer writes the conversions as Go functions against package napi.
type GoRenderer struct{}

func (GoRenderer) Name() string { return "go" }

func (GoRenderer) FileName(class string) string { return strings.ToLower(class) + ".go" }

func (r GoRenderer) Render(w io.Writer, unit Unit) error {
	file := r.File(unit)
	if err := file.Render(w); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindIO, err, "rendering "+unit.Class)
	}
	return nil
}

// File builds the jennifer file holding one function per method of the unit.
func (r GoRenderer) File(unit Unit) *jen.File {
	file := jen.NewFile(unit.Package)
	file.HeaderComment("Code generated by napigen. DO NOT EDIT.")

	for _, method := range unit.Methods {
		r.function(file, method)
	}

	return file
}

// FuncName is the exported name of the function converting the arguments of m.
func FuncName(m metadata.Method) string {
	return exported(m.Class) + exported(m.Name)
}

func (GoRenderer) function(file *jen.File, method ConvertedMethod) {
	m := method.Method
	name := FuncName(m)

	var stmts []conversion.Stmt
	for _, block := range method.Blocks {
		stmts = append(stmts, block.Stmts...)
	}

	file.Commentf("%s converts the arguments of %s.", name, m)
	fn := file.Func().Id(name).Params(jen.Id("info").Op("*").Qual(napiPath, "CallInfo"))
	switch m.Return {
	case metadata.CallPromise:
		fn.Op("*").Qual(napiPath, "Promise")
	case metadata.CallValue:
		fn.Qual(napiPath, "Value")
	}

	g := &goWriter{kind: m.Return}
	fn.BlockFunc(func(body *jen.Group) {
		if m.Return != metadata.CallVoid || usesEnv(stmts) {
			body.Id("env").Op(":=").Id("info").Dot("Env").Call()
		}
		if m.Return == metadata.CallPromise {
			body.Id("deferred").Op(":=").Qual(napiPath, "NewDeferred").Call(jen.Id("env"))
		}

		g.stmts(body, stmts)

		for _, block := range method.Blocks {
			body.Id("_").Op("=").Id(goIdent(block.Param.Name))
		}

		switch m.Return {
		case metadata.CallPromise:
			body.Return(jen.Id("deferred").Dot("Promise").Call())
		case metadata.CallValue:
			body.Return(jen.Id("env").Dot("Undefined").Call())
		}
	})
	file.Line()
}

type goWriter struct {
	kind metadata.CallKind
}

func (g *goWriter) stmts(group *jen.Group, stmts []conversion.Stmt) {
	for _, stmt := range stmts {
		g.stmt(group, stmt)
	}
}

func (g *goWriter) stmt(group *jen.Group, stmt conversion.Stmt) {
	switch s := stmt.(type) {
	case conversion.Declare:
		decl := group.Var().Id(goIdent(s.Name)).Add(goType(s.Type, s.Binding))
		if s.Init != nil {
			init := goExpr(s.Init)
			if s.Type.Kind == conversion.TypeInt {
				init = jen.Int32().Call(init)
			}
			decl.Op("=").Add(init)
		}
	case conversion.Assign:
		group.Id(goIdent(s.Name)).Op("=").Add(goExpr(s.Value))
	case conversion.If:
		group.Add(g.ifStmt(s))
	case conversion.ForEach:
		group.For(
			jen.Id(goIdent(s.Index)).Op(":=").Uint32().Call(jen.Lit(0)),
			jen.Id(goIdent(s.Index)).Op("<").Id(goIdent(s.Array)).Dot("Length").Call(),
			jen.Id(goIdent(s.Index)).Op("++"),
		).BlockFunc(func(body *jen.Group) {
			g.stmts(body, s.Body)
		})
	case conversion.Append:
		group.Id(goIdent(s.Container)).Dot("Add").Call(goExpr(s.Value))
	case conversion.Warn:
		group.Qual("fmt", "Fprintf").Call(
			jen.Qual("os", "Stderr"),
			jen.Lit("warning: Passed an array with a null element at [%d]. This is probably a mistake, so skipping\n"),
			jen.Id(goIdent(s.Index)),
		)
	case conversion.Signal:
		g.signal(group, s.Message)
	default:
		group.Commentf("unsupported statement %T", stmt)
	}
}

func (g *goWriter) ifStmt(s conversion.If) *jen.Statement {
	out := jen.If(goExpr(s.Cond)).BlockFunc(func(then *jen.Group) {
		g.stmts(then, s.Then)
	})
	if len(s.Else) == 0 {
		return out
	}
	if len(s.Else) == 1 {
		if nested, ok := s.Else[0].(conversion.If); ok {
			return out.Else().Add(g.ifStmt(nested))
		}
	}
	return out.Else().BlockFunc(func(els *jen.Group) {
		g.stmts(els, s.Else)
	})
}

func (g *goWriter) signal(group *jen.Group, message string) {
	switch g.kind {
	case metadata.CallPromise:
		group.Id("deferred").Dot("Reject").Call(jen.Qual(napiPath, "NewString").Call(jen.Lit(message)))
		group.Return(jen.Id("deferred").Dot("Promise").Call())
	case metadata.CallVoid:
		group.Qual(napiPath, "NewError").Call(jen.Id("env"), jen.Lit(message)).Dot("ThrowAsJavaScriptException").Call()
		group.Return()
	default:
		group.Qual(napiPath, "NewError").Call(jen.Id("env"), jen.Lit(message)).Dot("ThrowAsJavaScriptException").Call()
		group.Return(jen.Id("env").Dot("Undefined").Call())
	}
}

func goType(t conversion.Type, binding string) *jen.Statement {
	switch t.Kind {
	case conversion.TypeDouble:
		return jen.Float64()
	case conversion.TypeInt:
		return jen.Int32()
	case conversion.TypeBool:
		return jen.Bool()
	case conversion.TypeString:
		return jen.String()
	case conversion.TypeEnum:
		return jen.Uint32()
	case conversion.TypeArray:
		return jen.Qual(napiPath, "Array")
	case conversion.TypeWrapper:
		return jen.Op("*").Qual(napiPath, "Object")
	case conversion.TypeContainer:
		if binding == "*" {
			return jen.Op("*").Qual(napiPath, "Container")
		}
		return jen.Qual(napiPath, "Container")
	}
	// Native objects stay opaque on the Go side.
	return jen.Id("any")
}

func goExpr(expr conversion.Expr) *jen.Statement {
	switch e := expr.(type) {
	case conversion.Arg:
		return jen.Id("info").Dot("At").Call(jen.Lit(e.Index))
	case conversion.Local:
		return jen.Id(goIdent(e.Name))
	case conversion.Elem:
		return jen.Id(goIdent(e.Array)).Dot("Get").Call(jen.Id(goIdent(e.Index)))
	case conversion.NumberOf:
		accessor := "DoubleValue"
		switch e.As {
		case conversion.NumberInt64:
			accessor = "Int64Value"
		case conversion.NumberUint32:
			accessor = "Uint32Value"
		}
		return goExpr(e.X).Dot("ToNumber").Call().Dot(accessor).Call()
	case conversion.BoolOf:
		return goExpr(e.X).Dot("ToBoolean").Call()
	case conversion.StringOf:
		return goExpr(e.X).Dot("ToString").Call().Dot("Utf8Value").Call()
	case conversion.ArrayOf:
		return jen.Qual(napiPath, "ArrayFrom").Call(jen.Id("env"), goExpr(e.X))
	case conversion.Length:
		return goExpr(e.X).Dot("Length").Call()
	case conversion.IsNullish:
		return goExpr(e.X).Dot("IsNull").Call().Op("||").Add(goExpr(e.X)).Dot("IsUndefined").Call()
	case conversion.IsInstance:
		return goExpr(e.X).Dot("IsObject").Call().
			Op("&&").Add(goExpr(e.X)).Dot("ToObject").Call().
			Dot("InstanceOf").Call(jen.Id("env").Dot("Constructor").Call(jen.Lit(e.Class)))
	case conversion.Not:
		if inst, ok := e.X.(conversion.IsInstance); ok {
			return jen.Op("!").Add(goExpr(inst.X)).Dot("IsObject").Call().
				Op("||").Op("!").Add(goExpr(inst.X)).Dot("ToObject").Call().
				Dot("InstanceOf").Call(jen.Id("env").Dot("Constructor").Call(jen.Lit(inst.Class)))
		}
		return jen.Op("!").Parens(goExpr(e.X))
	case conversion.Unwrap:
		return jen.Qual(napiPath, "Unwrap").Call(goExpr(e.X).Dot("ToObject").Call())
	case conversion.Underlying:
		return goExpr(e.X).Dot("Underlying").Call()
	case conversion.Deref:
		// Native values are shared references on the Go side.
		return goExpr(e.X)
	case conversion.Cast:
		return goExpr(e.X)
	case conversion.Null:
		return jen.Nil()
	case conversion.NewContainer:
		if e.Heap {
			return jen.Qual(napiPath, "NewContainer").Call(goExpr(e.Len))
		}
		return jen.Qual(napiPath, "MakeContainer").Call(goExpr(e.Len))
	}
	return jen.Nil().Comment(fmt.Sprintf("unsupported expression %T", expr))
}

// goIdent keeps parameter names from colliding with Go keywords, predeclared
// identifiers and the locals of the generated body.
func goIdent(name string) string {
	if token.IsKeyword(name) || types.Universe.Lookup(name) != nil || reservedLocals[name] {
		return name + "Arg"
	}
	return name
}

func exported(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
