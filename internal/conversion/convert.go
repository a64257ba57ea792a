package conversion

import (
	"fmt"
	"strconv"

	"napigen/internal/errors"
	"napigen/internal/metadata"
)

// Failure identifies why a conversion gave up on the call.
type Failure int

const (
	FailureMissingRequired Failure = iota + 1
	FailureArrayTypeMismatch
)

func (f Failure) String() string {
	switch f {
	case FailureMissingRequired:
		return "missing required value"
	case FailureArrayTypeMismatch:
		return "array element type mismatch"
	}
	return "unknown"
}

// ErrorKind maps the failure onto the error taxonomy.
func (f Failure) ErrorKind() errors.Kind {
	if f == FailureArrayTypeMismatch {
		return errors.KindTypeMismatch
	}
	return errors.KindMissingRequired
}

func MissingRequiredMessage(name string) string {
	return fmt.Sprintf("Passed null for non-optional parameter '%s'", name)
}

func ArrayTypeMessage(elementJsType, name string) string {
	return fmt.Sprintf("%s %s is required.", elementJsType, name)
}

// NullElementWarning is the diagnostic for a skipped null array element, minus its source location.
func NullElementWarning(index int) string {
	return fmt.Sprintf("warning: Passed an array with a null element at [%d]. This is probably a mistake, so skipping", index)
}

// Convert builds the statements that declare and initialise the native local for p
// inside a method of the given call kind.
func Convert(p metadata.Parameter, kind metadata.CallKind) (*Block, error) {
	return convert(p, kind, locals(p))
}

// convert builds the block; taken names the locals the rest of the method body
// already declares.
func convert(p metadata.Parameter, kind metadata.CallKind, taken map[string]struct{}) (*Block, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidDescriptor).
			Path(p.Name).
			Detail("unknown call kind %q", kind).
			Build()
	}

	block := &Block{Param: p, Kind: kind, Path: Classify(p)}
	arg := Arg{Index: p.JsIndex}

	switch block.Path {
	case PathDouble:
		block.Stmts = []Stmt{Declare{
			Name:  p.Name,
			Type:  Type{Kind: TypeDouble},
			Const: p.Const,
			Init:  NumberOf{X: arg, As: NumberDouble},
		}}
	case PathInteger:
		block.Stmts = []Stmt{Declare{
			Name:  p.Name,
			Type:  Type{Kind: TypeInt},
			Const: p.Const,
			Init:  NumberOf{X: arg, As: NumberInt64},
		}}
	case PathBool:
		block.Stmts = []Stmt{Declare{
			Name:  p.Name,
			Type:  Type{Kind: TypeBool},
			Const: p.Const,
			Init:  BoolOf{X: arg},
		}}
	case PathArray:
		stmts, err := convertArray(p, kind, arg, taken)
		if err != nil {
			return nil, err
		}
		block.Stmts = stmts
	case PathString:
		block.Stmts = []Stmt{Declare{
			Name:  p.Name,
			Type:  Type{Kind: TypeString},
			Const: true,
			Init:  StringOf{X: arg},
		}}
	case PathEnum:
		enum := Type{Kind: TypeEnum, Name: p.RawType}
		block.Stmts = []Stmt{Declare{
			Name:  p.Name,
			Type:  enum,
			Const: true,
			Init:  Cast{To: enum, X: NumberOf{X: arg, As: NumberUint32}},
		}}
	case PathOptional:
		block.Stmts = convertOptional(p, arg)
	default:
		block.Stmts = convertRequired(p, arg)
	}

	return block, nil
}

// ConvertMethod converts every parameter of m in declaration order.
func ConvertMethod(m metadata.Method) ([]*Block, error) {
	taken := locals(m.Params...)
	blocks := make([]*Block, 0, len(m.Params))
	for _, param := range m.Params {
		block, err := convert(param, m.Return, taken)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = append([]string{m.Class, m.Name}, e.Path...)
			}
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func convertArray(p metadata.Parameter, kind metadata.CallKind, arg Arg, taken map[string]struct{}) ([]Stmt, error) {
	if p.ElementType == nil {
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidDescriptor).
			Path(p.Name).
			NativeType(p.RawType).
			Detail("array parameter has no element type").
			Build()
	}

	view := p.Name + "_"
	index := indexName(taken)
	heap := p.IsHeap(kind)
	container := Type{Kind: TypeContainer, Name: p.RawType, Elem: p.ElementType.CppType}
	element := Elem{Array: view, Index: index}

	binding := ""
	if heap {
		binding = "*"
	}

	var value Expr = Underlying{X: Unwrap{X: element, Class: p.ElementType.CppType}}
	if !p.ElementType.IsReference {
		value = Deref{X: value}
	}

	return []Stmt{
		Declare{
			Name:  view,
			Type:  Type{Kind: TypeArray},
			Const: true,
			Init:  ArrayOf{X: arg},
		},
		Declare{
			Name:    p.Name,
			Type:    container,
			Binding: binding,
			Init:    NewContainer{Type: container, Len: Length{X: Local{Name: view}}, Heap: heap},
		},
		ForEach{
			Index: index,
			Array: view,
			Body: []Stmt{If{
				Cond: IsNullish{X: element},
				Then: []Stmt{Warn{Array: view, Index: index}},
				Else: []Stmt{If{
					Cond: Not{X: IsInstance{X: element, Class: p.ElementType.CppType}},
					Then: []Stmt{Signal{
						Failure: FailureArrayTypeMismatch,
						Message: ArrayTypeMessage(p.ElementType.JsType, p.Name),
					}},
					Else: []Stmt{Append{Container: p.Name, Heap: heap, Value: value}},
				}},
			}},
		},
	}, nil
}

func convertOptional(p metadata.Parameter, arg Arg) []Stmt {
	wrapper := p.Name + "_"

	var bound Expr = Underlying{X: Local{Name: wrapper}}
	if p.IsRaw {
		bound = Local{Name: wrapper}
	}

	return []Stmt{
		Declare{
			Name:    p.Name,
			Type:    Type{Kind: TypeNamed, Name: p.RawType},
			Binding: p.Ref,
			Init:    Null{},
		},
		If{
			Cond: Not{X: IsNullish{X: arg}},
			Then: []Stmt{
				Declare{
					Name:    wrapper,
					Type:    Type{Kind: TypeWrapper, Name: p.CppType},
					Binding: "*",
					Init:    Unwrap{X: arg, Class: p.CppType},
				},
				Assign{Name: p.Name, Value: bound},
			},
			Else: []Stmt{Assign{Name: p.Name, Value: Null{}}},
		},
	}
}

func convertRequired(p metadata.Parameter, arg Arg) []Stmt {
	wrapper := p.Name + "_"

	var bound Expr = Underlying{X: Local{Name: wrapper}}
	if !p.IsPointer {
		bound = Deref{X: bound}
	}

	return []Stmt{
		If{
			Cond: IsNullish{X: arg},
			Then: []Stmt{Signal{
				Failure: FailureMissingRequired,
				Message: MissingRequiredMessage(p.Name),
			}},
		},
		Declare{
			Name:    wrapper,
			Type:    Type{Kind: TypeWrapper, Name: p.CppType},
			Binding: "*",
			Const:   true,
			Init:    Unwrap{X: arg, Class: p.CppType},
		},
		Declare{
			Name:    p.Name,
			Type:    Type{Kind: TypeNamed, Name: p.RawType},
			Binding: p.Ref,
			Init:    bound,
		},
	}
}

// locals lists the names a conversion of params may declare: each parameter
// and its "_" suffixed view or wrapper.
func locals(params ...metadata.Parameter) map[string]struct{} {
	taken := make(map[string]struct{}, 2*len(params))
	for _, p := range params {
		taken[p.Name] = struct{}{}
		taken[p.Name+"_"] = struct{}{}
	}
	return taken
}

// indexName picks a loop index that shadows no local of the method.
func indexName(taken map[string]struct{}) string {
	if _, ok := taken["i"]; !ok {
		return "i"
	}
	for n := 1; ; n++ {
		name := "idx"
		if n > 1 {
			name += strconv.Itoa(n)
		}
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}
