package conversion

import (
	stderrors "errors"
	"reflect"
	"testing"

	"napigen/internal/errors"
	"napigen/internal/metadata"
)

func curveArray() metadata.Parameter {
	return metadata.Parameter{
		Name:    "curves",
		RawType: "RPArray<MbCurve3D>",
		JsType:  "Array",
		JsIndex: 1,
		ElementType: &metadata.ElementType{
			CppType: "Curve3D",
			JsType:  "Curve3D",
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		param metadata.Parameter
		want  Path
	}{
		{"double", metadata.Parameter{RawType: "double"}, PathDouble},
		{"double wins over isNumber", metadata.Parameter{RawType: "double", IsNumber: true}, PathDouble},
		{"integer", metadata.Parameter{RawType: "int", IsNumber: true}, PathInteger},
		{"integer wins over enum", metadata.Parameter{RawType: "MbeSpaceType", IsNumber: true, IsEnum: true}, PathInteger},
		{"bool raw type", metadata.Parameter{RawType: "bool"}, PathBool},
		{"bool flag", metadata.Parameter{IsBool: true}, PathBool},
		{"array", metadata.Parameter{JsType: "Array", IsOptional: true}, PathArray},
		{"string", metadata.Parameter{IsCppString2CString: true, IsEnum: true}, PathString},
		{"enum", metadata.Parameter{IsEnum: true, IsOptional: true}, PathEnum},
		{"optional", metadata.Parameter{IsOptional: true}, PathOptional},
		{"nullable", metadata.Parameter{IsNullable: true}, PathOptional},
		{"required", metadata.Parameter{RawType: "MbSolid", CppType: "Solid"}, PathRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.param); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	if got := PathOptional.String(); got != "optional" {
		t.Errorf("String() = %q", got)
	}
	if got := Path(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestConvert_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		param    metadata.Parameter
		wantType TypeKind
		wantInit Expr
		const_   bool
	}{
		{
			name:     "double keeps const flag",
			param:    metadata.Parameter{Name: "radius", RawType: "double", JsIndex: 2, Const: true},
			wantType: TypeDouble,
			wantInit: NumberOf{X: Arg{Index: 2}, As: NumberDouble},
			const_:   true,
		},
		{
			name:     "integer",
			param:    metadata.Parameter{Name: "count", RawType: "int", IsNumber: true},
			wantType: TypeInt,
			wantInit: NumberOf{X: Arg{Index: 0}, As: NumberInt64},
		},
		{
			name:     "bool",
			param:    metadata.Parameter{Name: "closed", RawType: "bool", JsIndex: 1},
			wantType: TypeBool,
			wantInit: BoolOf{X: Arg{Index: 1}},
		},
		{
			name:     "string is always const",
			param:    metadata.Parameter{Name: "label", IsCppString2CString: true},
			wantType: TypeString,
			wantInit: StringOf{X: Arg{Index: 0}},
			const_:   true,
		},
		{
			name:     "enum casts uint32",
			param:    metadata.Parameter{Name: "type", RawType: "MbeSpaceType", IsEnum: true, JsIndex: 3},
			wantType: TypeEnum,
			wantInit: Cast{
				To: Type{Kind: TypeEnum, Name: "MbeSpaceType"},
				X:  NumberOf{X: Arg{Index: 3}, As: NumberUint32},
			},
			const_: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := Convert(tt.param, metadata.CallValue)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if len(block.Stmts) != 1 {
				t.Fatalf("len(Stmts) = %d, want 1", len(block.Stmts))
			}
			decl, ok := block.Stmts[0].(Declare)
			if !ok {
				t.Fatalf("Stmts[0] is %T, want Declare", block.Stmts[0])
			}
			if decl.Name != tt.param.Name {
				t.Errorf("Name = %q, want %q", decl.Name, tt.param.Name)
			}
			if decl.Type.Kind != tt.wantType {
				t.Errorf("Type.Kind = %v, want %v", decl.Type.Kind, tt.wantType)
			}
			if decl.Const != tt.const_ {
				t.Errorf("Const = %v, want %v", decl.Const, tt.const_)
			}
			if !reflect.DeepEqual(decl.Init, tt.wantInit) {
				t.Errorf("Init = %#v, want %#v", decl.Init, tt.wantInit)
			}
		})
	}
}

func TestConvert_ArrayHeapSelection(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		kind metadata.CallKind
		heap bool
	}{
		{"value stack", "", metadata.CallValue, false},
		{"void stack", "&", metadata.CallVoid, false},
		{"promise heap", "", metadata.CallPromise, true},
		{"pointer ref heap", "*", metadata.CallValue, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := curveArray()
			param.Ref = tt.ref
			block, err := Convert(param, tt.kind)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if block.Path != PathArray {
				t.Fatalf("Path = %v", block.Path)
			}
			container := block.Stmts[1].(Declare)
			if got := container.Binding == "*"; got != tt.heap {
				t.Errorf("Binding = %q, heap %v", container.Binding, tt.heap)
			}
			if nc := container.Init.(NewContainer); nc.Heap != tt.heap {
				t.Errorf("NewContainer.Heap = %v, want %v", nc.Heap, tt.heap)
			}

			loop := block.Stmts[2].(ForEach)
			nullCheck := loop.Body[0].(If)
			if _, ok := nullCheck.Then[0].(Warn); !ok {
				t.Errorf("null element branch is %T, want Warn", nullCheck.Then[0])
			}
			typeCheck := nullCheck.Else[0].(If)
			signal := typeCheck.Then[0].(Signal)
			if signal.Failure != FailureArrayTypeMismatch || signal.Message != "Curve3D curves is required." {
				t.Errorf("signal = %+v", signal)
			}
			appendStmt := typeCheck.Else[0].(Append)
			if appendStmt.Heap != tt.heap {
				t.Errorf("Append.Heap = %v, want %v", appendStmt.Heap, tt.heap)
			}
		})
	}
}

func TestConvert_ArrayElementDereference(t *testing.T) {
	byValue := curveArray()
	block, err := Convert(byValue, metadata.CallValue)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	value := appendValue(t, block)
	if _, ok := value.(Deref); !ok {
		t.Errorf("element stored by value should be dereferenced, got %T", value)
	}

	byReference := curveArray()
	byReference.ElementType.IsReference = true
	block, err = Convert(byReference, metadata.CallValue)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, ok := appendValue(t, block).(Underlying); !ok {
		t.Errorf("element held by reference should not be dereferenced")
	}
}

func appendValue(t *testing.T, block *Block) Expr {
	t.Helper()
	loop := block.Stmts[2].(ForEach)
	return loop.Body[0].(If).Else[0].(If).Else[0].(Append).Value
}

func TestConvert_ArrayIndexAvoidsShadowing(t *testing.T) {
	param := curveArray()
	param.Name = "i"
	block, err := Convert(param, metadata.CallValue)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if loop := block.Stmts[2].(ForEach); loop.Index == "i" {
		t.Error("loop index shadows the container local")
	}
}

func TestConvertMethod_ArrayIndexAvoidsParameters(t *testing.T) {
	method := metadata.Method{
		Class:  "Curve3D",
		Name:   "Offset",
		Return: metadata.CallValue,
		Params: []metadata.Parameter{
			{Name: "i", RawType: "double", JsIndex: 0},
			{Name: "idx", RawType: "double", JsIndex: 2},
			curveArray(),
		},
	}
	blocks, err := ConvertMethod(method)
	if err != nil {
		t.Fatalf("ConvertMethod: %v", err)
	}
	loop := blocks[2].Stmts[2].(ForEach)
	if loop.Index != "idx2" {
		t.Errorf("loop index = %q, want idx2", loop.Index)
	}
	if got := appendValue(t, blocks[2]); !reflect.DeepEqual(got, Deref{X: Underlying{X: Unwrap{X: Elem{Array: "curves_", Index: "idx2"}, Class: "Curve3D"}}}) {
		t.Errorf("element = %#v", got)
	}
}

func TestConvert_Optional(t *testing.T) {
	param := metadata.Parameter{Name: "parent", RawType: "MbItem", CppType: "Item", Ref: "*", IsNullable: true, JsIndex: 1}

	block, err := Convert(param, metadata.CallPromise)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	decl := block.Stmts[0].(Declare)
	if _, ok := decl.Init.(Null); !ok || decl.Binding != "*" {
		t.Errorf("decl = %+v", decl)
	}
	guard := block.Stmts[1].(If)
	assign := guard.Then[1].(Assign)
	if _, ok := assign.Value.(Underlying); !ok {
		t.Errorf("bound value is %T, want Underlying", assign.Value)
	}
	if _, ok := guard.Else[0].(Assign).Value.(Null); !ok {
		t.Error("else branch should bind null")
	}

	param.IsRaw = true
	block, _ = Convert(param, metadata.CallPromise)
	assign = block.Stmts[1].(If).Then[1].(Assign)
	if local, ok := assign.Value.(Local); !ok || local.Name != "parent_" {
		t.Errorf("raw bound value = %#v, want Local parent_", assign.Value)
	}
}

func TestConvert_Required(t *testing.T) {
	param := metadata.Parameter{Name: "solid", RawType: "MbSolid", CppType: "Solid", Ref: "&"}

	block, err := Convert(param, metadata.CallVoid)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if block.Path != PathRequired {
		t.Fatalf("Path = %v", block.Path)
	}
	signal := block.Stmts[0].(If).Then[0].(Signal)
	if signal.Failure != FailureMissingRequired {
		t.Errorf("Failure = %v", signal.Failure)
	}
	if signal.Message != "Passed null for non-optional parameter 'solid'" {
		t.Errorf("Message = %q", signal.Message)
	}
	if _, ok := block.Stmts[2].(Declare).Init.(Deref); !ok {
		t.Error("non-pointer binding should dereference the underlying value")
	}

	param.IsPointer = true
	param.Ref = "*"
	block, _ = Convert(param, metadata.CallVoid)
	if _, ok := block.Stmts[2].(Declare).Init.(Underlying); !ok {
		t.Error("pointer binding should use the underlying value directly")
	}
}

func TestConvert_Deterministic(t *testing.T) {
	param := curveArray()
	first, err := Convert(param, metadata.CallPromise)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	second, _ := Convert(param, metadata.CallPromise)
	if !reflect.DeepEqual(first, second) {
		t.Error("same descriptor and call kind produced different blocks")
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert(metadata.Parameter{Name: "x", RawType: "double"}, "callback")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindInvalidDescriptor}) {
		t.Errorf("unknown call kind: err = %v", err)
	}

	param := curveArray()
	param.ElementType = nil
	_, err = Convert(param, metadata.CallValue)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindInvalidDescriptor}) {
		t.Errorf("missing element type: err = %v", err)
	}
}

func TestConvertMethod(t *testing.T) {
	method := metadata.Method{
		Class:  "Curve3D",
		Name:   "Join",
		Return: metadata.CallValue,
		Params: []metadata.Parameter{
			{Name: "tolerance", RawType: "double"},
			curveArray(),
		},
	}
	blocks, err := ConvertMethod(method)
	if err != nil {
		t.Fatalf("ConvertMethod: %v", err)
	}
	if len(blocks) != 2 || blocks[0].Path != PathDouble || blocks[1].Path != PathArray {
		t.Errorf("paths = %v, %v", blocks[0].Path, blocks[1].Path)
	}

	method.Params[1].ElementType = nil
	_, err = ConvertMethod(method)
	var structured *errors.Error
	if !stderrors.As(err, &structured) {
		t.Fatalf("err = %v", err)
	}
	want := []string{"Curve3D", "Join", "curves"}
	if !reflect.DeepEqual(structured.Path, want) {
		t.Errorf("Path = %v, want %v", structured.Path, want)
	}
}

func TestFailure(t *testing.T) {
	if FailureArrayTypeMismatch.ErrorKind() != errors.KindTypeMismatch {
		t.Error("array mismatch should map to type_mismatch")
	}
	if FailureMissingRequired.ErrorKind() != errors.KindMissingRequired {
		t.Error("missing value should map to missing_required")
	}
	if Failure(0).String() != "unknown" {
		t.Error("zero failure should be unknown")
	}
}
