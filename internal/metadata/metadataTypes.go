package metadata

import "fmt"

// CallKind decides how a binding method reports a failed conversion back to its caller.
type CallKind string

const (
	CallValue   CallKind = "value"
	CallPromise CallKind = "promise"
	CallVoid    CallKind = "void"
)

func (kind CallKind) Valid() bool {
	switch kind {
	case CallValue, CallPromise, CallVoid:
		return true
	}
	return false
}

// Parameter describes one argument of a binding method.
type Parameter struct {
	Name    string `yaml:"name" json:"name" jsonschema:"required,description=Name of the generated local variable"`
	RawType string `yaml:"rawType,omitempty" json:"rawType,omitempty" jsonschema:"description=Declared native type"`
	CppType string `yaml:"cppType,omitempty" json:"cppType,omitempty" jsonschema:"description=Wrapper class used to unwrap object arguments"`
	JsType  string `yaml:"jsType,omitempty" json:"jsType,omitempty" jsonschema:"description=Expected runtime shape; Array selects the array conversion"`
	JsIndex int    `yaml:"jsIndex" json:"jsIndex" jsonschema:"minimum=0,description=Position in the call's argument list"`
	Ref     string `yaml:"ref,omitempty" json:"ref,omitempty" jsonschema:"enum=,enum=*,enum=&"`

	ElementType *ElementType `yaml:"elementType,omitempty" json:"elementType,omitempty"`

	IsNumber            bool `yaml:"isNumber,omitempty" json:"isNumber,omitempty"`
	IsBool              bool `yaml:"isBool,omitempty" json:"isBool,omitempty"`
	IsEnum              bool `yaml:"isEnum,omitempty" json:"isEnum,omitempty"`
	IsCppString2CString bool `yaml:"isCppString2CString,omitempty" json:"isCppString2CString,omitempty"`
	IsOptional          bool `yaml:"isOptional,omitempty" json:"isOptional,omitempty"`
	IsNullable          bool `yaml:"isNullable,omitempty" json:"isNullable,omitempty"`
	IsPointer           bool `yaml:"isPointer,omitempty" json:"isPointer,omitempty"`
	IsRaw               bool `yaml:"isRaw,omitempty" json:"isRaw,omitempty"`
	Const               bool `yaml:"const,omitempty" json:"const,omitempty"`
}

// Accepts null or undefined in place of an object.
func (p Parameter) IsOmissible() bool {
	return p.IsOptional || p.IsNullable
}

// The declaration is a heap pointer rather than a stack value or a reference.
func (p Parameter) IsHeap(kind CallKind) bool {
	return kind == CallPromise || p.Ref == "*"
}

// ElementType describes the wrapped native objects held by an array parameter.
type ElementType struct {
	CppType     string `yaml:"cppType" json:"cppType" jsonschema:"required"`
	JsType      string `yaml:"jsType" json:"jsType"`
	IsReference bool   `yaml:"isReference,omitempty" json:"isReference,omitempty"`
}

type Method struct {
	Class  string      `yaml:"class" json:"class" jsonschema:"required"`
	Name   string      `yaml:"name" json:"name" jsonschema:"required"`
	Return CallKind    `yaml:"return,omitempty" json:"return,omitempty" jsonschema:"enum=value,enum=promise,enum=void,default=value"`
	Params []Parameter `yaml:"params,omitempty" json:"params,omitempty"`
}

func (m Method) String() string {
	return fmt.Sprintf("%s::%s", m.Class, m.Name)
}

// Schema is the content of one descriptor file.
type Schema struct {
	Module  string   `yaml:"module,omitempty" json:"module,omitempty"`
	Methods []Method `yaml:"methods" json:"methods"`
}
