package conversion

import "napigen/internal/metadata"

// TypeKind is the native category of a declared local.
type TypeKind int

const (
	TypeDouble TypeKind = iota
	TypeInt
	TypeBool
	TypeString
	TypeEnum
	TypeContainer
	TypeNamed
	TypeArray   // runtime array view
	TypeWrapper // wrapper class instance
)

// Type is a native type as the converter sees it. Name carries the declared
// spelling for enums, containers and named types; Elem the element wrapper of a container.
type Type struct {
	Name string
	Elem string
	Kind TypeKind
}

// NumberKind selects the numeric accessor used on a converted number.
type NumberKind int

const (
	NumberDouble NumberKind = iota
	NumberInt64
	NumberUint32
)

// Block is the converted form of one parameter: the statements that declare
// and initialise its native local.
type Block struct {
	Param metadata.Parameter
	Kind  metadata.CallKind
	Stmts []Stmt
	Path  Path
}

// Stmt is a statement of the conversion IR.
type Stmt interface {
	stmt()
}

// Expr is an expression of the conversion IR.
type Expr interface {
	expr()
}

// Declare introduces a local. Binding is "", "*" or "&"; a nil Init leaves it uninitialised.
type Declare struct {
	Init    Expr
	Name    string
	Binding string
	Type    Type
	Const   bool
}

type Assign struct {
	Value Expr
	Name  string
}

// If with an Else holding a single If renders as an else-if chain.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ForEach iterates Index over the elements of the array local Array.
type ForEach struct {
	Index string
	Array string
	Body  []Stmt
}

// Append adds Value to the container local; Heap selects pointer access.
type Append struct {
	Value     Expr
	Container string
	Heap      bool
}

// Warn writes a diagnostic about a skipped null element at Array[Index].
type Warn struct {
	Array string
	Index string
}

// Signal reports a conversion failure through the call kind's channel and leaves the call.
type Signal struct {
	Message string
	Failure Failure
}

func (Declare) stmt() {}
func (Assign) stmt()  {}
func (If) stmt()      {}
func (ForEach) stmt() {}
func (Append) stmt()  {}
func (Warn) stmt()    {}
func (Signal) stmt()  {}

// Arg is the call argument at Index.
type Arg struct {
	Index int
}

// Local references a declared local by name.
type Local struct {
	Name string
}

// Elem is Array[Index] where both are locals.
type Elem struct {
	Array string
	Index string
}

// NumberOf coerces X to a number and reads it with the given accessor.
type NumberOf struct {
	X  Expr
	As NumberKind
}

type BoolOf struct {
	X Expr
}

// StringOf coerces X to a string and reads its UTF-8 bytes.
type StringOf struct {
	X Expr
}

// ArrayOf views X as an array.
type ArrayOf struct {
	X Expr
}

type Length struct {
	X Expr
}

// IsNullish is true for null and undefined.
type IsNullish struct {
	X Expr
}

// IsInstance is true when X is an object constructed by Class.
type IsInstance struct {
	X     Expr
	Class string
}

type Not struct {
	X Expr
}

// Unwrap yields the wrapper instance of Class held by object X.
type Unwrap struct {
	X     Expr
	Class string
}

// Underlying yields the native value held by a wrapper instance.
type Underlying struct {
	X Expr
}

type Deref struct {
	X Expr
}

// Cast converts X to an enum type.
type Cast struct {
	X  Expr
	To Type
}

type Null struct{}

// NewContainer constructs an empty container of Type with capacity Len.
type NewContainer struct {
	Len  Expr
	Type Type
	Heap bool
}

func (Arg) expr()          {}
func (Local) expr()        {}
func (Elem) expr()         {}
func (NumberOf) expr()     {}
func (BoolOf) expr()       {}
func (StringOf) expr()     {}
func (ArrayOf) expr()      {}
func (Length) expr()       {}
func (IsNullish) expr()    {}
func (IsInstance) expr()   {}
func (Not) expr()          {}
func (Unwrap) expr()       {}
func (Underlying) expr()   {}
func (Deref) expr()        {}
func (Cast) expr()         {}
func (Null) expr()         {}
func (NewContainer) expr() {}
