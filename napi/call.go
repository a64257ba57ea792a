package napi

// CallInfo carries the arguments of one call into a binding method.
type CallInfo struct {
	env  *Env
	args []Value
}

func NewCallInfo(env *Env, args ...Value) *CallInfo {
	return &CallInfo{env: env, args: args}
}

func (info *CallInfo) Env() *Env { return info.env }

func (info *CallInfo) Length() int { return len(info.args) }

// At returns the argument at i, undefined when the caller passed fewer arguments.
func (info *CallInfo) At(i int) Value {
	if i < 0 || i >= len(info.args) {
		return Undefined()
	}
	return info.args[i]
}

// Array is a read-only view of an array argument.
type Array struct {
	elems []Value
}

// ArrayFrom views v as an array. Anything else raises an exception on env and
// yields an empty view.
func ArrayFrom(env *Env, v Value) Array {
	if !v.IsArray() {
		NewError(env, "An array was expected").ThrowAsJavaScriptException()
		return Array{}
	}
	return Array{elems: v.elems}
}

func (a Array) Length() uint32 { return uint32(len(a.elems)) }

func (a Array) Get(i uint32) Value {
	if int(i) >= len(a.elems) {
		return Undefined()
	}
	return a.elems[i]
}

// Container collects unwrapped native values, the Go side of the kernel's array types.
type Container struct {
	items []any
}

// NewContainer allocates a container on the heap.
func NewContainer(capacity uint32) *Container {
	c := MakeContainer(capacity)
	return &c
}

// MakeContainer returns a container value.
func MakeContainer(capacity uint32) Container {
	return Container{items: make([]any, 0, capacity)}
}

func (c *Container) Add(item any) { c.items = append(c.items, item) }

func (c *Container) Len() int { return len(c.items) }

func (c *Container) At(i int) any { return c.items[i] }

func (c *Container) Items() []any { return append([]any(nil), c.items...) }

// Error is an exception raised into the runtime.
type Error struct {
	env     *Env
	Message string
}

func NewError(env *Env, message string) *Error {
	return &Error{env: env, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) ThrowAsJavaScriptException() {
	if e.env != nil {
		e.env.Throw(e)
	}
}

// PromiseState is the settlement state of a Promise.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

func (s PromiseState) String() string {
	switch s {
	case PromiseFulfilled:
		return "fulfilled"
	case PromiseRejected:
		return "rejected"
	}
	return "pending"
}

// Promise is the result handed back by asynchronous binding methods.
type Promise struct {
	Result Value
	State  PromiseState
}

// Deferred settles a Promise once; later settlements are ignored.
type Deferred struct {
	env     *Env
	promise *Promise
}

func NewDeferred(env *Env) *Deferred {
	return &Deferred{env: env, promise: &Promise{}}
}

func (d *Deferred) Env() *Env { return d.env }

func (d *Deferred) Resolve(v Value) {
	d.settle(PromiseFulfilled, v)
}

func (d *Deferred) Reject(v Value) {
	d.settle(PromiseRejected, v)
}

func (d *Deferred) Promise() *Promise {
	return d.promise
}

func (d *Deferred) settle(state PromiseState, v Value) {
	if d.promise.State != PromisePending {
		return
	}
	d.promise.State = state
	d.promise.Result = v
}
