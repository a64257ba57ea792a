package napi

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor identifies a wrapper class. Parent links form the prototype chain
// consulted by InstanceOf.
type Constructor struct {
	Parent *Constructor
	Name   string
}

// Object is a runtime object. Objects created by Wrap hold a native value;
// plain objects hold nothing.
type Object struct {
	ctor       *Constructor
	underlying any
}

// NewObject returns a plain object that wraps no native value.
func NewObject() *Object {
	return &Object{}
}

func (o *Object) Value() Value {
	return Value{kind: TypeObject, obj: o}
}

func (o *Object) Constructor() *Constructor {
	return o.ctor
}

// InstanceOf walks the object's prototype chain looking for c.
func (o *Object) InstanceOf(c *Constructor) bool {
	if o == nil || c == nil {
		return false
	}
	for p := o.ctor; p != nil; p = p.Parent {
		if p == c {
			return true
		}
	}
	return false
}

// Underlying is the native value held by a wrapper.
func (o *Object) Underlying() any {
	return o.underlying
}

// Unwrap returns the wrapper behind o, or nil when o wraps no native value.
func Unwrap(o *Object) *Object {
	if o == nil || o.ctor == nil {
		return nil
	}
	return o
}

// Env owns the wrapper classes of one binding module and the exception raised by
// the call in progress.
type Env struct {
	classes map[string]*Constructor
	pending error
	mu      sync.Mutex
}

func NewEnv() *Env {
	return &Env{classes: make(map[string]*Constructor)}
}

// DefineClass registers a wrapper class. An empty parent defines a root class.
func (env *Env) DefineClass(name, parent string) (*Constructor, error) {
	env.mu.Lock()
	defer env.mu.Unlock()

	if _, exists := env.classes[name]; exists {
		return nil, fmt.Errorf("class %q already defined", name)
	}

	ctor := &Constructor{Name: name}
	if parent != "" {
		p, ok := env.classes[parent]
		if !ok {
			return nil, fmt.Errorf("parent class %q of %q is not defined", parent, name)
		}
		ctor.Parent = p
	}
	env.classes[name] = ctor
	return ctor, nil
}

// Constructor looks up a wrapper class, nil when undefined.
func (env *Env) Constructor(name string) *Constructor {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.classes[name]
}

// Classes lists the defined class names, sorted.
func (env *Env) Classes() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	names := make([]string, 0, len(env.classes))
	for name := range env.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wrap creates an instance of class holding the native value.
func (env *Env) Wrap(class string, underlying any) (Value, error) {
	ctor := env.Constructor(class)
	if ctor == nil {
		return Undefined(), fmt.Errorf("class %q is not defined", class)
	}
	return (&Object{ctor: ctor, underlying: underlying}).Value(), nil
}

func (env *Env) Undefined() Value { return Undefined() }

func (env *Env) Null() Value { return Null() }

// Throw records err as the pending exception of the current call.
func (env *Env) Throw(err error) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.pending = err
}

// PendingException returns and clears the exception raised by the current call.
func (env *Env) PendingException() error {
	env.mu.Lock()
	defer env.mu.Unlock()
	err := env.pending
	env.pending = nil
	return err
}

func (env *Env) IsExceptionPending() bool {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.pending != nil
}
