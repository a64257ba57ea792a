package harness

import (
	"fmt"

	"go.uber.org/zap"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
	"napigen/napi"
)

type frame struct {
	harness  *Harness
	info     *napi.CallInfo
	env      *napi.Env
	deferred *napi.Deferred
	result   *Result
	kind     metadata.CallKind
	param    string
	stopped  bool
}

func (f *frame) run(stmts []conversion.Stmt) error {
	for _, stmt := range stmts {
		if f.stopped {
			return nil
		}
		if err := f.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) exec(stmt conversion.Stmt) error {
	switch s := stmt.(type) {
	case conversion.Declare:
		var value any
		if s.Init != nil {
			v, err := f.eval(s.Init)
			if err != nil {
				return err
			}
			value = narrow(s.Type, v)
		}
		f.result.Locals[s.Name] = value
	case conversion.Assign:
		v, err := f.eval(s.Value)
		if err != nil {
			return err
		}
		f.result.Locals[s.Name] = v
	case conversion.If:
		cond, err := f.evalBool(s.Cond)
		if err != nil {
			return err
		}
		if cond {
			return f.run(s.Then)
		}
		return f.run(s.Else)
	case conversion.ForEach:
		arr, ok := f.result.Locals[s.Array].(napi.Array)
		if !ok {
			return f.fault("%s is not an array view", s.Array)
		}
		// The index is scoped to the loop; restore whatever the name held before.
		prev, bound := f.result.Locals[s.Index]
		defer func() {
			if bound {
				f.result.Locals[s.Index] = prev
			} else {
				delete(f.result.Locals, s.Index)
			}
		}()
		for i := uint32(0); i < arr.Length() && !f.stopped; i++ {
			f.result.Locals[s.Index] = i
			if err := f.run(s.Body); err != nil {
				return err
			}
		}
	case conversion.Append:
		container, ok := f.result.Locals[s.Container].(*napi.Container)
		if !ok {
			return f.fault("%s is not a container", s.Container)
		}
		v, err := f.eval(s.Value)
		if err != nil {
			return err
		}
		container.Add(v)
	case conversion.Warn:
		index, _ := f.result.Locals[s.Index].(uint32)
		f.warn(int(index))
	case conversion.Signal:
		f.signal(s)
	default:
		return errors.Unsupported(errors.PhaseCall, fmt.Sprintf("statement %T", stmt))
	}
	return nil
}

// signal reports a failure through the call kind's channel and ends the call.
func (f *frame) signal(s conversion.Signal) {
	failure := &Failure{Param: f.param, Message: s.Message, Kind: s.Failure}

	switch f.kind {
	case metadata.CallPromise:
		f.deferred.Reject(napi.NewString(s.Message))
		failure.Channel = ChannelRejected
	case metadata.CallValue:
		napi.NewError(f.env, s.Message).ThrowAsJavaScriptException()
		failure.Channel = ChannelThrown
		failure.ReturnsUndefined = true
	default:
		napi.NewError(f.env, s.Message).ThrowAsJavaScriptException()
		failure.Channel = ChannelThrown
	}

	f.result.Failure = failure
	f.stopped = true

	Logger().Debug("conversion failed",
		zap.String("param", f.param),
		zap.Stringer("failure", s.Failure),
		zap.Stringer("channel", failure.Channel))
}

func (f *frame) warn(index int) {
	w := &Warning{Param: f.param, Index: index, Message: conversion.NullElementWarning(index)}
	f.result.Warnings = append(f.result.Warnings, w)
	if f.harness.Diagnostics != nil {
		fmt.Fprintln(f.harness.Diagnostics, w)
	}
	Logger().Warn("skipped null array element",
		zap.String("param", f.param),
		zap.Int("index", index),
		zap.String("kind", string(errors.KindNullElement)))
}

func (f *frame) eval(expr conversion.Expr) (any, error) {
	switch e := expr.(type) {
	case conversion.Arg:
		return f.info.At(e.Index), nil
	case conversion.Local:
		v, ok := f.result.Locals[e.Name]
		if !ok {
			return nil, f.fault("local %s is not declared", e.Name)
		}
		return v, nil
	case conversion.Elem:
		arr, ok := f.result.Locals[e.Array].(napi.Array)
		if !ok {
			return nil, f.fault("%s is not an array view", e.Array)
		}
		index, ok := f.result.Locals[e.Index].(uint32)
		if !ok {
			return nil, f.fault("%s is not a loop index", e.Index)
		}
		return arr.Get(index), nil
	case conversion.NumberOf:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		n := v.ToNumber()
		switch e.As {
		case conversion.NumberInt64:
			return n.Int64Value(), nil
		case conversion.NumberUint32:
			return n.Uint32Value(), nil
		}
		return n.DoubleValue(), nil
	case conversion.BoolOf:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		return v.ToBoolean(), nil
	case conversion.StringOf:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		return v.ToString().Utf8Value(), nil
	case conversion.ArrayOf:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		arr := napi.ArrayFrom(f.env, v)
		if !v.IsArray() {
			return nil, errors.New(errors.PhaseCall, errors.KindTypeMismatch).
				Path(f.param).
				JsType(v.Type().String()).
				Cause(f.env.PendingException()).
				Detail("argument is not an array").
				Build()
		}
		return arr, nil
	case conversion.Length:
		v, err := f.eval(e.X)
		if err != nil {
			return nil, err
		}
		arr, ok := v.(napi.Array)
		if !ok {
			return nil, f.fault("length of %T", v)
		}
		return arr.Length(), nil
	case conversion.IsNullish:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		return v.IsNull() || v.IsUndefined(), nil
	case conversion.IsInstance:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		return v.IsObject() && v.ToObject().InstanceOf(f.env.Constructor(e.Class)), nil
	case conversion.Not:
		b, err := f.evalBool(e.X)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case conversion.Unwrap:
		v, err := f.evalValue(e.X)
		if err != nil {
			return nil, err
		}
		wrapper := napi.Unwrap(v.ToObject())
		if wrapper == nil {
			return nil, errors.New(errors.PhaseCall, errors.KindTypeMismatch).
				Path(f.param).
				NativeType(e.Class).
				JsType(v.Type().String()).
				Detail("value does not wrap a native object").
				Build()
		}
		return wrapper, nil
	case conversion.Underlying:
		v, err := f.eval(e.X)
		if err != nil {
			return nil, err
		}
		wrapper, ok := v.(*napi.Object)
		if !ok {
			return nil, f.fault("underlying value of %T", v)
		}
		return wrapper.Underlying(), nil
	case conversion.Deref:
		// Native values are shared, not copied; dereferencing keeps identity.
		return f.eval(e.X)
	case conversion.Cast:
		v, err := f.eval(e.X)
		if err != nil {
			return nil, err
		}
		n, ok := v.(uint32)
		if !ok {
			return nil, f.fault("cast of %T to %s", v, e.To.Name)
		}
		return Enum{Type: e.To.Name, Value: n}, nil
	case conversion.Null:
		return nil, nil
	case conversion.NewContainer:
		v, err := f.eval(e.Len)
		if err != nil {
			return nil, err
		}
		n, _ := v.(uint32)
		if e.Heap {
			return napi.NewContainer(n), nil
		}
		c := napi.MakeContainer(n)
		return &c, nil
	}
	return nil, errors.Unsupported(errors.PhaseCall, fmt.Sprintf("expression %T", expr))
}

func (f *frame) evalValue(expr conversion.Expr) (napi.Value, error) {
	v, err := f.eval(expr)
	if err != nil {
		return napi.Value{}, err
	}
	value, ok := v.(napi.Value)
	if !ok {
		return napi.Value{}, f.fault("expected a runtime value, got %T", v)
	}
	return value, nil
}

func (f *frame) evalBool(expr conversion.Expr) (bool, error) {
	v, err := f.eval(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, f.fault("expected a condition, got %T", v)
	}
	return b, nil
}

// fault reports a malformed block, never a property of the arguments.
func (f *frame) fault(format string, args ...any) error {
	return errors.New(errors.PhaseCall, errors.KindInvalidInput).
		Path(f.param).
		Detail(format, args...).
		Build()
}

// narrow converts an initialiser to the declared native type. Native int is 32 bits
// and wraps like a C++ narrowing conversion.
func narrow(t conversion.Type, v any) any {
	if n, ok := v.(int64); ok && t.Kind == conversion.TypeInt {
		return int32(n)
	}
	return v
}
