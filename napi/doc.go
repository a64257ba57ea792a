// Package napi models the part of the scripting runtime that generated argument
// conversions touch: call arguments, coercions, wrapper objects and the three
// ways a binding method reports failure (a thrown exception, a rejected promise,
// or an exception from a method with no result).
//
// The names follow node-addon-api so that Go code emitted by the generator reads
// like its C++ counterpart:
//
//	env := info.Env()
//	radius := info.At(1).ToNumber().DoubleValue()
//	if info.At(0).IsNull() || info.At(0).IsUndefined() {
//		napi.NewError(env, "Passed null for non-optional parameter 'solid'").ThrowAsJavaScriptException()
//		return env.Undefined()
//	}
//
// Native values are held as any; wrappers created by Env.Wrap return them unchanged
// from Object.Underlying.
package napi
