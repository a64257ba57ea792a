// Package conversion turns parameter descriptors into the statements that marshal
// one call argument from the scripting runtime into a native local.
//
// Conversion is a pure function of the descriptor and the method's call kind:
//
//	block, err := conversion.Convert(param, metadata.CallPromise)
//
// The result is a small statement IR (Declare, Assign, If, ForEach, Append, Warn,
// Signal) over semantic expressions (Arg, NumberOf, Unwrap, Underlying, ...).
// Renderers in the generation package spell it as C++ or Go, and the harness
// package executes it against runtime values.
//
// Signal is the single failure primitive. It does not know how a failure reaches
// the caller; that is decided by the call kind when the block is rendered or run.
package conversion
