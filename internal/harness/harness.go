// Package harness runs conversion blocks against runtime values, standing in for
// the compiled binding so the generated marshalling can be checked without a
// native toolchain.
package harness

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"napigen/internal/conversion"
	"napigen/internal/errors"
	"napigen/internal/metadata"
	"napigen/napi"
)

// Channel is how a failed call reached its caller.
type Channel int

const (
	ChannelThrown Channel = iota + 1
	ChannelRejected
)

func (c Channel) String() string {
	switch c {
	case ChannelThrown:
		return "thrown"
	case ChannelRejected:
		return "rejected"
	}
	return "none"
}

// Failure is a conversion that gave up on the call.
type Failure struct {
	Param   string
	Message string
	Kind    conversion.Failure
	Channel Channel
	// ReturnsUndefined is set for value methods, which return undefined after throwing.
	ReturnsUndefined bool
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (%s): %s", f.Kind, f.Channel, f.Message)
}

// Err expresses the failure in the error taxonomy.
func (f *Failure) Err() *errors.Error {
	return errors.New(errors.PhaseCall, f.Kind.ErrorKind()).
		Path(f.Param).
		Detail("%s", f.Message).
		Build()
}

// Warning is an array element skipped because it was null or undefined.
type Warning struct {
	Param   string
	Index   int
	Message string
}

func (w *Warning) String() string {
	return w.Param + ": " + w.Message
}

// Err expresses the skipped element in the error taxonomy.
func (w *Warning) Err() *errors.Error {
	return errors.New(errors.PhaseCall, errors.KindNullElement).
		Path(w.Param).
		Value(w.Index).
		Detail("%s", w.Message).
		Build()
}

// Enum is a converted enum argument.
type Enum struct {
	Type  string
	Value uint32
}

// Result is the outcome of converting the arguments of one call.
type Result struct {
	// Locals holds every native local bound before the call finished or failed.
	Locals map[string]any
	// Failure is nil when all arguments converted and the native call would proceed.
	Failure *Failure
	// Promise is the pending result of a promise method, rejected on failure.
	Promise  *napi.Promise
	Warnings []*Warning
}

// Proceeds reports whether the native call would run.
func (r *Result) Proceeds() bool {
	return r.Failure == nil
}

// Harness executes conversions. Diagnostics receives the warnings the generated
// code would print to standard error; nil discards them.
type Harness struct {
	Diagnostics io.Writer
}

func New(diagnostics io.Writer) *Harness {
	return &Harness{Diagnostics: diagnostics}
}

// Exec converts a single parameter.
func (h *Harness) Exec(block *conversion.Block, info *napi.CallInfo) (*Result, error) {
	return h.ExecMethod(block.Kind, []*conversion.Block{block}, info)
}

// ExecMethod converts the parameters of one call in order, stopping at the first
// failure as the generated method body returns at that point.
func (h *Harness) ExecMethod(kind metadata.CallKind, blocks []*conversion.Block, info *napi.CallInfo) (*Result, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Detail("unknown call kind %q", kind).
			Build()
	}

	f := &frame{
		harness: h,
		info:    info,
		env:     info.Env(),
		kind:    kind,
		result:  &Result{Locals: make(map[string]any)},
	}
	if kind == metadata.CallPromise {
		f.deferred = napi.NewDeferred(f.env)
		f.result.Promise = f.deferred.Promise()
	}

	for _, block := range blocks {
		if block.Kind != kind {
			return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Path(block.Param.Name).
				Detail("block converted for %q executed in a %q call", block.Kind, kind).
				Build()
		}
		f.param = block.Param.Name
		if err := f.run(block.Stmts); err != nil {
			return nil, err
		}
		if f.stopped {
			break
		}
	}

	Logger().Debug("call converted",
		zap.String("kind", string(kind)),
		zap.Int("params", len(blocks)),
		zap.Bool("proceeds", f.result.Proceeds()),
		zap.Int("warnings", len(f.result.Warnings)))

	return f.result, nil
}
