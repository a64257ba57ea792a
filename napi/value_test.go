package napi

import (
	"math"
	"testing"
)

func TestValue_ToNumber(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  float64
		nan   bool
	}{
		{"undefined", Undefined(), 0, true},
		{"null", Null(), 0, false},
		{"true", NewBoolean(true), 1, false},
		{"false", NewBoolean(false), 0, false},
		{"number", NewNumber(2.5), 2.5, false},
		{"empty string", NewString(""), 0, false},
		{"padded string", NewString("  42 "), 42, false},
		{"exponent", NewString("1e3"), 1000, false},
		{"hex", NewString("0x1F"), 31, false},
		{"binary", NewString("0b101"), 5, false},
		{"infinity", NewString("-Infinity"), math.Inf(-1), false},
		{"go-only infinity spelling", NewString("inf"), 0, true},
		{"garbage", NewString("12px"), 0, true},
		{"empty array", NewArray(), 0, false},
		{"single element array", NewArray(NewString("7")), 7, false},
		{"two element array", NewArray(NewNumber(1), NewNumber(2)), 0, true},
		{"object", NewObject().Value(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.value.ToNumber().DoubleValue()
			if tt.nan {
				if !math.IsNaN(got) {
					t.Errorf("ToNumber() = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ToNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumber_Int64Value(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{3.9, 3},
		{-3.9, -3},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{1e300, math.MaxInt64},
		{-1e300, math.MinInt64},
	}

	for _, tt := range tests {
		if got := Number(tt.in).Int64Value(); got != tt.want {
			t.Errorf("Int64Value(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNumber_Uint32Value(t *testing.T) {
	tests := []struct {
		in   float64
		want uint32
	}{
		{7.8, 7},
		{-1, math.MaxUint32},
		{4294967296, 0},
		{4294967297, 1},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := Number(tt.in).Uint32Value(); got != tt.want {
			t.Errorf("Uint32Value(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValue_ToBoolean(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"undefined", Undefined(), false},
		{"null", Null(), false},
		{"zero", NewNumber(0), false},
		{"nan", NewNumber(math.NaN()), false},
		{"negative", NewNumber(-1), true},
		{"empty string", NewString(""), false},
		{"string", NewString("0"), true},
		{"empty array", NewArray(), true},
		{"object", NewObject().Value(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.ToBoolean(); got != tt.want {
				t.Errorf("ToBoolean() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_ToString(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Undefined(), "undefined"},
		{Null(), "null"},
		{NewBoolean(true), "true"},
		{NewNumber(1), "1"},
		{NewNumber(-0.5), "-0.5"},
		{NewNumber(1e21), "1e+21"},
		{NewNumber(1e20), "100000000000000000000"},
		{NewNumber(1.5e-7), "1.5e-7"},
		{NewNumber(0.000001), "0.000001"},
		{NewNumber(math.NaN()), "NaN"},
		{NewNumber(math.Inf(-1)), "-Infinity"},
		{NewString("héllo"), "héllo"},
		{NewArray(NewNumber(1), Null(), NewString("a")), "1,,a"},
		{NewObject().Value(), "[object Object]"},
	}

	for _, tt := range tests {
		if got := tt.value.ToString().Utf8Value(); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.value.Type(), got, tt.want)
		}
	}
}

func TestEnv_WrapUnwrap(t *testing.T) {
	env := NewEnv()
	if _, err := env.DefineClass("TopologyItem", ""); err != nil {
		t.Fatal(err)
	}
	face, err := env.DefineClass("Face", "TopologyItem")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.DefineClass("Face", ""); err == nil {
		t.Error("redefining a class should fail")
	}
	if _, err := env.DefineClass("Edge", "Curve"); err == nil {
		t.Error("undefined parent should fail")
	}

	native := &struct{ id int }{id: 7}
	v, err := env.Wrap("Face", native)
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsObject() {
		t.Fatal("wrapped value should be an object")
	}

	obj := v.ToObject()
	if !obj.InstanceOf(face) {
		t.Error("wrapper should be an instance of its class")
	}
	if !obj.InstanceOf(env.Constructor("TopologyItem")) {
		t.Error("wrapper should be an instance of its parent class")
	}
	if obj.InstanceOf(env.Constructor("Missing")) {
		t.Error("nil constructor never matches")
	}

	wrapper := Unwrap(obj)
	if wrapper == nil || wrapper.Underlying() != native {
		t.Error("Unwrap should return the wrapped native value")
	}
	if Unwrap(NewNumber(3).ToObject()) != nil {
		t.Error("boxed primitives wrap nothing")
	}
	if _, err := env.Wrap("Missing", native); err == nil {
		t.Error("wrapping with an undefined class should fail")
	}

	classes := env.Classes()
	if len(classes) != 2 || classes[0] != "Face" || classes[1] != "TopologyItem" {
		t.Errorf("Classes = %v", classes)
	}
}

func TestCallInfo(t *testing.T) {
	env := NewEnv()
	info := NewCallInfo(env, NewNumber(1))
	if info.Length() != 1 || info.Env() != env {
		t.Fatal("CallInfo lost its arguments")
	}
	if !info.At(5).IsUndefined() || !info.At(-1).IsUndefined() {
		t.Error("missing arguments should read as undefined")
	}
}

func TestArrayFrom(t *testing.T) {
	env := NewEnv()
	arr := ArrayFrom(env, NewArray(NewNumber(1), Null()))
	if arr.Length() != 2 || !arr.Get(1).IsNull() || !arr.Get(9).IsUndefined() {
		t.Errorf("unexpected view of array")
	}
	if env.IsExceptionPending() {
		t.Error("viewing an array should not raise")
	}

	empty := ArrayFrom(env, NewNumber(1))
	if empty.Length() != 0 {
		t.Error("non-array should yield an empty view")
	}
	err := env.PendingException()
	if err == nil || err.Error() != "An array was expected" {
		t.Errorf("PendingException() = %v", err)
	}
	if env.IsExceptionPending() {
		t.Error("PendingException should clear the exception")
	}
}

func TestContainer(t *testing.T) {
	heap := NewContainer(2)
	heap.Add("a")
	stack := MakeContainer(0)
	stack.Add("b")
	stack.Add("c")
	if heap.Len() != 1 || stack.Len() != 2 || stack.At(1) != "c" {
		t.Error("containers did not collect items")
	}
	items := stack.Items()
	items[0] = "z"
	if stack.At(0) != "b" {
		t.Error("Items should return a copy")
	}
}

func TestDeferred(t *testing.T) {
	env := NewEnv()
	d := NewDeferred(env)
	if d.Promise().State != PromisePending {
		t.Fatal("new promise should be pending")
	}
	d.Reject(NewString("no"))
	d.Resolve(NewNumber(1))
	p := d.Promise()
	if p.State != PromiseRejected || p.Result.ToString().Utf8Value() != "no" {
		t.Errorf("promise = %v %v", p.State, p.Result.ToString())
	}
	if p.State.String() != "rejected" {
		t.Errorf("State.String() = %q", p.State.String())
	}
}

func TestError_Throw(t *testing.T) {
	env := NewEnv()
	NewError(env, "boom").ThrowAsJavaScriptException()
	err := env.PendingException()
	if err == nil || err.Error() != "boom" {
		t.Errorf("PendingException() = %v", err)
	}
	NewError(nil, "detached").ThrowAsJavaScriptException()
}
