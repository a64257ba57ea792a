package napi

import (
	"math"
	"strconv"
	"strings"
)

// ValueType is the runtime type of a Value.
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

var typeNames = [...]string{
	TypeUndefined: "undefined",
	TypeNull:      "null",
	TypeBoolean:   "boolean",
	TypeNumber:    "number",
	TypeString:    "string",
	TypeArray:     "array",
	TypeObject:    "object",
}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Value is a runtime value passed as a call argument. The zero Value is undefined.
type Value struct {
	obj   *Object
	str   string
	elems []Value
	num   float64
	kind  ValueType
	b     bool
}

func Undefined() Value { return Value{kind: TypeUndefined} }

func Null() Value { return Value{kind: TypeNull} }

func NewBoolean(b bool) Value { return Value{kind: TypeBoolean, b: b} }

func NewNumber(f float64) Value { return Value{kind: TypeNumber, num: f} }

func NewString(s string) Value { return Value{kind: TypeString, str: s} }

// NewArray builds an array value; the elements are copied.
func NewArray(elems ...Value) Value {
	return Value{kind: TypeArray, elems: append([]Value(nil), elems...)}
}

func (v Value) Type() ValueType { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == TypeUndefined }

func (v Value) IsNull() bool { return v.kind == TypeNull }

// IsObject is true for objects and arrays.
func (v Value) IsObject() bool { return v.kind == TypeObject || v.kind == TypeArray }

func (v Value) IsArray() bool { return v.kind == TypeArray }

// ToBoolean applies the language's truthiness rules.
func (v Value) ToBoolean() bool {
	switch v.kind {
	case TypeBoolean:
		return v.b
	case TypeNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TypeString:
		return v.str != ""
	case TypeArray, TypeObject:
		return true
	}
	return false
}

// ToNumber coerces the value to a number.
func (v Value) ToNumber() Number {
	switch v.kind {
	case TypeNull:
		return 0
	case TypeBoolean:
		if v.b {
			return 1
		}
		return 0
	case TypeNumber:
		return Number(v.num)
	case TypeString:
		return Number(parseNumber(v.str))
	case TypeArray:
		return Number(parseNumber(v.ToString().Utf8Value()))
	}
	return Number(math.NaN())
}

// ToString coerces the value to a string.
func (v Value) ToString() String {
	switch v.kind {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return String(strconv.FormatBool(v.b))
	case TypeNumber:
		return String(formatNumber(v.num))
	case TypeString:
		return String(v.str)
	case TypeArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			if e.IsNull() || e.IsUndefined() {
				continue
			}
			parts[i] = e.ToString().Utf8Value()
		}
		return String(strings.Join(parts, ","))
	}
	return "[object Object]"
}

// ToObject returns the object behind the value. Primitives are boxed into a plain
// object that wraps nothing, so unwrapping them yields nil.
func (v Value) ToObject() *Object {
	if v.kind == TypeObject && v.obj != nil {
		return v.obj
	}
	return &Object{}
}

// Number is a value coerced by ToNumber.
type Number float64

func (n Number) DoubleValue() float64 { return float64(n) }

// Int64Value truncates toward zero. Non-finite numbers read as 0 and out of range
// numbers saturate.
func (n Number) Int64Value() int64 {
	f := float64(n)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Uint32Value reduces the number modulo 2^32.
func (n Number) Uint32Value() uint32 {
	return uint32(toUint32(float64(n)))
}

func toUint32(f float64) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint64(m)
}

// String is a value coerced by ToString.
type String string

func (s String) Utf8Value() string { return string(s) }

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil || strings.Contains(s, "_") {
				return math.NaN()
			}
			return float64(u)
		}
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.ContainsAny(s, "_xXpP") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// formatNumber spells a number the way the runtime's Number::toString does.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// d.ddde±xx
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exponent, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(exponent)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}

	e := n - 1
	expSign := "+"
	if e < 0 {
		expSign = "-"
		e = -e
	}
	if k == 1 {
		return sign + digits + "e" + expSign + strconv.Itoa(e)
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(e)
}
