package conversion

import "napigen/internal/metadata"

// Path is the conversion chosen for a parameter.
type Path int

const (
	PathDouble Path = iota
	PathInteger
	PathBool
	PathArray
	PathString
	PathEnum
	PathOptional
	PathRequired
)

var pathNames = [...]string{
	PathDouble:   "double",
	PathInteger:  "integer",
	PathBool:     "bool",
	PathArray:    "array",
	PathString:   "string",
	PathEnum:     "enum",
	PathOptional: "optional",
	PathRequired: "required",
}

func (p Path) String() string {
	if p < 0 || int(p) >= len(pathNames) {
		return "unknown"
	}
	return pathNames[p]
}

// Classify picks the conversion for a parameter. The checks are ordered and the
// first match wins, so a descriptor flagged both isNumber and isEnum converts as a number.
func Classify(p metadata.Parameter) Path {
	switch {
	case p.RawType == "double":
		return PathDouble
	case p.IsNumber:
		return PathInteger
	case p.RawType == "bool" || p.IsBool:
		return PathBool
	case p.JsType == "Array":
		return PathArray
	case p.IsCppString2CString:
		return PathString
	case p.IsEnum:
		return PathEnum
	case p.IsOptional || p.IsNullable:
		return PathOptional
	default:
		return PathRequired
	}
}
