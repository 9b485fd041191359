// Package typemap translates remote scalar type names into C# type names and
// into placeholder literals used to probe function schemas.
package typemap

import (
	"strings"
)

// Kind is the closed set of scalar categories understood by the generator.
type Kind int

const (
	Unknown Kind = iota
	Bool
	DateTime
	Decimal
	Guid
	Int
	Long
	Real
	Double
	String
	TimeSpan
	Dynamic
)

var kindNames = map[Kind]string{
	Unknown:  "unknown",
	Bool:     "bool",
	DateTime: "datetime",
	Decimal:  "decimal",
	Guid:     "guid",
	Int:      "int",
	Long:     "long",
	Real:     "real",
	Double:   "double",
	String:   "string",
	TimeSpan: "timespan",
	Dynamic:  "dynamic",
}

// String returns the canonical scalar name of the kind.
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return kindNames[Unknown]
	}

	return name
}

// ParseKind resolves a scalar type name. Unrecognized names resolve to Unknown.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool", "boolean":
		return Bool
	case "datetime", "date":
		return DateTime
	case "decimal":
		return Decimal
	case "guid", "uuid", "uudi", "uniqueid":
		return Guid
	case "int":
		return Int
	case "long":
		return Long
	case "real":
		return Real
	case "double":
		return Double
	case "string":
		return String
	case "timespan", "time":
		return TimeSpan
	case "dynamic":
		return Dynamic
	default:
		return Unknown
	}
}

// Mapper translates remote type names into target language type expressions.
type Mapper interface {
	// MapType translates a column type as reported by the schema listing.
	MapType(remoteType string, nullable bool) string
	// MapScalarType translates a scalar type name such as a function parameter type.
	MapScalarType(name string, nullable bool) string
}

const (
	systemPrefix   = "System."
	nullableSuffix = "?"
	csharpString   = "string"
	csharpFallback = "object?"
)

// CSharp maps remote types to C# type names.
type CSharp struct{}

// MapType strips the System namespace, lower-cases the string, object and sbyte
// aliases and keeps every other name as is. Everything but a string in
// non-nullable mode gets the nullable suffix.
func (CSharp) MapType(remoteType string, nullable bool) string {
	return MapType(remoteType, nullable)
}

// MapScalarType maps the scalar vocabulary to C# types, falling back to object?.
func (CSharp) MapScalarType(name string, nullable bool) string {
	return MapScalarType(name, nullable)
}

// MapType is the CSharp column type translation.
func MapType(remoteType string, nullable bool) string {
	typ := strings.ReplaceAll(strings.TrimSpace(remoteType), systemPrefix, "")
	switch typ {
	case "String", "Object", "SByte":
		typ = strings.ToLower(typ)
	case "":
		typ = "object"
	}

	if !nullable && typ == csharpString {
		return typ
	}

	return typ + nullableSuffix
}

// MapScalarType is the CSharp scalar type translation.
func MapScalarType(name string, nullable bool) string {
	switch ParseKind(name) {
	case Bool:
		return "bool?"
	case DateTime:
		return "DateTime?"
	case Decimal:
		return "decimal?"
	case Guid:
		return "Guid?"
	case Int:
		return "int?"
	case Long:
		return "long?"
	case Real, Double:
		return "double?"
	case String:
		if nullable {
			return csharpString + nullableSuffix
		}
		return csharpString
	case TimeSpan:
		return "TimeSpan?"
	case Dynamic:
		return "object?"
	default:
		return csharpFallback
	}
}
