package typemap

import (
	"time"

	"github.com/google/uuid"
)

// Literals produces placeholder argument literals for schema probes.
type Literals interface {
	DefaultLiteral(name string) string
}

// KQL renders Kusto query language literals.
type KQL struct {
	// Now returns the timestamp used for datetime placeholders, time.Now when nil.
	Now func() time.Time
}

const kqlDateTimeLayout = "2006-01-02T15:04:05.0000000Z"

// DefaultLiteral returns a valid KQL literal for the scalar type name.
func (l KQL) DefaultLiteral(name string) string {
	switch ParseKind(name) {
	case Bool:
		return "false"
	case DateTime:
		return "datetime(" + now(l.Now).Format(kqlDateTimeLayout) + ")"
	case Decimal, Int, Long, Double, Real:
		return "-1"
	case Guid:
		return "guid(" + uuid.Nil.String() + ")"
	case String:
		return "''"
	case TimeSpan:
		return "timespan(00:00:01)"
	case Dynamic:
		return "dynamic({})"
	default:
		return "null"
	}
}

// SQL renders PostgreSQL literals. Every placeholder is an untyped string
// constant so that PostgreSQL resolves it against the declared parameter type:
// typed constants only reach parameters through implicit casts, which rules out
// date, timestamp, smallint and json parameters.
type SQL struct {
	Now func() time.Time
}

// DefaultLiteral returns a valid PostgreSQL literal for the scalar type name.
func (l SQL) DefaultLiteral(name string) string {
	switch ParseKind(name) {
	case Bool:
		return quote("false")
	case DateTime:
		return quote(now(l.Now).Format(time.RFC3339Nano))
	case Decimal, Int, Long, Double, Real:
		return quote("-1")
	case Guid:
		return quote(uuid.Nil.String())
	case String:
		return "''"
	case TimeSpan:
		// valid input for both interval and time
		return quote("00:00:01")
	case Dynamic:
		// valid for json, jsonb and empty arrays
		return quote("{}")
	default:
		return "NULL"
	}
}

func quote(s string) string {
	return "'" + s + "'"
}

func now(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}

	return clock().UTC()
}
