// Package typeresolve maps core.SQLType values onto Go type references.
// The mapping is closed and total: Resolve must handle every core.SQLType
// variant, and its test enumerates them all to keep that exhaustive.
//
// This package never makes naming decisions. For an Enum column the
// caller supplies the already-derived enum type name (see
// internal/naming.EnumTypeName) — the resolver only decides whether to
// wrap it in a pointer.
package typeresolve

import (
	"fmt"

	"daogen/internal/core"
)

// TypeRef is a resolved Go type reference: its spelling, whether it needs
// a pointer wrapper for nullability, and the imports a file using it must
// carry.
type TypeRef struct {
	// GoType is the unwrapped type's spelling, e.g. "int64" or
	// "decimal.Decimal". Never includes a leading "*".
	GoType string

	// Nullable is true when the column allows NULL; the caller renders
	// the field/parameter type as "*" + GoType in that case.
	Nullable bool

	// Imports lists the import paths the generated file needs for
	// GoType; empty for predeclared types (bool, int64, string, ...).
	Imports []string
}

// Rendered returns the type as it should be spelled in generated source:
// GoType itself, or "*"+GoType when Nullable.
func (t TypeRef) Rendered() string {
	if t.Nullable {
		return "*" + t.GoType
	}
	return t.GoType
}

// Resolve maps one column's SQL type (plus its nullability) to a TypeRef.
// enumTypeName is used only when col.SQLType is core.Enum; it is ignored
// otherwise and may be empty.
func Resolve(col *core.Column, enumTypeName string) (TypeRef, error) {
	base, imports, err := resolveBase(col, enumTypeName)
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{GoType: base, Nullable: col.Nullable, Imports: imports}, nil
}

func resolveBase(col *core.Column, enumTypeName string) (string, []string, error) {
	switch t := col.SQLType.(type) {
	case core.TinyInt:
		if t.Width == 1 {
			return "bool", nil, nil
		}
		return "int32", nil, nil

	case core.Bit:
		if t.Width <= 1 {
			return "bool", nil, nil
		}
		return "[]byte", nil, nil

	case core.SmallInt, core.MediumInt, core.Int:
		// MediumInt/Int UNSIGNED need the wider 64-bit target; SmallInt
		// never does, since even SMALLINT UNSIGNED fits in int32.
		if unsignedWidensTo64(t) {
			return "int64", nil, nil
		}
		return "int32", nil, nil

	case core.BigInt:
		// BIGINT UNSIGNED deliberately maps to signed int64: the
		// database's upper range (up to 2^64-1) is not representable,
		// and widening further would poison ordinary arithmetic. Values
		// above math.MaxInt64 silently wrap; callers relying on the
		// extreme end of BIGINT UNSIGNED must read the raw bytes
		// themselves.
		return "int64", nil, nil

	case core.Float:
		return "float32", nil, nil

	case core.Double:
		return "float64", nil, nil

	case core.Decimal:
		return "decimal.Decimal", []string{"github.com/shopspring/decimal"}, nil

	case core.Char, core.VarChar, core.Text, core.Set:
		return "string", nil, nil

	case core.Binary, core.VarBinary, core.Blob:
		return "[]byte", nil, nil

	case core.Date:
		return "time.Time", []string{"time"}, nil

	case core.Time:
		return "time.Duration", []string{"time"}, nil

	case core.DateTime, core.Timestamp:
		return "time.Time", []string{"time"}, nil

	case core.JSON:
		return "json.RawMessage", []string{"encoding/json"}, nil

	case core.Enum:
		if enumTypeName == "" {
			return "", nil, fmt.Errorf("typeresolve: enum column %q resolved with no enum type name", col.Name)
		}
		return enumTypeName, nil, nil

	default:
		return "", nil, fmt.Errorf("typeresolve: %w", &core.Error{
			Kind:    core.KindUnsupportedType,
			Column:  col.Name,
			Message: fmt.Sprintf("column type %T is outside the closed resolver set", col.SQLType),
		})
	}
}

// unsignedWidensTo64 reports whether t (a SmallInt, MediumInt, or Int) is
// an UNSIGNED variant that needs the wider 64-bit target. SmallInt never
// does (its unsigned range still fits int32); MediumInt and Int do.
func unsignedWidensTo64(t core.SQLType) bool {
	switch v := t.(type) {
	case core.SmallInt:
		return false
	case core.MediumInt:
		return v.Unsigned
	case core.Int:
		return v.Unsigned
	default:
		return false
	}
}
