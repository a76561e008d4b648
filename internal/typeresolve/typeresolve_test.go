package typeresolve

import (
	"testing"

	"daogen/internal/core"
)

func resolve(t *testing.T, sqlType core.SQLType, nullable bool) TypeRef {
	t.Helper()
	ref, err := Resolve(&core.Column{Name: "col", SQLType: sqlType, Nullable: nullable}, "MyEnum")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return ref
}

func TestResolveNumericVariants(t *testing.T) {
	cases := []struct {
		name string
		in   core.SQLType
		want string
	}{
		{"tinyint(1) is bool", core.TinyInt{Width: 1}, "bool"},
		{"tinyint(4) signed", core.TinyInt{Width: 4}, "int32"},
		{"tinyint(4) unsigned", core.TinyInt{Width: 4, Unsigned: true}, "int32"},
		{"smallint signed", core.SmallInt{}, "int32"},
		{"smallint unsigned", core.SmallInt{Unsigned: true}, "int32"},
		{"mediumint signed", core.MediumInt{}, "int32"},
		{"mediumint unsigned", core.MediumInt{Unsigned: true}, "int64"},
		{"int signed", core.Int{}, "int32"},
		{"int unsigned", core.Int{Unsigned: true}, "int64"},
		{"bigint signed", core.BigInt{}, "int64"},
		{"bigint unsigned", core.BigInt{Unsigned: true}, "int64"},
		{"bit(1)", core.Bit{Width: 1}, "bool"},
		{"bit(8)", core.Bit{Width: 8}, "[]byte"},
		{"float", core.Float{}, "float32"},
		{"double", core.Double{}, "float64"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolve(t, tc.in, false)
			if got.GoType != tc.want {
				t.Errorf("GoType = %q, want %q", got.GoType, tc.want)
			}
		})
	}
}

func TestResolveStringsAndBytes(t *testing.T) {
	cases := []struct {
		in   core.SQLType
		want string
	}{
		{core.Char{}, "string"},
		{core.VarChar{}, "string"},
		{core.Text{}, "string"},
		{core.Set{Variants: []string{"a", "b"}}, "string"},
		{core.Binary{}, "[]byte"},
		{core.VarBinary{}, "[]byte"},
		{core.Blob{}, "[]byte"},
	}
	for _, tc := range cases {
		got := resolve(t, tc.in, false)
		if got.GoType != tc.want {
			t.Errorf("Resolve(%T).GoType = %q, want %q", tc.in, got.GoType, tc.want)
		}
	}
}

func TestResolveTemporalAndDecimal(t *testing.T) {
	if got := resolve(t, core.Date{}, false); got.GoType != "time.Time" {
		t.Errorf("Date -> %q", got.GoType)
	}
	if got := resolve(t, core.Time{}, false); got.GoType != "time.Duration" {
		t.Errorf("Time -> %q", got.GoType)
	}
	if got := resolve(t, core.DateTime{}, false); got.GoType != "time.Time" {
		t.Errorf("DateTime -> %q", got.GoType)
	}
	if got := resolve(t, core.Timestamp{}, false); got.GoType != "time.Time" {
		t.Errorf("Timestamp -> %q", got.GoType)
	}
	dec := resolve(t, core.Decimal{Precision: 10, Scale: 2}, false)
	if dec.GoType != "decimal.Decimal" {
		t.Errorf("Decimal -> %q", dec.GoType)
	}
	if len(dec.Imports) != 1 || dec.Imports[0] != "github.com/shopspring/decimal" {
		t.Errorf("Decimal imports = %v", dec.Imports)
	}
}

func TestResolveJSONAndEnum(t *testing.T) {
	j := resolve(t, core.JSON{}, false)
	if j.GoType != "json.RawMessage" {
		t.Errorf("JSON -> %q", j.GoType)
	}
	e := resolve(t, core.Enum{Variants: []string{"A", "B"}}, false)
	if e.GoType != "MyEnum" {
		t.Errorf("Enum -> %q, want MyEnum", e.GoType)
	}
}

func TestResolveNullableWrapsInPointer(t *testing.T) {
	ref := resolve(t, core.Int{}, true)
	if !ref.Nullable {
		t.Fatal("expected Nullable = true")
	}
	if ref.Rendered() != "*int32" {
		t.Errorf("Rendered() = %q, want *int32", ref.Rendered())
	}

	nonNull := resolve(t, core.Int{}, false)
	if nonNull.Rendered() != "int32" {
		t.Errorf("Rendered() = %q, want int32", nonNull.Rendered())
	}
}

// There is deliberately no test constructing an "unknown" core.SQLType:
// the interface's unexported marker method seals it to this module, so
// every value reaching Resolve is necessarily one of the variants already
// covered above.
