// Package genrecord builds the per-table struct/enum model that
// internal/emit and internal/output render to source: one Go struct per
// table, one enum type per Enum column (plus the planner's synthetic
// pagination sort-key/direction enums), and the field metadata ScanRow/
// BindValues need.
package genrecord

import (
	"fmt"
	"sort"

	"daogen/internal/core"
	"daogen/internal/naming"
	"daogen/internal/typeresolve"
)

// Field is one struct field derived from a column.
type Field struct {
	// GoName is the exported struct field name.
	GoName string
	// Column is the raw database column name, preserved in the `db:"..."`
	// tag for row mapping.
	Column string
	Type   typeresolve.TypeRef
}

// EnumVariant is one PascalCase constant belonging to an EnumType.
type EnumVariant struct {
	GoName string
	// Literal is the raw database value the constant's string value is.
	Literal string
}

// EnumType is a synthesized `type X string` + const block.
type EnumType struct {
	GoName   string
	Variants []EnumVariant
}

// Record is everything genrecord derives for one table.
type Record struct {
	Table     *core.Table
	TypeName  string
	Fields    []Field
	EnumTypes []EnumType
	Imports   []string
}

// SortKeyEnumName and DirectionEnumName derive the synthetic pagination
// enum type names for a table, sharing EnumTypeName's
// <TableTypePascal><Suffix> convention so they live in the same
// collision-free naming space as ordinary column enums.
func SortKeyEnumName(tableName string) string {
	return naming.TypeName(tableName) + "SortKey"
}

// DirectionEnumName derives the ascending/descending enum type name.
func DirectionEnumName(tableName string) string {
	return naming.TypeName(tableName) + "SortDirection"
}

// Generate builds the Record for table. It fails with
// core.KindUnsupportedType if any column's type cannot be resolved.
func Generate(table *core.Table) (*Record, error) {
	rec := &Record{
		Table:    table,
		TypeName: naming.TypeName(table.Name),
	}

	importSet := make(map[string]bool)
	for _, col := range table.Columns {
		enumName := ""
		if _, isEnum := col.SQLType.(core.Enum); isEnum {
			enumName = naming.EnumTypeName(table.Name, col.Name)
		}

		ref, err := typeresolve.Resolve(col, enumName)
		if err != nil {
			return nil, fmt.Errorf("genrecord: table %q: %w", table.Name, err)
		}
		for _, imp := range ref.Imports {
			importSet[imp] = true
		}

		rec.Fields = append(rec.Fields, Field{
			GoName: naming.StructFieldName(col.Name),
			Column: col.Name,
			Type:   ref,
		})

		if enum, isEnum := col.SQLType.(core.Enum); isEnum {
			rec.EnumTypes = append(rec.EnumTypes, buildEnumType(enumName, enum.Variants))
		}
	}

	rec.EnumTypes = append(rec.EnumTypes, sortKeyEnum(table), directionEnum(table.Name))

	rec.Imports = sortedKeys(importSet)
	return rec, nil
}

func buildEnumType(goName string, variants []string) EnumType {
	et := EnumType{GoName: goName}
	for _, v := range variants {
		et.Variants = append(et.Variants, EnumVariant{
			GoName:  naming.EnumVariantName(v),
			Literal: v,
		})
	}
	return et
}

// sortKeyEnum synthesizes one variant per column, in declaration order,
// matching the Planner's pagination contract (§4.6: "sort_by ranges over
// a synthetic sort-key enumeration containing one variant per column").
func sortKeyEnum(table *core.Table) EnumType {
	et := EnumType{GoName: SortKeyEnumName(table.Name)}
	for _, col := range table.Columns {
		et.Variants = append(et.Variants, EnumVariant{
			GoName:  naming.StructFieldName(col.Name),
			Literal: col.Name,
		})
	}
	return et
}

func directionEnum(tableName string) EnumType {
	return EnumType{
		GoName: DirectionEnumName(tableName),
		Variants: []EnumVariant{
			{GoName: "Ascending", Literal: "asc"},
			{GoName: "Descending", Literal: "desc"},
		},
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
