// Package output renders genrecord.Record/emit.DAO values into complete Go
// source files and writes them to their destination directories. It owns
// the deterministic file layout and the atomic write-temp-then-rename
// contract; it never decides what to generate, only how to lay it out.
package output

import (
	"fmt"
	"strings"

	"daogen/internal/emit"
	"daogen/internal/genrecord"
	"daogen/internal/naming"
)

// RenderModel renders one table's struct + enum types into a complete Go
// source file, package modelsPkg.
func RenderModel(modelsPkg string, record *genrecord.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", modelsPkg)

	imports := append([]string{"daogen/runtime"}, record.Imports...)
	b.WriteString("import (\n")
	for _, imp := range imports {
		fmt.Fprintf(&b, "\t%q\n", imp)
	}
	b.WriteString(")\n\n")

	for _, et := range record.EnumTypes {
		renderEnum(&b, et)
	}

	fmt.Fprintf(&b, "type %s struct {\n", record.TypeName)
	for _, f := range record.Fields {
		fmt.Fprintf(&b, "\t%s %s `db:%q`\n", f.GoName, f.Type.Rendered(), f.Column)
	}
	b.WriteString("}\n\n")

	renderScanRow(&b, record)
	renderBindValues(&b, record)

	return b.String()
}

func renderEnum(b *strings.Builder, et genrecord.EnumType) {
	fmt.Fprintf(b, "type %s string\n\n", et.GoName)
	b.WriteString("const (\n")
	for _, v := range et.Variants {
		fmt.Fprintf(b, "\t%s%s %s = %q\n", et.GoName, v.GoName, et.GoName, v.Literal)
	}
	b.WriteString(")\n\n")
}

func renderScanRow(b *strings.Builder, record *genrecord.Record) {
	fmt.Fprintf(b, "func (r *%s) ScanRow(row runtime.Row) error {\n", record.TypeName)
	b.WriteString("\treturn row.Scan(\n")
	for _, f := range record.Fields {
		fmt.Fprintf(b, "\t\t&r.%s,\n", f.GoName)
	}
	b.WriteString("\t)\n}\n\n")
}

func renderBindValues(b *strings.Builder, record *genrecord.Record) {
	fmt.Fprintf(b, "func (r *%s) BindValues() []any {\n", record.TypeName)
	b.WriteString("\treturn []any{\n")
	for _, f := range record.Fields {
		fmt.Fprintf(b, "\t\tr.%s,\n", f.GoName)
	}
	b.WriteString("\t}\n}\n")
}

// RenderDAO renders one table's emitted methods into a complete Go source
// file, package daoPkg.
func RenderDAO(daoPkg, modelsImportPath string, dao *emit.DAO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", daoPkg)
	b.WriteString("import (\n\t\"context\"\n\t\"database/sql\"\n\t\"fmt\"\n\n")
	fmt.Fprintf(&b, "\t%q\n\t\"daogen/runtime\"\n)\n\n", modelsImportPath)

	fmt.Fprintf(&b, "// %sDAO provides generated data-access methods for %s.\n", dao.TypeName, dao.TypeName)
	fmt.Fprintf(&b, "type %sDAO struct {\n\tdb runtime.Queryer\n}\n\n", dao.TypeName)
	fmt.Fprintf(&b, "func New%sDAO(db runtime.Queryer) *%sDAO {\n\treturn &%sDAO{db: db}\n}\n\n", dao.TypeName, dao.TypeName, dao.TypeName)

	b.WriteString("// PaginatedResult is the shared pagination envelope every *_paginated\n// method in this package returns.\ntype PaginatedResult struct {\n")
	fmt.Fprintf(&b, "\tItems    []*%s.%s\n", modelsPackageName(modelsImportPath), dao.TypeName)
	b.WriteString("\tTotal    int64\n\tPage     int64\n\tPageSize int64\n\tHasNext  bool\n}\n\n")

	for _, m := range dao.Methods {
		renderMethod(&b, dao.TypeName, m)
	}

	return b.String()
}

func modelsPackageName(importPath string) string {
	parts := strings.Split(importPath, "/")
	return parts[len(parts)-1]
}

func renderMethod(b *strings.Builder, typeName string, m emit.Method) {
	fmt.Fprintf(b, "const %sSQL = %q\n\n", snakeIdent(m.Spec.Name), m.SQL)

	sig := fmt.Sprintf("func (d *%sDAO) %s(ctx context.Context", typeName, m.GoName)
	for _, p := range m.ParamDecls {
		sig += ", " + p
	}
	sig += fmt.Sprintf(") (%s, error) {", m.ReturnType)
	b.WriteString(sig + "\n")
	for _, line := range m.Body {
		fmt.Fprintf(b, "\t%s\n", line)
	}
	b.WriteString("}\n\n")
}

func snakeIdent(name string) string {
	return naming.ToSnakeCase(name)
}
