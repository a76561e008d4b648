// Package emit renders a planner.TablePlan and its genrecord.Record into Go
// source text: the SQL templates, the bound-parameter lists, and the
// function bodies of a table's DAO. It never writes to disk — that is
// internal/output's job — and it never ranges over a Go map, so output
// is deterministic input-to-input.
package emit

import (
	"fmt"
	"strings"

	"daogen/internal/core"
	"daogen/internal/genrecord"
	"daogen/internal/naming"
	"daogen/internal/planner"
)

// QuoteIdentifier backtick-quotes a table/column name for embedding in an
// emitted SQL template, doubling any embedded backtick — a direct port of
// the teacher's Generator.QuoteIdentifier convention.
func QuoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// Method is one rendered DAO method: its Go signature pieces and body.
type Method struct {
	Spec       planner.MethodSpec
	GoName     string
	ParamDecls []string // "paramName paramType", in order
	ReturnType string
	SQL        string // the template, with ? placeholders in positional order
	Body       []string
	Doc        string
}

// DAO is the full rendered set of methods for one table.
type DAO struct {
	TypeName string
	Methods  []Method
}

// Emit renders every MethodSpec in plan into a DAO for record.
func Emit(plan *planner.TablePlan, record *genrecord.Record) (*DAO, error) {
	dao := &DAO{TypeName: record.TypeName}
	for _, spec := range plan.Methods {
		m, err := emitMethod(plan.Table, record, spec)
		if err != nil {
			return nil, fmt.Errorf("emit: table %q method %q: %w", plan.Table.Name, spec.Name, err)
		}
		dao.Methods = append(dao.Methods, m)
	}
	return dao, nil
}

func emitMethod(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	m := Method{
		Spec:   spec,
		GoName: naming.ToPascalCase(spec.Name),
	}

	switch {
	case spec.Paginated:
		return emitPaginated(table, record, spec)
	case spec.Name == "find_all":
		return emitFindAll(table, record, spec)
	case spec.Name == "count_all":
		return emitCountAll(table, spec)
	case spec.Name == "insert":
		return emitInsert(table, record, spec)
	case spec.Name == "insert_plain":
		return emitInsertPlain(table, record, spec)
	case spec.Name == "insert_all":
		return emitInsertAll(table, record, spec)
	case strings.HasPrefix(spec.Name, "delete_by_"):
		return emitDeleteBy(table, record, spec)
	case spec.Name == "update":
		return emitUpdate(table, record, spec)
	case spec.Name == "upsert":
		return emitUpsert(table, record, spec)
	case strings.HasPrefix(spec.Name, "find_by_"):
		return emitFindBy(table, record, spec)
	}

	return m, fmt.Errorf("no renderer for method %q", spec.Name)
}

// sqlConstName derives the package-level `const <name>SQL` identifier
// render.go emits for a method, so every body reference and the
// generated const declaration name the same identifier.
func sqlConstName(methodName string) string {
	return naming.ToSnakeCase(methodName) + "SQL"
}

func quotedColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = QuoteIdentifier(c)
	}
	return out
}

func emitFindAll(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s", selectList(record), QuoteIdentifier(table.Name))
	return Method{
		Spec:       spec,
		GoName:     "FindAll",
		ReturnType: "[]*" + record.TypeName,
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("rows, err := d.db.QueryContext(ctx, %s)", sqlConstName(spec.Name)),
			"if err != nil { return nil, err }",
			"defer rows.Close()",
			fmt.Sprintf("var out []*%s", record.TypeName),
			"for rows.Next() {",
			fmt.Sprintf("  rec := &%s{}", record.TypeName),
			"  if err := rec.ScanRow(rows); err != nil { return nil, err }",
			"  out = append(out, rec)",
			"}",
			"return out, rows.Err()",
		},
	}, nil
}

func emitCountAll(table *core.Table, spec planner.MethodSpec) (Method, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", QuoteIdentifier(table.Name))
	return Method{
		Spec:       spec,
		GoName:     "CountAll",
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			"var count int64",
			fmt.Sprintf("err := d.db.QueryRowContext(ctx, %s).Scan(&count)", sqlConstName(spec.Name)),
			"return count, err",
		},
	}, nil
}

func emitInsert(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	cols := insertColumns(table)
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(table.Name),
		strings.Join(quotedColumns(cols), ", "),
		strings.Join(placeholders(len(cols)), ", "))
	var args []string
	for _, c := range cols {
		args = append(args, "record."+naming.StructFieldName(c))
	}
	return Method{
		Spec:       spec,
		GoName:     "Insert",
		ParamDecls: []string{"record *" + record.TypeName},
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"if err != nil { return 0, err }",
			"return result.LastInsertId()",
		},
	}, nil
}

func emitInsertPlain(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	cols := insertColumns(table)
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(table.Name),
		strings.Join(quotedColumns(cols), ", "),
		strings.Join(placeholders(len(cols)), ", "))

	var params []string
	var args []string
	for _, c := range cols {
		pname := naming.EscapeParam(naming.FieldName(c))
		params = append(params, pname+" "+fieldType(record, c))
		args = append(args, pname)
	}
	return Method{
		Spec:       spec,
		GoName:     "InsertPlain",
		ParamDecls: params,
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"if err != nil { return 0, err }",
			"return result.LastInsertId()",
		},
	}, nil
}

func emitInsertAll(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	cols := insertColumns(table)
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(table.Name),
		strings.Join(quotedColumns(cols), ", "),
		strings.Join(placeholders(len(cols)), ", "))
	var args []string
	for _, c := range cols {
		args = append(args, "record."+naming.StructFieldName(c))
	}
	return Method{
		Spec:       spec,
		GoName:     "InsertAll",
		ParamDecls: []string{"records []*" + record.TypeName},
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			"if len(records) == 0 { return 0, nil }",
			"var total int64",
			"for _, record := range records {",
			fmt.Sprintf("  result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"  if err != nil { return total, err }",
			"  affected, err := result.RowsAffected()",
			"  if err != nil { return total, err }",
			"  total += affected",
			"}",
			"return total, nil",
		},
	}, nil
}

func emitFindBy(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	where, args := whereClause(spec.WhereColumns, spec.Params)
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s", selectList(record), QuoteIdentifier(table.Name), where)

	params := paramDecls(record, spec.Params)
	returnsMany := spec.Return == planner.ReturnMany
	bulkIdx := bulkParamIndex(spec.Params)

	var body []string
	if bulkIdx >= 0 {
		body = append(body, fmt.Sprintf("if len(%s) == 0 { return nil, nil }", naming.EscapeParam(naming.FieldName(spec.Params[bulkIdx].Column))))
	}

	queryExpr, argsExpr := sqlConstName(spec.Name), strings.Join(args, ", ")

	if nullBody, ok := nullableLastParamBranch(table, record, spec, bulkIdx); ok {
		body = append(body, nullBody...)
		queryExpr, argsExpr = "query", "queryArgs..."
	}

	if returnsMany {
		body = append(body,
			fmt.Sprintf("rows, err := d.db.QueryContext(ctx, %s, %s)", queryExpr, argsExpr),
			"if err != nil { return nil, err }",
			"defer rows.Close()",
			fmt.Sprintf("var out []*%s", record.TypeName),
			"for rows.Next() {",
			fmt.Sprintf("  rec := &%s{}", record.TypeName),
			"  if err := rec.ScanRow(rows); err != nil { return nil, err }",
			"  out = append(out, rec)",
			"}",
			"return out, rows.Err()",
		)
		return Method{Spec: spec, GoName: naming.ToPascalCase(spec.Name), ParamDecls: params,
			ReturnType: "[]*" + record.TypeName, SQL: sql, Body: body}, nil
	}

	body = append(body,
		fmt.Sprintf("rec := &%s{}", record.TypeName),
		fmt.Sprintf("err := rec.ScanRow(d.db.QueryRowContext(ctx, %s, %s))", queryExpr, argsExpr),
		"if err == sql.ErrNoRows { return nil, nil }",
		"if err != nil { return nil, err }",
		"return rec, nil",
	)
	return Method{Spec: spec, GoName: naming.ToPascalCase(spec.Name), ParamDecls: params,
		ReturnType: "*" + record.TypeName, SQL: sql, Body: body}, nil
}

// nullableLastParamBranch builds the call-time "if param == nil" body for
// a lookup whose last (or only) parameter column is nullable: the SQL
// fragment and bound-argument list are chosen at call time by the
// parameter's runtime nilness, never by a second compiled method
// variant, per SPEC_FULL.md's nullable-parameter branching contract.
func nullableLastParamBranch(table *core.Table, record *genrecord.Record, spec planner.MethodSpec, bulkIdx int) ([]string, bool) {
	if bulkIdx >= 0 || len(spec.WhereColumns) == 0 {
		return nil, false
	}
	lastCol := spec.WhereColumns[len(spec.WhereColumns)-1]
	meta := table.FindColumn(lastCol)
	if meta == nil || !meta.Nullable {
		return nil, false
	}

	_, nonNullArgs := whereClause(spec.WhereColumns, spec.Params)
	nullWhere, nullArgs := whereClauseIsNull(spec.WhereColumns, spec.Params, lastCol)
	nullSQL := fmt.Sprintf("SELECT %s FROM %s WHERE %s", selectList(record), QuoteIdentifier(table.Name), nullWhere)
	nonNullSQLConst := sqlConstName(spec.Name)
	lastParam := naming.EscapeParam(naming.FieldName(lastCol))

	return []string{
		fmt.Sprintf("query, queryArgs := %s, []any{%s}", nonNullSQLConst, strings.Join(nonNullArgs, ", ")),
		fmt.Sprintf("if %s == nil {", lastParam),
		fmt.Sprintf("  query, queryArgs = %q, []any{%s}", nullSQL, strings.Join(nullArgs, ", ")),
		"}",
	}, true
}

// whereClauseIsNull renders the same WHERE clause as whereClause but with
// lastCol rewritten to "<col> IS NULL" and dropped from the bound argument
// list, for the nullable-parameter call-time branch.
func whereClauseIsNull(columns []string, params []planner.Param, lastCol string) (string, []string) {
	var frags []string
	var args []string
	for i, c := range columns {
		if c == lastCol && i == len(columns)-1 {
			frags = append(frags, fmt.Sprintf("%s IS NULL", QuoteIdentifier(c)))
			continue
		}
		frags = append(frags, fmt.Sprintf("%s = ?", QuoteIdentifier(c)))
		if params != nil && i < len(params) {
			args = append(args, naming.EscapeParam(naming.FieldName(params[i].Column)))
		} else {
			args = append(args, naming.EscapeParam(naming.FieldName(c)))
		}
	}
	return strings.Join(frags, " AND "), args
}

func emitDeleteBy(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	where, args := whereClause(spec.WhereColumns, spec.Params)
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", QuoteIdentifier(table.Name), where)
	return Method{
		Spec:       spec,
		GoName:     naming.ToPascalCase(spec.Name),
		ParamDecls: paramDecls(record, spec.Params),
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"if err != nil { return 0, err }",
			"return result.RowsAffected()",
		},
	}, nil
}

func emitUpdate(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	nonPK := table.NonPKColumns()
	var assigns []string
	for _, c := range nonPK {
		assigns = append(assigns, fmt.Sprintf("%s = ?", QuoteIdentifier(c.Name)))
	}
	where, _ := whereClause(table.PrimaryKey, nil)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", QuoteIdentifier(table.Name), strings.Join(assigns, ", "), where)
	var args []string
	for _, c := range nonPK {
		args = append(args, "record."+naming.StructFieldName(c.Name))
	}
	for _, c := range table.PrimaryKey {
		args = append(args, "record."+naming.StructFieldName(c))
	}
	return Method{
		Spec:       spec,
		GoName:     "Update",
		ParamDecls: []string{"record *" + record.TypeName},
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"if err != nil { return 0, err }",
			"return result.RowsAffected()",
		},
	}, nil
}

func emitUpsert(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	cols := insertColumns(table)
	nonPK := table.NonPKColumns()
	var assigns []string
	for _, c := range nonPK {
		q := QuoteIdentifier(c.Name)
		assigns = append(assigns, fmt.Sprintf("%s = VALUES(%s)", q, q))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		QuoteIdentifier(table.Name),
		strings.Join(quotedColumns(cols), ", "),
		strings.Join(placeholders(len(cols)), ", "),
		strings.Join(assigns, ", "))
	var args []string
	for _, c := range cols {
		args = append(args, "record."+naming.StructFieldName(c))
	}
	return Method{
		Spec:       spec,
		GoName:     "Upsert",
		ParamDecls: []string{"record *" + record.TypeName},
		ReturnType: "int64",
		SQL:        sql,
		Body: []string{
			fmt.Sprintf("result, err := d.db.ExecContext(ctx, %s, %s)", sqlConstName(spec.Name), strings.Join(args, ", ")),
			"if err != nil { return 0, err }",
			"return result.RowsAffected()",
		},
	}, nil
}

// emitPaginated renders find_all_paginated/get_paginated_result. The sort
// column is a database identifier, not a value, so it can never be bound
// as a placeholder argument: the SQL template carries two %s verbs (the
// quoted column, the ASC/DESC direction) spliced in with fmt.Sprintf at
// call time from the sort-key enum's value, and only limit/offset remain
// bound ? placeholders.
func emitPaginated(table *core.Table, record *genrecord.Record, spec planner.MethodSpec) (Method, error) {
	sortKeyEnumName := genrecord.SortKeyEnumName(table.Name)
	directionEnumName := genrecord.DirectionEnumName(table.Name)

	sql := fmt.Sprintf("SELECT %s FROM %s ORDER BY %%s %%s LIMIT ? OFFSET ?", selectList(record), QuoteIdentifier(table.Name))
	params := []string{
		"offset int64",
		"limit int64",
		"sortBy " + sortKeyEnumName,
		"direction " + directionEnumName,
	}

	if spec.Name == "find_all_paginated" {
		body := []string{fmt.Sprintf("orderColumn, ok := map[%s]string{", sortKeyEnumName)}
		for _, col := range table.Columns {
			body = append(body, fmt.Sprintf("  %s%s: %s,", sortKeyEnumName, naming.StructFieldName(col.Name), QuoteIdentifier(col.Name)))
		}
		body = append(body,
			"}[sortBy]",
			"if !ok { return nil, fmt.Errorf(\"unknown sort key %q\", sortBy) }",
			"orderDir := \"ASC\"",
			fmt.Sprintf("if direction == %sDescending { orderDir = \"DESC\" }", directionEnumName),
			fmt.Sprintf("query := fmt.Sprintf(%s, orderColumn, orderDir)", sqlConstName(spec.Name)),
			"rows, err := d.db.QueryContext(ctx, query, limit, offset)",
			"if err != nil { return nil, err }",
			"defer rows.Close()",
			fmt.Sprintf("var out []*%s", record.TypeName),
			"for rows.Next() {",
			fmt.Sprintf("  rec := &%s{}", record.TypeName),
			"  if err := rec.ScanRow(rows); err != nil { return nil, err }",
			"  out = append(out, rec)",
			"}",
			"return out, rows.Err()",
		)
		return Method{
			Spec: spec, GoName: "FindAllPaginated", ParamDecls: params,
			ReturnType: "[]*" + record.TypeName, SQL: sql,
			Body: body,
		}, nil
	}

	return Method{
		Spec: spec, GoName: "GetPaginatedResult", ParamDecls: params,
		ReturnType: "*PaginatedResult", SQL: sql,
		Body: []string{
			"items, err := d.FindAllPaginated(ctx, offset, limit, sortBy, direction)",
			"if err != nil { return nil, err }",
			"total, err := d.CountAll(ctx)",
			"if err != nil { return nil, err }",
			"return &PaginatedResult{",
			"  Items:    items,",
			"  Total:    total,",
			"  Page:     offset/limit + 1,",
			"  PageSize: limit,",
			"  HasNext:  offset+int64(len(items)) < total,",
			"}, nil",
		},
	}, nil
}

func insertColumns(table *core.Table) []string {
	var out []string
	for _, c := range table.Columns {
		if c.AutoIncrement {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

func selectList(record *genrecord.Record) string {
	cols := make([]string, len(record.Fields))
	for i, f := range record.Fields {
		cols[i] = QuoteIdentifier(f.Column)
	}
	return strings.Join(cols, ", ")
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "?"
	}
	return out
}

// whereClause builds "col = ? AND col2 = ?"-style fragments. When params
// is non-nil and a parameter is the method's sole/last parameter with a
// pointer type, the caller (emitFindBy) is responsible for the nil-vs-IS
// NULL runtime branch; whereClause itself only emits the bound-argument
// names used inside that branch.
func whereClause(columns []string, params []planner.Param) (string, []string) {
	var frags []string
	var args []string
	for i, c := range columns {
		frags = append(frags, fmt.Sprintf("%s = ?", QuoteIdentifier(c)))
		if params != nil && i < len(params) {
			args = append(args, naming.EscapeParam(naming.FieldName(params[i].Column)))
		} else {
			args = append(args, naming.EscapeParam(naming.FieldName(c)))
		}
	}
	return strings.Join(frags, " AND "), args
}

func paramDecls(record *genrecord.Record, params []planner.Param) []string {
	var out []string
	for _, p := range params {
		name := naming.EscapeParam(naming.FieldName(p.Column))
		typ := fieldType(record, p.Column)
		if p.Bulk {
			typ = "[]" + typ
		}
		out = append(out, name+" "+typ)
	}
	return out
}

// fieldType looks up the resolved Go type for one column by its raw
// database name; PK/index columns not present in record.Fields (which
// cannot happen for columns drawn from the same table) fall back to "any"
// so emission degrades gracefully rather than panicking.
func fieldType(record *genrecord.Record, column string) string {
	for _, f := range record.Fields {
		if strings.EqualFold(f.Column, column) {
			return f.Type.Rendered()
		}
	}
	return "any"
}

func bulkParamIndex(params []planner.Param) int {
	for i, p := range params {
		if p.Bulk {
			return i
		}
	}
	return -1
}
