// Package planner implements the DAO Planner: given one core.Table, it
// produces the ordered list of data-access methods to generate. It is the
// single component that looks at a table's primary key, unique indexes,
// non-unique indexes, and foreign keys all at once; every other package
// in the pipeline reasons per-column or per-table-local.
package planner

import (
	"fmt"
	"strings"

	"daogen/internal/core"
	"daogen/internal/naming"
)

// ReturnShape describes the cardinality of a MethodSpec's result.
type ReturnShape int

const (
	// ReturnOptional is a single record, or none (NULL/no rows).
	ReturnOptional ReturnShape = iota
	// ReturnMany is a sequence of records.
	ReturnMany
	// ReturnCount is a 64-bit row count.
	ReturnCount
	// ReturnLastInsertID is the 64-bit id assigned by an INSERT.
	ReturnLastInsertID
	// ReturnRowsAffected is a 64-bit count of affected rows.
	ReturnRowsAffected
	// ReturnPage is a paginated result envelope: items, total, page,
	// page_size, has_next.
	ReturnPage
)

// Param is one method parameter: a column name (used to derive the Go
// parameter name and its bound SQL argument) plus whether it is a bulk
// (slice) parameter.
type Param struct {
	Column string
	Bulk   bool
}

// MethodSpec is one generated DAO method.
type MethodSpec struct {
	// Name is the snake_case method name before naming.ToPascalCase is
	// applied by the emitter; kept snake_case here because method-name
	// collision detection operates on the same derivation rules as
	// naming.FindByMethodName et al.
	Name   string
	Params []Param
	Return ReturnShape

	// WhereColumns is the ordered column list the SQL template's WHERE
	// clause binds against; empty for find_all/count_all/insert*.
	WhereColumns []string

	// RecordParam is true when the single parameter is the whole record
	// (insert, update, upsert) rather than individual columns.
	RecordParam bool

	// BulkRecordParam is true when the single parameter is a slice of
	// whole records (insert_all).
	BulkRecordParam bool

	// Paginated marks find_all_paginated/get_paginated_result, which take
	// the fixed (offset, limit, sort_by, direction) signature instead of
	// WhereColumns.
	Paginated bool
}

// TablePlan is the ordered set of methods generated for one table.
type TablePlan struct {
	Table   *core.Table
	Methods []MethodSpec
}

// candidate is one pre-dedup index-derived lookup source.
type candidate struct {
	columns  []string
	priority int
	unique   bool // PK and Unique both behave as "unique" for return shape
}

const (
	priorityPK = iota
	priorityUnique
	priorityNonUnique
	priorityForeignKey
)

// Plan builds the ordered MethodSpec list for table, per the base method
// table, priority-deduplicated index lookups, bulk variants, and
// pagination methods. It returns a core.Error of KindPlanConflict if two
// distinct candidates cannot be disambiguated.
func Plan(table *core.Table) (*TablePlan, error) {
	p := &TablePlan{Table: table}

	p.Methods = append(p.Methods, MethodSpec{Name: "find_all", Return: ReturnMany})
	p.Methods = append(p.Methods, MethodSpec{Name: "count_all", Return: ReturnCount})
	p.Methods = append(p.Methods, MethodSpec{Name: "insert", RecordParam: true, Return: ReturnLastInsertID})
	p.Methods = append(p.Methods, insertPlainMethod(table))
	p.Methods = append(p.Methods, MethodSpec{Name: "insert_all", BulkRecordParam: true, Return: ReturnRowsAffected})

	if table.HasPrimaryKey() {
		p.Methods = append(p.Methods, MethodSpec{
			Name:         naming.FindByMethodName(table.PrimaryKey),
			Params:       paramsFor(table.PrimaryKey),
			WhereColumns: table.PrimaryKey,
			Return:       ReturnOptional,
		})
		p.Methods = append(p.Methods, MethodSpec{
			Name:         naming.DeleteByMethodName(table.PrimaryKey),
			Params:       paramsFor(table.PrimaryKey),
			WhereColumns: table.PrimaryKey,
			Return:       ReturnRowsAffected,
		})
	}

	if table.HasPrimaryKey() && len(table.NonPKColumns()) > 0 {
		p.Methods = append(p.Methods, MethodSpec{Name: "update", RecordParam: true, Return: ReturnRowsAffected})
	}

	if table.HasPrimaryKey() || len(table.UniqueIndexes) > 0 {
		p.Methods = append(p.Methods, MethodSpec{Name: "upsert", RecordParam: true, Return: ReturnRowsAffected})
	}

	lookups, err := planIndexLookups(table)
	if err != nil {
		return nil, err
	}
	p.Methods = append(p.Methods, lookups...)

	p.Methods = append(p.Methods,
		MethodSpec{Name: "find_all_paginated", Paginated: true, Return: ReturnMany},
		MethodSpec{Name: "get_paginated_result", Paginated: true, Return: ReturnPage},
	)

	if err := detectCollisions(table, p.Methods); err != nil {
		return nil, err
	}

	return p, nil
}

func insertPlainMethod(table *core.Table) MethodSpec {
	var params []Param
	for _, col := range table.Columns {
		if col.AutoIncrement {
			continue
		}
		params = append(params, Param{Column: col.Name})
	}
	return MethodSpec{Name: "insert_plain", Params: params, Return: ReturnLastInsertID}
}

func paramsFor(columns []string) []Param {
	params := make([]Param, len(columns))
	for i, c := range columns {
		params[i] = Param{Column: c}
	}
	return params
}

// planIndexLookups builds the priority-deduplicated index/FK candidate set
// and then the bulk variants each surviving candidate earns.
func planIndexLookups(table *core.Table) ([]MethodSpec, error) {
	candidates := collectCandidates(table)
	survivors := dedupCandidates(candidates)

	var methods []MethodSpec
	for _, c := range survivors {
		shape := ReturnMany
		if c.unique {
			shape = ReturnOptional
		}
		// The primary-key lookup is already one of the base methods; the
		// PK candidate only contributes its bulk variant here.
		if c.priority != priorityPK {
			methods = append(methods, MethodSpec{
				Name:         naming.FindByMethodName(c.columns),
				Params:       paramsFor(c.columns),
				WhereColumns: c.columns,
				Return:       shape,
			})
		}

		methods = append(methods, bulkVariant(table, c)...)
	}
	return methods, nil
}

func collectCandidates(table *core.Table) []candidate {
	var out []candidate
	if table.HasPrimaryKey() {
		out = append(out, candidate{columns: table.PrimaryKey, priority: priorityPK, unique: true})
	}
	for _, idx := range table.UniqueIndexes {
		out = append(out, candidate{columns: idx.Columns, priority: priorityUnique, unique: true})
	}
	for _, idx := range table.NonUniqueIndexes {
		out = append(out, candidate{columns: idx.Columns, priority: priorityNonUnique, unique: false})
	}
	for _, fk := range table.ForeignKeys {
		out = append(out, candidate{columns: fk.Columns, priority: priorityForeignKey, unique: false})
	}
	return out
}

// dedupCandidates collapses candidates sharing the same ordered column set
// to the highest-priority (lowest priority value) survivor, preserving
// first-seen order among distinct column sets.
func dedupCandidates(candidates []candidate) []candidate {
	best := make(map[string]candidate)
	var order []string
	for _, c := range candidates {
		key := strings.Join(c.columns, "\x00")
		existing, ok := best[key]
		if !ok {
			best[key] = c
			order = append(order, key)
			continue
		}
		if c.priority < existing.priority {
			best[key] = c
		}
	}
	out := make([]candidate, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// bulkVariant emits the single-column bulk method for any 1-column
// candidate, and the last-column-enum composite bulk method described in
// the Planner's bulk-variant rule.
func bulkVariant(table *core.Table, c candidate) []MethodSpec {
	if len(c.columns) == 1 {
		params := paramsFor(c.columns)
		params[0].Bulk = true
		return []MethodSpec{{
			Name:         naming.BulkFindByMethodName(c.columns, true),
			Params:       params,
			WhereColumns: c.columns,
			Return:       ReturnMany,
		}}
	}

	last := table.FindColumn(c.columns[len(c.columns)-1])
	if last == nil {
		return nil
	}
	if _, isEnum := last.SQLType.(core.Enum); !isEnum {
		return nil
	}

	params := paramsFor(c.columns)
	params[len(params)-1].Bulk = true
	return []MethodSpec{{
		Name:         naming.BulkFindByMethodName(c.columns, true),
		Params:       params,
		WhereColumns: c.columns,
		Return:       ReturnMany,
	}}
}

// detectCollisions verifies every method name is unique within the plan.
// Two methods reducing to the identical derived name (different column
// sets, or a scalar lookup and a bulk variant whose pluralized name did
// not change) are first disambiguated by appending the table's
// declaration-order column names to the later method's name; only when
// that disambiguated name still collides does the Planner give up and
// report a PlanConflict, per the rule that disambiguation is preferred
// over dropping a method.
func detectCollisions(table *core.Table, methods []MethodSpec) error {
	seen := make(map[string][]string)
	for i := range methods {
		m := &methods[i]
		prior, ok := seen[m.Name]
		if !ok {
			seen[m.Name] = m.WhereColumns
			continue
		}
		suffix := declOrderSuffix(table, m.WhereColumns)
		disambiguated := m.Name + "_by_" + suffix
		if suffix == "" {
			return core.PlanConflict(table.Name, fmt.Sprintf(
				"method %q derived from distinct column sets %v and %v cannot be disambiguated", m.Name, prior, m.WhereColumns))
		}
		if _, collides := seen[disambiguated]; collides {
			return core.PlanConflict(table.Name, fmt.Sprintf(
				"method %q derived from distinct column sets %v and %v still collides after disambiguation", m.Name, prior, m.WhereColumns))
		}
		m.Name = disambiguated
		seen[disambiguated] = m.WhereColumns
	}
	return nil
}

// declOrderSuffix renders columns' raw (un-normalized) names in the
// table's own declaration order, for disambiguating a method-name
// collision. Columns absent from table (never the case for a collision
// arising from real index/FK lookups) yield an empty suffix, signaling
// the caller that disambiguation is impossible.
func declOrderSuffix(table *core.Table, columns []string) string {
	want := make(map[string]bool, len(columns))
	for _, c := range columns {
		want[strings.ToLower(c)] = true
	}
	var raw []string
	for _, col := range table.Columns {
		if want[strings.ToLower(col.Name)] {
			raw = append(raw, col.Name)
		}
	}
	if len(raw) != len(columns) {
		return ""
	}
	return strings.Join(raw, "_")
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
