// Package core contains the semantic schema model shared by every stage of
// the generator: the parser builds it, the planner and type resolver read
// it, and nothing downstream ever reaches back into the SQL AST.
package core

import "strings"

// Schema is the ordered sequence of tables found in a DDL file, in the
// order they appeared in the source. Table names are unique, case
// insensitive; duplicates are rejected at parse time.
type Schema struct {
	Tables []*Table
}

// FindTable returns the table with the given name (case-insensitive), or
// nil if no such table exists.
func (s *Schema) FindTable(name string) *Table {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// Table is one CREATE TABLE statement lowered into the semantic model.
type Table struct {
	// Name is the raw database identifier, exactly as written (may be a
	// reserved word; backticks already stripped by the parser).
	Name string

	// Columns are ordered as declared in the DDL.
	Columns []*Column

	// PrimaryKey is the ordered list of column names making up the primary
	// key. Empty when the table declares none. At most one PK per table.
	PrimaryKey []string

	// UniqueIndexes and NonUniqueIndexes are ordered as declared.
	UniqueIndexes    []Index
	NonUniqueIndexes []Index

	// ForeignKeys are ordered as declared.
	ForeignKeys []ForeignKey
}

// FindColumn returns the column with the given name, or nil.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// HasPrimaryKey reports whether the table declares a primary key.
func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKey) > 0
}

// NonPKColumns returns the columns that are not part of the primary key,
// in declaration order.
func (t *Table) NonPKColumns() []*Column {
	pk := make(map[string]bool, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		pk[strings.ToLower(name)] = true
	}
	out := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !pk[strings.ToLower(c.Name)] {
			out = append(out, c)
		}
	}
	return out
}

// Column is one column definition.
type Column struct {
	Name string

	SQLType SQLType

	// Nullable is false whenever NOT NULL was declared or the column is
	// part of the primary key (PK columns are implicitly non-nullable).
	Nullable bool

	AutoIncrement bool

	// HasDefault records whether the column carries a DEFAULT clause; it
	// decides whether insert_plain may omit this column.
	HasDefault bool
}

// Index is a named, ordered set of columns, either UNIQUE or not. Indexes
// of the same kind are visited in declaration order by every later stage.
type Index struct {
	// Name is the index name as declared, or a derived name when the DDL
	// omitted one (e.g. an inline UNIQUE column constraint).
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey references another table's columns. It is used only for DAO
// method planning; referential integrity is never enforced by generated
// code.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}
