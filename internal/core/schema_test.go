package core

import "testing"

func TestTableFindColumnCaseInsensitive(t *testing.T) {
	table := &Table{Columns: []*Column{{Name: "UserName"}}}

	if got := table.FindColumn("username"); got == nil {
		t.Fatalf("expected to find column by case-insensitive name")
	}
	if got := table.FindColumn("missing"); got != nil {
		t.Fatalf("expected nil for missing column, got %+v", got)
	}
}

func TestTableNonPKColumns(t *testing.T) {
	table := &Table{
		Columns: []*Column{
			{Name: "id"},
			{Name: "email"},
			{Name: "name"},
		},
		PrimaryKey: []string{"id"},
	}

	got := table.NonPKColumns()
	if len(got) != 2 {
		t.Fatalf("expected 2 non-PK columns, got %d", len(got))
	}
	if got[0].Name != "email" || got[1].Name != "name" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestTableHasPrimaryKey(t *testing.T) {
	withPK := &Table{PrimaryKey: []string{"id"}}
	withoutPK := &Table{}

	if !withPK.HasPrimaryKey() {
		t.Fatal("expected table with PK columns to report HasPrimaryKey")
	}
	if withoutPK.HasPrimaryKey() {
		t.Fatal("expected table without PK columns to report !HasPrimaryKey")
	}
}

func TestSchemaFindTable(t *testing.T) {
	schema := &Schema{Tables: []*Table{{Name: "Users"}}}

	if schema.FindTable("users") == nil {
		t.Fatal("expected case-insensitive table lookup to succeed")
	}
	if schema.FindTable("orders") != nil {
		t.Fatal("expected lookup of absent table to return nil")
	}
}
