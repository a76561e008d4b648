package emit

import (
	"strings"
	"testing"

	"daogen/internal/core"
	"daogen/internal/genrecord"
	"daogen/internal/planner"
)

func TestQuoteIdentifierDoublesEmbeddedBacktick(t *testing.T) {
	if got := QuoteIdentifier("order"); got != "`order`" {
		t.Errorf("QuoteIdentifier(order) = %q", got)
	}
	if got := QuoteIdentifier("weird`name"); got != "`weird``name`" {
		t.Errorf("QuoteIdentifier(weird`name) = %q", got)
	}
}

func buildUsersTable() *core.Table {
	return &core.Table{
		Name: "users",
		Columns: []*core.Column{
			{Name: "id", SQLType: core.BigInt{}, AutoIncrement: true},
			{Name: "email", SQLType: core.VarChar{}},
		},
		PrimaryKey:    []string{"id"},
		UniqueIndexes: []core.Index{{Name: "uq_email", Columns: []string{"email"}, Unique: true}},
	}
}

func mustEmit(t *testing.T) *DAO {
	t.Helper()
	table := buildUsersTable()
	plan, err := planner.Plan(table)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	record, err := genrecord.Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dao, err := Emit(plan, record)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	return dao
}

func findEmitted(t *testing.T, dao *DAO, name string) Method {
	t.Helper()
	for _, m := range dao.Methods {
		if m.Spec.Name == name {
			return m
		}
	}
	t.Fatalf("no emitted method %q", name)
	return Method{}
}

func TestEmitInsertPlainSQLListsNonAutoIncrementColumns(t *testing.T) {
	dao := mustEmit(t)
	m := findEmitted(t, dao, "insert_plain")
	if !strings.Contains(m.SQL, "`email`") {
		t.Errorf("SQL = %q, want email column", m.SQL)
	}
	if strings.Contains(m.SQL, "`id`") {
		t.Errorf("SQL = %q, must not bind the auto-increment PK", m.SQL)
	}
}

func TestEmitFindByEmailUsesQuotedWhere(t *testing.T) {
	dao := mustEmit(t)
	m := findEmitted(t, dao, "find_by_email")
	if !strings.Contains(m.SQL, "WHERE `email` = ?") {
		t.Errorf("SQL = %q", m.SQL)
	}
	if m.ReturnType != "*User" {
		t.Errorf("ReturnType = %q, want *User", m.ReturnType)
	}
}

func TestEmitBulkFindByEmailsShortCircuitsOnEmptyInput(t *testing.T) {
	dao := mustEmit(t)
	m := findEmitted(t, dao, "find_by_emails")
	found := false
	for _, line := range m.Body {
		if strings.Contains(line, "len(") && strings.Contains(line, "== 0") {
			found = true
		}
	}
	if !found {
		t.Errorf("bulk method body missing empty-input short-circuit: %v", m.Body)
	}
}

func buildUsersWithNullableNicknameTable() *core.Table {
	return &core.Table{
		Name: "users",
		Columns: []*core.Column{
			{Name: "id", SQLType: core.BigInt{}, AutoIncrement: true},
			{Name: "nickname", SQLType: core.VarChar{}, Nullable: true},
		},
		PrimaryKey:    []string{"id"},
		UniqueIndexes: []core.Index{{Name: "uq_nickname", Columns: []string{"nickname"}, Unique: true}},
	}
}

func TestEmitFindByNullableColumnBranchesAtCallTime(t *testing.T) {
	table := buildUsersWithNullableNicknameTable()
	plan, err := planner.Plan(table)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	record, err := genrecord.Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dao, err := Emit(plan, record)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	m := findEmitted(t, dao, "find_by_nickname")

	if !strings.Contains(m.SQL, "WHERE `nickname` = ?") {
		t.Errorf("SQL = %q, want the non-null template", m.SQL)
	}

	var body strings.Builder
	for _, line := range m.Body {
		body.WriteString(line + "\n")
	}
	if !strings.Contains(body.String(), "if nickname == nil {") {
		t.Errorf("body missing nil branch: %v", m.Body)
	}
	if !strings.Contains(body.String(), "`nickname` IS NULL") {
		t.Errorf("body missing IS NULL fragment: %v", m.Body)
	}
	if !strings.Contains(body.String(), "QueryRowContext(ctx, query, queryArgs...)") {
		t.Errorf("body must dispatch on the branched query/queryArgs locals: %v", m.Body)
	}
}

func TestEmitFindAllPaginatedSplicesOrderColumnNotBoundAsArg(t *testing.T) {
	dao := mustEmit(t)
	m := findEmitted(t, dao, "find_all_paginated")

	if strings.Count(m.SQL, "%s") != 2 {
		t.Errorf("SQL = %q, want exactly two %%s verbs for column/direction splicing", m.SQL)
	}
	if strings.Count(m.SQL, "?") != 2 {
		t.Errorf("SQL = %q, want exactly two ? placeholders (limit, offset)", m.SQL)
	}

	var body strings.Builder
	for _, line := range m.Body {
		body.WriteString(line + "\n")
	}
	text := body.String()
	if !strings.Contains(text, "map[UserSortKey]string{") {
		t.Errorf("body missing sort-key-to-column map: %v", m.Body)
	}
	if !strings.Contains(text, "UserSortKeyEmail: `email`,") {
		t.Errorf("body missing email column mapping: %v", m.Body)
	}
	if !strings.Contains(text, "fmt.Sprintf(find_all_paginatedSQL, orderColumn, orderDir)") {
		t.Errorf("body must splice the column/direction into the query string before executing it: %v", m.Body)
	}
	if !strings.Contains(text, "QueryContext(ctx, query, limit, offset)") {
		t.Errorf("body must bind only limit/offset as query arguments: %v", m.Body)
	}
}

func TestEmitDeleteByIDUsesRowsAffected(t *testing.T) {
	dao := mustEmit(t)
	m := findEmitted(t, dao, "delete_by_id")
	if m.ReturnType != "int64" {
		t.Errorf("ReturnType = %q, want int64", m.ReturnType)
	}
	if !strings.Contains(m.SQL, "DELETE FROM `users`") {
		t.Errorf("SQL = %q", m.SQL)
	}
}
