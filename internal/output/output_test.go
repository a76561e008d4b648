package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"daogen/internal/core"
	"daogen/internal/emit"
	"daogen/internal/genrecord"
	"daogen/internal/logging"
	"daogen/internal/planner"
)

func buildUserDAO(t *testing.T) (*genrecord.Record, *emit.DAO) {
	t.Helper()
	table := &core.Table{
		Name: "users",
		Columns: []*core.Column{
			{Name: "id", SQLType: core.BigInt{}, AutoIncrement: true},
			{Name: "email", SQLType: core.VarChar{}},
		},
		PrimaryKey: []string{"id"},
	}
	record, err := genrecord.Generate(table)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	plan, err := planner.Plan(table)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	dao, err := emit.Emit(plan, record)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	return record, dao
}

func TestRenderModelIncludesStructAndScanRow(t *testing.T) {
	record, _ := buildUserDAO(t)
	src := RenderModel("models", record)
	if !strings.Contains(src, "type User struct") {
		t.Error("missing struct definition")
	}
	if !strings.Contains(src, "func (r *User) ScanRow(row runtime.Row) error") {
		t.Error("missing ScanRow method")
	}
	if !strings.Contains(src, "func (r *User) BindValues() []any") {
		t.Error("missing BindValues method")
	}
	if !strings.Contains(src, `"daogen/runtime"`) {
		t.Error("missing runtime import")
	}
}

func TestRenderDAOIncludesConstructorAndMethods(t *testing.T) {
	_, dao := buildUserDAO(t)
	src := RenderDAO("dao", "daogen/models", dao)
	if !strings.Contains(src, "type UserDAO struct") {
		t.Error("missing DAO struct")
	}
	if !strings.Contains(src, "func NewUserDAO(db runtime.Queryer) *UserDAO") {
		t.Error("missing constructor")
	}
	if !strings.Contains(src, "func (d *UserDAO) FindAll(ctx context.Context)") {
		t.Error("missing FindAll method")
	}
}

func TestWriterAtomicWriteProducesFinalFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "models"), filepath.Join(dir, "dao"), logging.New())

	if err := w.WriteTable("users", "package models\n", "package dao\n"); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	modelPath := filepath.Join(dir, "models", "users.go")
	if _, err := os.Stat(modelPath); err != nil {
		t.Fatalf("expected %q to exist: %v", modelPath, err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "models"))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file %q left behind after successful write", e.Name())
		}
	}
}

func TestWriterDryRunLeavesNoFinalFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "models"), filepath.Join(dir, "dao"), logging.New())
	w.DryRun = true

	if err := w.WriteTable("users", "package models\n", "package dao\n"); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "models", "users.go")); !os.IsNotExist(err) {
		t.Error("dry-run must not produce the final file")
	}
	w.Cleanup()
	entries, _ := os.ReadDir(filepath.Join(dir, "models"))
	if len(entries) != 0 {
		t.Errorf("Cleanup() left files behind: %v", entries)
	}
}

func TestWriterSkipsEmptyHalfWhenOutputDisabled(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "models"), filepath.Join(dir, "dao"), logging.New())

	if err := w.WriteTable("users", "", "package dao\n"); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "models", "users.go")); !os.IsNotExist(err) {
		t.Error("disabled struct generation must not produce models/users.go")
	}
	if _, err := os.Stat(filepath.Join(dir, "dao", "users.go")); err != nil {
		t.Fatalf("expected dao/users.go to exist: %v", err)
	}
}

func TestWriteManifestsListsTablesLexicographically(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "models"), filepath.Join(dir, "dao"), logging.New())
	if err := w.WriteManifests("models", "dao", []string{"zebras", "apples"}); err != nil {
		t.Fatalf("WriteManifests() error = %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "models", "models.go"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	appleIdx := strings.Index(string(content), `"apples"`)
	zebraIdx := strings.Index(string(content), `"zebras"`)
	if appleIdx == -1 || zebraIdx == -1 || appleIdx > zebraIdx {
		t.Errorf("manifest not lexicographically ordered: %s", content)
	}
}
