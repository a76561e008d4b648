package output

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"daogen/internal/core"
	"daogen/internal/logging"
	"daogen/internal/naming"
)

// Writer owns the destination directories and the atomic write contract.
// DryRun suppresses the final rename, matching the CLI's --dry-run
// semantics: the full pipeline runs, including file content generation,
// but nothing lands on disk.
type Writer struct {
	ModelsDir string
	DAODir    string
	DryRun    bool
	Logger    *logging.Logger

	written []string // temp paths pending rename, for cleanup on failure
}

// NewWriter returns a Writer rooted at modelsDir/daoDir.
func NewWriter(modelsDir, daoDir string, logger *logging.Logger) *Writer {
	return &Writer{ModelsDir: modelsDir, DAODir: daoDir, Logger: logger}
}

// WriteTable writes the rendered model and DAO source for one table. An
// empty modelSrc/daoSrc means that half of the output was disabled
// (generate_structs/generate_dao false) and is skipped entirely rather
// than landing an empty, invalid .go file.
func (w *Writer) WriteTable(tableName, modelSrc, daoSrc string) error {
	stem := naming.ModuleName(tableName) + ".go"
	if modelSrc != "" {
		if err := w.writeFile(filepath.Join(w.ModelsDir, stem), modelSrc); err != nil {
			return err
		}
	}
	if daoSrc != "" {
		if err := w.writeFile(filepath.Join(w.DAODir, stem), daoSrc); err != nil {
			return err
		}
	}
	return nil
}

// WriteManifests writes the lexicographically-ordered per-directory
// aggregator files (models.go, dao.go).
func (w *Writer) WriteManifests(modelsPkg, daoPkg string, tableNames []string) error {
	sorted := append([]string(nil), tableNames...)
	sort.Strings(sorted)

	if err := w.writeFile(filepath.Join(w.ModelsDir, "models.go"), manifestSource(modelsPkg, sorted)); err != nil {
		return err
	}
	return w.writeFile(filepath.Join(w.DAODir, "dao.go"), manifestSource(daoPkg, sorted))
}

func manifestSource(pkg string, tableNames []string) string {
	src := "package " + pkg + "\n\n// AllTables is the lexicographically-ordered manifest of every table\n// this generator produced output for.\nvar AllTables = []string{\n"
	for _, name := range tableNames {
		src += fmt.Sprintf("\t%q,\n", name)
	}
	src += "}\n"
	return src
}

// writeFile writes content to path.go.tmp-<pid>, formats it in place if a
// formatter is on $PATH, then renames into place unless DryRun is set.
func (w *Writer) writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.IOError(fmt.Sprintf("create directory %q", dir), err)
	}

	tmp := fmt.Sprintf("%s.tmp-%d", path, os.Getpid())
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return core.IOError(fmt.Sprintf("write temp file %q", tmp), err)
	}
	w.written = append(w.written, tmp)

	w.format(tmp)

	if w.DryRun {
		return nil
	}
	if err := os.Rename(tmp, path); err != nil {
		return core.IOError(fmt.Sprintf("rename %q to %q", tmp, path), err)
	}
	return nil
}

// format runs goimports, falling back to gofmt, on path in place. A
// missing binary or non-zero exit is logged as a warning; the unformatted
// file is kept, matching the spec's "formatter failure is a warning, not
// a fatal error" contract.
func (w *Writer) format(path string) {
	for _, tool := range []string{"goimports", "gofmt"} {
		bin, err := exec.LookPath(tool)
		if err != nil {
			continue
		}
		cmd := exec.Command(bin, "-w", path)
		if err := cmd.Run(); err != nil {
			if w.Logger != nil {
				w.Logger.WithField("tool", tool).WithField("file", path).Warn("formatter failed; keeping unformatted output")
			}
		}
		return
	}
	if w.Logger != nil {
		w.Logger.WithField("file", path).Warn("no formatter (goimports/gofmt) found on PATH; keeping unformatted output")
	}
}

// Cleanup removes the temp files of a DryRun run, which are never renamed.
// Outside DryRun it does nothing; temp files left by a fatal error partway
// through a multi-table write are removed by Abort.
func (w *Writer) Cleanup() {
	if !w.DryRun {
		return
	}
	for _, tmp := range w.written {
		os.Remove(tmp)
	}
}

// Abort removes every temp file written so far, whether or not DryRun is
// set; called when a fatal error interrupts a run after some files were
// already staged.
func (w *Writer) Abort() {
	for _, tmp := range w.written {
		os.Remove(tmp)
	}
}
