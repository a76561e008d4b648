// Package main contains the CLI implementation of daogen. It uses the
// cobra package for CLI tool implementation.
package main

import (
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"daogen/internal/config"
	"daogen/internal/core"
	"daogen/internal/ddl"
	"daogen/internal/emit"
	"daogen/internal/genrecord"
	"daogen/internal/logging"
	"daogen/internal/output"
	"daogen/internal/planner"
)

type rootFlags struct {
	schemaPath string
	outputDir  string
	configPath string
	dryRun     bool
}

func main() {
	flags := &rootFlags{}
	logger := logging.New()

	rootCmd := &cobra.Command{
		Use:   "daogen",
		Short: "Schema-driven data-access code generator",
	}
	rootCmd.PersistentFlags().StringVar(&flags.schemaPath, "schema", "", "Override the configured schema file path")
	rootCmd.PersistentFlags().StringVar(&flags.outputDir, "output", "", "Override the output root directory")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Run the full pipeline but write nothing")

	rootCmd.AddCommand(generateCmd(flags, logger))
	rootCmd.AddCommand(inspectCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func generateCmd(flags *rootFlags, logger *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Parse the schema and write generated structs and DAOs",
		RunE: func(*cobra.Command, []string) error {
			return runGenerate(flags, logger)
		},
	}
}

func inspectCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Parse the schema and print it in human-readable form; writes nothing",
		RunE: func(*cobra.Command, []string) error {
			return runInspect(flags)
		},
	}
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return config.ApplyFlags(cfg, flags.schemaPath, flags.outputDir), nil
}

func parseSchema(cfg config.Config) (*core.Schema, error) {
	if cfg.SchemaFile == "" {
		return nil, core.InvalidSchema("", "no schema file configured (set schema_file or pass --schema)", nil)
	}
	raw, err := os.ReadFile(cfg.SchemaFile)
	if err != nil {
		return nil, core.IOError(fmt.Sprintf("read schema file %q", cfg.SchemaFile), err)
	}
	return ddl.NewParser().Parse(string(raw))
}

func runInspect(flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	schema, err := parseSchema(cfg)
	if err != nil {
		return err
	}
	for _, table := range schema.Tables {
		fmt.Printf("table %s\n", table.Name)
		for _, col := range table.Columns {
			fmt.Printf("  %-24s %T nullable=%v\n", col.Name, col.SQLType, col.Nullable)
		}
		if table.HasPrimaryKey() {
			fmt.Printf("  primary key: %v\n", table.PrimaryKey)
		}
		for _, idx := range table.UniqueIndexes {
			fmt.Printf("  unique index %s: %v\n", idx.Name, idx.Columns)
		}
		for _, idx := range table.NonUniqueIndexes {
			fmt.Printf("  index %s: %v\n", idx.Name, idx.Columns)
		}
		for _, fk := range table.ForeignKeys {
			fmt.Printf("  foreign key %v -> %s%v\n", fk.Columns, fk.RefTable, fk.RefColumns)
		}
	}
	return nil
}

func runGenerate(flags *rootFlags, logger *logging.Logger) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	schema, err := parseSchema(cfg)
	if err != nil {
		return err
	}

	names := make([]string, len(schema.Tables))
	for i, t := range schema.Tables {
		names[i] = t.Name
	}
	included, err := config.FilterTables(cfg, names)
	if err != nil {
		return err
	}
	includeSet := make(map[string]bool, len(included))
	for _, n := range included {
		includeSet[n] = true
	}

	w := output.NewWriter(cfg.OutputStructsDir, cfg.OutputDAODir, logger)
	w.DryRun = flags.dryRun

	var written []string
	for _, table := range schema.Tables {
		if !includeSet[table.Name] {
			logger.WithField("table", table.Name).Info("excluded by configured table filters")
			continue
		}

		record, err := genrecord.Generate(table)
		if err != nil {
			w.Abort()
			return err
		}

		plan, err := planner.Plan(table)
		if err != nil {
			w.Abort()
			return err
		}

		modelSrc := ""
		daoSrc := ""
		if cfg.GenerateStructs {
			modelSrc = output.RenderModel(modelsPackageName(cfg), record)
		}
		if cfg.GenerateDAO {
			dao, err := emit.Emit(plan, record)
			if err != nil {
				w.Abort()
				return err
			}
			daoSrc = output.RenderDAO(daoPackageName(cfg), "daogen/"+modelsPackageName(cfg), dao)
		}

		if err := w.WriteTable(table.Name, modelSrc, daoSrc); err != nil {
			w.Abort()
			return err
		}
		written = append(written, table.Name)
	}

	if err := w.WriteManifests(modelsPackageName(cfg), daoPackageName(cfg), written); err != nil {
		w.Abort()
		return err
	}

	w.Cleanup()
	return nil
}

func modelsPackageName(cfg config.Config) string {
	if cfg.StructsModule != "" {
		return cfg.StructsModule
	}
	return "models"
}

func daoPackageName(cfg config.Config) string {
	if cfg.DAOModule != "" {
		return cfg.DAOModule
	}
	return "dao"
}

// exitCodeFor maps a fatal error to the documented process exit code:
// 0 success (never reaches here), 1 config/parse error, 2 plan conflict,
// 3 I/O failure.
func exitCodeFor(err error) int {
	var coreErr *core.Error
	if ce, ok := err.(*core.Error); ok {
		coreErr = ce
	}
	if coreErr == nil {
		return 1
	}
	switch coreErr.Kind {
	case core.KindPlanConflict:
		return 2
	case core.KindIO:
		return 3
	default:
		return 1
	}
}
