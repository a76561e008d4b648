// Package ddl lowers MySQL-compatible CREATE TABLE DDL into the semantic
// schema model in internal/core. It is a thin layer over TiDB's SQL
// parser: the contract is that the emitted core.Schema fully captures the
// model with no leakage of parser/AST types to later stages.
package ddl

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	pdtypes "github.com/pingcap/tidb/pkg/parser/types"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"daogen/internal/core"
)

// Parser parses MySQL-compatible DDL text into a core.Schema.
type Parser struct {
	p *parser.Parser
}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{p: parser.New()}
}

// Parse lowers sql (the complete DDL file, as one unit) into a Schema.
// Statements that are not CREATE TABLE are silently ignored, so a dump
// that also contains CREATE DATABASE or USE statements parses cleanly.
//
// Parse fails with a core.KindInvalidSchema error when the DDL itself is
// syntactically invalid, when a table declares no columns, or when
// duplicate table/column names appear; it fails with
// core.KindUnsupportedType when a column's type falls outside the closed
// core.SQLType set.
func (p *Parser) Parse(sql string) (*core.Schema, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, core.InvalidSchema("", "DDL is not syntactically valid", err)
	}

	schema := &core.Schema{}
	seen := make(map[string]bool)
	for _, stmt := range stmtNodes {
		create, ok := stmt.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		table, err := p.convertCreateTable(create)
		if err != nil {
			return nil, err
		}
		lower := strings.ToLower(table.Name)
		if seen[lower] {
			return nil, core.InvalidSchema(table.Name, "duplicate table name", nil)
		}
		seen[lower] = true
		schema.Tables = append(schema.Tables, table)
	}

	if len(schema.Tables) == 0 {
		return nil, core.InvalidSchema("", "DDL contains no CREATE TABLE statements", nil)
	}

	return schema, nil
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) (*core.Table, error) {
	table := &core.Table{Name: stmt.Table.Name.O}

	if err := p.parseColumns(stmt.Cols, table); err != nil {
		return nil, err
	}
	if len(table.Columns) == 0 {
		return nil, core.InvalidSchema(table.Name, "table declares no columns", nil)
	}
	if err := p.parseConstraints(stmt.Constraints, table); err != nil {
		return nil, err
	}

	return table, nil
}

func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *core.Table) error {
	seen := make(map[string]bool, len(cols))
	for _, colDef := range cols {
		name := colDef.Name.Name.O
		lower := strings.ToLower(name)
		if seen[lower] {
			return core.InvalidSchema(table.Name, fmt.Sprintf("duplicate column name %q", name), nil)
		}
		seen[lower] = true

		sqlType, err := resolveSQLType(colDef.Tp)
		if err != nil {
			return core.UnsupportedType(table.Name, name, err.Error())
		}

		col := &core.Column{
			Name:     name,
			SQLType:  sqlType,
			Nullable: true,
		}

		for _, opt := range colDef.Options {
			switch opt.Tp {
			case ast.ColumnOptionNotNull:
				col.Nullable = false
			case ast.ColumnOptionNull:
				col.Nullable = true
			case ast.ColumnOptionPrimaryKey:
				col.Nullable = false
				table.PrimaryKey = appendUnique(table.PrimaryKey, name)
			case ast.ColumnOptionAutoIncrement:
				col.AutoIncrement = true
			case ast.ColumnOptionDefaultValue:
				col.HasDefault = true
			case ast.ColumnOptionUniqKey:
				table.UniqueIndexes = append(table.UniqueIndexes, core.Index{
					Name:    name,
					Columns: []string{name},
					Unique:  true,
				})
			case ast.ColumnOptionReference:
				fk := core.ForeignKey{Columns: []string{name}, RefTable: opt.Refer.Table.Name.O}
				for _, spec := range opt.Refer.IndexPartSpecifications {
					if spec.Column != nil {
						fk.RefColumns = append(fk.RefColumns, spec.Column.Name.O)
					}
				}
				table.ForeignKeys = append(table.ForeignKeys, fk)
			}
		}

		table.Columns = append(table.Columns, col)
	}
	return nil
}

func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *core.Table) error {
	for _, constraint := range constraints {
		columns := make([]string, 0, len(constraint.Keys))
		for _, key := range constraint.Keys {
			columns = append(columns, key.Column.Name.O)
		}

		switch constraint.Tp {
		case ast.ConstraintPrimaryKey:
			for _, name := range columns {
				table.PrimaryKey = appendUnique(table.PrimaryKey, name)
				if col := table.FindColumn(name); col != nil {
					col.Nullable = false
				}
			}

		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			table.UniqueIndexes = append(table.UniqueIndexes, core.Index{
				Name:    indexName(constraint.Name, columns),
				Columns: columns,
				Unique:  true,
			})

		case ast.ConstraintIndex, ast.ConstraintKey:
			table.NonUniqueIndexes = append(table.NonUniqueIndexes, core.Index{
				Name:    indexName(constraint.Name, columns),
				Columns: columns,
				Unique:  false,
			})

		case ast.ConstraintForeignKey:
			fk := core.ForeignKey{Columns: columns, RefTable: constraint.Refer.Table.Name.O}
			for _, spec := range constraint.Refer.IndexPartSpecifications {
				if spec.Column != nil {
					fk.RefColumns = append(fk.RefColumns, spec.Column.Name.O)
				}
			}
			table.ForeignKeys = append(table.ForeignKeys, fk)
		}
	}
	return nil
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return names
		}
	}
	return append(names, name)
}

func indexName(declared string, columns []string) string {
	if declared != "" {
		return declared
	}
	return strings.Join(columns, "_")
}

// resolveSQLType maps a TiDB parser FieldType onto the closed core.SQLType
// set. SET types are accepted here (not at resolution time, per the
// spec) and downgraded to Text only when typeresolve.Resolve runs; the
// literal variants survive the parse stage so that a caller inspecting
// the raw Schema can still see them as core.Set.
func resolveSQLType(tp *pdtypes.FieldType) (core.SQLType, error) {
	unsigned := mysql.HasUnsignedFlag(tp.GetFlag())

	switch tp.GetType() {
	case mysql.TypeTiny:
		return core.TinyInt{Width: tp.GetFlen(), Unsigned: unsigned}, nil
	case mysql.TypeShort:
		return core.SmallInt{Unsigned: unsigned}, nil
	case mysql.TypeInt24:
		return core.MediumInt{Unsigned: unsigned}, nil
	case mysql.TypeLong:
		return core.Int{Unsigned: unsigned}, nil
	case mysql.TypeLonglong:
		return core.BigInt{Unsigned: unsigned}, nil
	case mysql.TypeFloat:
		return core.Float{}, nil
	case mysql.TypeDouble:
		return core.Double{}, nil
	case mysql.TypeNewDecimal:
		return core.Decimal{Precision: tp.GetFlen(), Scale: tp.GetDecimal()}, nil
	case mysql.TypeBit:
		return core.Bit{Width: tp.GetFlen()}, nil
	case mysql.TypeVarchar, mysql.TypeVarString:
		if tp.GetCharset() == "binary" {
			return core.VarBinary{}, nil
		}
		return core.VarChar{}, nil
	case mysql.TypeString:
		if tp.GetCharset() == "binary" {
			return core.Binary{}, nil
		}
		return core.Char{}, nil
	case mysql.TypeTinyBlob, mysql.TypeBlob, mysql.TypeMediumBlob, mysql.TypeLongBlob:
		if tp.GetCharset() != "" && tp.GetCharset() != "binary" {
			return core.Text{Size: blobSize(tp.GetType())}, nil
		}
		return core.Blob{Size: blobSize(tp.GetType())}, nil
	case mysql.TypeDate, mysql.TypeNewDate:
		return core.Date{}, nil
	case mysql.TypeDuration:
		return core.Time{}, nil
	case mysql.TypeDatetime:
		return core.DateTime{}, nil
	case mysql.TypeTimestamp:
		return core.Timestamp{}, nil
	case mysql.TypeJSON:
		return core.JSON{}, nil
	case mysql.TypeEnum:
		return core.Enum{Variants: append([]string(nil), tp.GetElems()...)}, nil
	case mysql.TypeSet:
		return core.Set{Variants: append([]string(nil), tp.GetElems()...)}, nil
	default:
		return nil, fmt.Errorf("column type %q is outside the supported set", typeLabel(tp))
	}
}

func blobSize(t byte) string {
	switch t {
	case mysql.TypeTinyBlob:
		return "tiny"
	case mysql.TypeMediumBlob:
		return "medium"
	case mysql.TypeLongBlob:
		return "long"
	default:
		return "regular"
	}
}

func typeLabel(tp *pdtypes.FieldType) string {
	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := tp.Restore(restoreCtx); err == nil && sb.Len() > 0 {
		return sb.String()
	}
	return tp.String()
}
