// Package naming derives Go identifiers — type names, field names, method
// names, enum variant names — from raw database names. Every function here
// is pure: same input, same output, no knowledge of any other table.
// Collisions between method names inside one DAO are NOT resolved here;
// that is the planner's job (see internal/planner), which is the only
// stage allowed to see a table's full index/FK set at once.
package naming

import (
	"strings"
	"unicode"
)

// goKeywords is the set of reserved words that cannot be used as a Go
// identifier. Unlike a struct field (always PascalCase, and therefore
// never collides with a lowercase keyword), method parameters derived
// from column names are produced in snake_case and do collide.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// ToSnakeCase lowercases an arbitrary raw database identifier and converts
// camelCase / PascalCase / space-or-dash-separated runs into snake_case.
// Already-snake_case input passes through unchanged (aside from casing).
func ToSnakeCase(raw string) string {
	var b strings.Builder
	var prevLower, prevDigit bool
	for i, r := range raw {
		switch {
		case r == '-' || r == ' ' || r == '.':
			if b.Len() > 0 {
				b.WriteByte('_')
			}
			prevLower, prevDigit = false, false
			continue
		case r == '_':
			b.WriteByte('_')
			prevLower, prevDigit = false, false
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && (prevLower || prevDigit) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower, prevDigit = false, false
		} else if unicode.IsDigit(r) {
			b.WriteRune(r)
			prevLower, prevDigit = false, true
		} else {
			b.WriteRune(r)
			prevLower, prevDigit = true, false
		}
	}
	return strings.Trim(b.String(), "_")
}

// ToPascalCase converts a raw or snake_case database identifier into a
// PascalCase Go identifier, e.g. "user_settings" -> "UserSettings".
func ToPascalCase(raw string) string {
	snake := ToSnakeCase(raw)
	parts := strings.Split(snake, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		b.WriteRune(unicode.ToUpper(r[0]))
		if len(r) > 1 {
			b.WriteString(string(r[1:]))
		}
	}
	return b.String()
}

// EscapeParam returns paramName unchanged unless it collides with a Go
// keyword, in which case a trailing underscore is appended (matching the
// convention protoc-gen-go and sqlc both use for reserved-word fields).
func EscapeParam(paramName string) string {
	if goKeywords[paramName] {
		return paramName + "_"
	}
	return paramName
}

// TypeName derives the exported record type name for a table:
// singularised, then PascalCased.
func TypeName(tableName string) string {
	return ToPascalCase(Singularize(ToSnakeCase(tableName)))
}

// ModuleName derives the snake_case DAO/model file stem for a table. Kept
// plural: it names the table's own module, not an individual record.
func ModuleName(tableName string) string {
	return ToSnakeCase(tableName)
}

// FieldName derives the snake_case identifier used to build method-name
// fragments (find_by_<field>, ...) from a raw column name.
func FieldName(columnName string) string {
	return ToSnakeCase(columnName)
}

// StructFieldName derives the exported Go struct field name for a column.
// Struct fields are always PascalCase and therefore never collide with a
// (lowercase) Go keyword, unlike method parameters.
func StructFieldName(columnName string) string {
	return ToPascalCase(columnName)
}

// EnumTypeName derives the synthetic enumeration type name for an ENUM
// column: <TableTypePascal><ColumnPascal>. Two columns with identical
// variant lists never share a type — the name alone decides identity.
func EnumTypeName(tableName, columnName string) string {
	return TypeName(tableName) + ToPascalCase(columnName)
}

// EnumVariantName PascalCases a raw ENUM literal, coercing any character
// that cannot appear in a Go identifier to an underscore. Ordering of the
// input variants is the caller's responsibility to preserve; this function
// is purely a per-literal transform.
func EnumVariantName(literal string) string {
	var b strings.Builder
	for _, r := range literal {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		cleaned = "_"
	}
	pascal := ToPascalCase(cleaned)
	if pascal == "" {
		pascal = "_" + cleaned
	}
	if r := []rune(pascal)[0]; unicode.IsDigit(r) {
		pascal = "_" + pascal
	}
	return pascal
}

// FindByMethodName builds the method name for a scalar lookup over the
// given ordered column names: find_by_a, or find_by_a_and_b for composite
// keys.
func FindByMethodName(columns []string) string {
	return "find_by_" + joinFields(columns)
}

// DeleteByMethodName builds delete_by_<...> analogous to FindByMethodName.
func DeleteByMethodName(columns []string) string {
	return "delete_by_" + joinFields(columns)
}

// BulkFindByMethodName builds the bulk (IN-clause) variant of a lookup.
// When pluralizeLast is true (the column set's last entry is the one
// whose plural form varies — either because it is the sole column, or
// because it is a composite candidate's trailing enum/FK column) that
// final fragment is pluralized; preceding fragments stay scalar.
func BulkFindByMethodName(columns []string, pluralizeLast bool) string {
	fields := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = FieldName(c)
	}
	if pluralizeLast && len(fields) > 0 {
		fields[len(fields)-1] = Pluralize(fields[len(fields)-1])
	}
	return "find_by_" + strings.Join(fields, "_and_")
}

func joinFields(columns []string) string {
	fields := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = FieldName(c)
	}
	return strings.Join(fields, "_and_")
}
