package core

// SQLType is the closed set of column types the parser can produce and the
// type resolver can consume. Adding a variant is an intentional source
// change: every switch over SQLType is expected to be exhaustive, and the
// resolver's tests assert that directly.
type SQLType interface {
	sqlType()
}

// TinyInt is MySQL's TINYINT, including the MySQL convention that
// TINYINT(1) denotes a boolean column.
type TinyInt struct {
	Width    int
	Unsigned bool
}

// SmallInt is MySQL's SMALLINT.
type SmallInt struct {
	Unsigned bool
}

// MediumInt is MySQL's MEDIUMINT.
type MediumInt struct {
	Unsigned bool
}

// Int is MySQL's INT/INTEGER.
type Int struct {
	Unsigned bool
}

// BigInt is MySQL's BIGINT. The resolver maps both signed and unsigned to
// a 64-bit signed target type; see typeresolve for the documented
// truncation risk of the unsigned case.
type BigInt struct {
	Unsigned bool
}

// Float is a single-precision floating point column.
type Float struct{}

// Double is a double-precision floating point column.
type Double struct{}

// Decimal is an arbitrary-precision fixed-point column.
type Decimal struct {
	Precision int
	Scale     int
}

// Bit is a bit-field column. BIT(1) is resolved as a boolean; wider widths
// resolve to a byte sequence.
type Bit struct {
	Width int
}

// Char is a fixed-length string column.
type Char struct{}

// VarChar is a variable-length string column.
type VarChar struct{}

// Text is one of the TEXT family (TINYTEXT/TEXT/MEDIUMTEXT/LONGTEXT). Size
// records which, purely for documentation; all sizes resolve the same way.
type Text struct {
	Size string
}

// Binary is a fixed-length byte string column.
type Binary struct{}

// VarBinary is a variable-length byte string column.
type VarBinary struct{}

// Blob is one of the BLOB family, analogous to Text.
type Blob struct {
	Size string
}

// Date is a calendar date with no time-of-day component.
type Date struct{}

// Time is a wall-clock time, or an interval offset from midnight.
type Time struct{}

// DateTime is a naive (zoneless) timestamp.
type DateTime struct{}

// Timestamp is a naive (zoneless) timestamp, distinct from DateTime only
// at the SQL-dialect level (e.g. implicit ON UPDATE semantics); the
// resolver treats both identically.
type Timestamp struct{}

// JSON is an opaque JSON document column.
type JSON struct{}

// Enum is a MySQL ENUM column. Variants is the ordered, non-empty list of
// string labels exactly as declared; ordering is preserved because the
// database stores ENUM values by ordinal position.
type Enum struct {
	Variants []string
}

// Set is a MySQL SET column. Represented as a single comma-joined string
// at runtime; the resolver downgrades it to Text.
type Set struct {
	Variants []string
}

func (TinyInt) sqlType()    {}
func (SmallInt) sqlType()   {}
func (MediumInt) sqlType()  {}
func (Int) sqlType()        {}
func (BigInt) sqlType()     {}
func (Float) sqlType()      {}
func (Double) sqlType()     {}
func (Decimal) sqlType()    {}
func (Bit) sqlType()        {}
func (Char) sqlType()       {}
func (VarChar) sqlType()    {}
func (Text) sqlType()       {}
func (Binary) sqlType()     {}
func (VarBinary) sqlType()  {}
func (Blob) sqlType()       {}
func (Date) sqlType()       {}
func (Time) sqlType()       {}
func (DateTime) sqlType()   {}
func (Timestamp) sqlType()  {}
func (JSON) sqlType()       {}
func (Enum) sqlType()       {}
func (Set) sqlType()        {}
