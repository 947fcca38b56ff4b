package metadata

import (
	"github.com/juju/errors"
)

// TableBuilder is a builder for creating Table objects
// 用于构建 Table 对象的构建器
//
// The first failing step is remembered and returned by Build; later steps
// are skipped.
type TableBuilder struct {
	table *Table
	err   error
}

// NewTableBuilder creates a new TableBuilder
func NewTableBuilder(name string) *TableBuilder {
	return &TableBuilder{
		table: NewTable(name),
	}
}

func newColumn(name string, dataType DataType, options []ColumnOption) *Column {
	col := &Column{
		Name:     name,
		DataType: dataType,
	}
	for _, opt := range options {
		opt(col)
	}
	return col
}

// AddColumn adds a column to the table
func (b *TableBuilder) AddColumn(name string, dataType DataType, options ...ColumnOption) *TableBuilder {
	if b.err != nil {
		return b
	}
	if b.table.HasRowVersions() {
		b.err = errors.Errorf("column %s: use AddColumnInstant after an instant change", name)
		return b
	}
	b.table.AddColumn(newColumn(name, dataType, options))
	return b
}

// AddPrimaryKey adds a primary key constraint
func (b *TableBuilder) AddPrimaryKey(columns ...string) *TableBuilder {
	if b.err != nil {
		return b
	}
	idx := &Index{
		Name:      "PRIMARY",
		Columns:   columns,
		IsPrimary: true,
		IsUnique:  true,
	}
	b.err = b.table.AddIndex(idx)
	return b
}

// AddIndex adds an index
func (b *TableBuilder) AddIndex(name string, unique bool, columns ...string) *TableBuilder {
	if b.err != nil {
		return b
	}
	idx := &Index{
		Name:     name,
		Columns:  columns,
		IsUnique: unique,
	}
	b.err = b.table.AddIndex(idx)
	return b
}

// AddColumnInstant replays an instant ADD COLUMN.
func (b *TableBuilder) AddColumnInstant(name string, dataType DataType, options ...ColumnOption) *TableBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.table.AddColumnInstant(newColumn(name, dataType, options))
	return b
}

// DropColumnInstant replays an instant DROP COLUMN.
func (b *TableBuilder) DropColumnInstant(name string) *TableBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.table.DropColumnInstant(name)
	return b
}

// Build validates and returns the built Table
func (b *TableBuilder) Build() (*Table, error) {
	if b.err != nil {
		return nil, errors.Trace(b.err)
	}
	if err := b.table.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return b.table, nil
}

// ColumnOption is a function that modifies a Column
// 用于修改 Column 的函数类型
type ColumnOption func(*Column)

// WithLength sets the maximum length for string/binary types
func WithLength(length int) ColumnOption {
	return func(c *Column) {
		c.CharMaxLength = length
	}
}

// Nullable marks the column as nullable
func Nullable() ColumnOption {
	return func(c *Column) {
		c.IsNullable = true
	}
}

// WithDefault sets the default value
func WithDefault(value interface{}) ColumnOption {
	return func(c *Column) {
		c.DefaultValue = value
	}
}

// WithCharset sets the character set
func WithCharset(charset string) ColumnOption {
	return func(c *Column) {
		c.Charset = charset
	}
}
