package metadata

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
)

// Column represents a database column
// 表示数据库中的列
type Column struct {
	Table           *Table
	Name            string
	OrdinalPosition int
	DataType        DataType
	CharMaxLength   int
	IsNullable      bool
	DefaultValue    interface{}
	Charset         string

	// PhyPos is the position of the column among all columns ever
	// physically added to the table. It never changes, even when
	// columns before it are dropped.
	PhyPos int
	// VersionAdded is the row version that introduced the column, 0 for
	// columns created with the table.
	VersionAdded uint8
	// VersionDropped is the row version that removed the column, 0 while
	// the column is visible.
	VersionDropped uint8
}

// DataType represents the SQL data type of a column
type DataType string

// Common SQL data types
const (
	TypeTinyInt    DataType = "TINYINT"
	TypeSmallInt   DataType = "SMALLINT"
	TypeMediumInt  DataType = "MEDIUMINT"
	TypeInt        DataType = "INT"
	TypeBigInt     DataType = "BIGINT"
	TypeFloat      DataType = "FLOAT"
	TypeDouble     DataType = "DOUBLE"
	TypeDecimal    DataType = "DECIMAL"
	TypeDate       DataType = "DATE"
	TypeTime       DataType = "TIME"
	TypeDateTime   DataType = "DATETIME"
	TypeTimestamp  DataType = "TIMESTAMP"
	TypeYear       DataType = "YEAR"
	TypeChar       DataType = "CHAR"
	TypeVarchar    DataType = "VARCHAR"
	TypeBinary     DataType = "BINARY"
	TypeVarBinary  DataType = "VARBINARY"
	TypeBlob       DataType = "BLOB"
	TypeText       DataType = "TEXT"
	TypeJSON       DataType = "JSON"
)

// fixedSizes 定长类型在老格式记录中占用的字节数
var fixedSizes = map[DataType]int{
	TypeTinyInt:   1,
	TypeSmallInt:  2,
	TypeMediumInt: 3,
	TypeInt:       4,
	TypeBigInt:    8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeDate:      3,
	TypeTime:      3,
	TypeDateTime:  5,
	TypeTimestamp: 4,
	TypeYear:      1,
}

// ParseDataType maps a type name to a DataType.
func ParseDataType(name string) (DataType, error) {
	dt := DataType(strings.ToUpper(strings.TrimSpace(name)))
	switch dt {
	case TypeChar, TypeVarchar, TypeBinary, TypeVarBinary,
		TypeBlob, TypeText, TypeJSON, TypeDecimal:
		return dt, nil
	}
	if _, ok := fixedSizes[dt]; ok {
		return dt, nil
	}
	return "", errors.Annotatef(basic.ErrInvalidColumnDefault, "unknown data type %q", name)
}

// Validate checks if the column definition is valid
func (c *Column) Validate() error {
	if c.Name == "" {
		return errors.Annotatef(basic.ErrInvalidColumnDefault, "column name cannot be empty")
	}

	switch c.DataType {
	case TypeChar, TypeVarchar, TypeBinary, TypeVarBinary:
		if c.CharMaxLength <= 0 {
			return errors.Annotatef(basic.ErrInvalidColumnDefault,
				"column %s: length must be positive for type %s", c.Name, c.DataType)
		}
	case TypeBlob, TypeText, TypeJSON, TypeDecimal:
	default:
		if _, ok := fixedSizes[c.DataType]; !ok {
			return errors.Annotatef(basic.ErrInvalidColumnDefault,
				"column %s: unknown data type %s", c.Name, c.DataType)
		}
	}
	return nil
}

// FixedSize returns the number of bytes the column always occupies in
// an old-style record, NULL included, or 0 for variable-length columns.
// CHAR and BINARY are fixed only in a single-byte character set.
func (c *Column) FixedSize() int {
	switch c.DataType {
	case TypeBinary:
		return c.CharMaxLength
	case TypeChar:
		if c.Charset == "" || strings.EqualFold(c.Charset, "latin1") || strings.EqualFold(c.Charset, "binary") {
			return c.CharMaxLength
		}
		return 0
	}
	return fixedSizes[c.DataType]
}

// IsDropped reports whether the column was instantly dropped.
func (c *Column) IsDropped() bool {
	return c.VersionDropped != 0
}

// IsPresentInVersion reports whether rows written in row version v store
// a value for the column.
func (c *Column) IsPresentInVersion(v uint8) bool {
	if v < c.VersionAdded {
		return false
	}
	return c.VersionDropped == 0 || v < c.VersionDropped
}

// IsInstantAdded reports whether the column was added by an instant ADD
// COLUMN.
func (c *Column) IsInstantAdded() bool {
	return c.VersionAdded != 0
}

// SQL returns the SQL definition of the column
func (c *Column) SQL() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("`%s` %s", c.Name, c.DataType))

	switch c.DataType {
	case TypeChar, TypeVarchar, TypeBinary, TypeVarBinary:
		builder.WriteString(fmt.Sprintf("(%d)", c.CharMaxLength))
	}

	if c.IsNullable {
		builder.WriteString(" NULL")
	} else {
		builder.WriteString(" NOT NULL")
	}

	if c.DefaultValue != nil {
		builder.WriteString(fmt.Sprintf(" DEFAULT %v", c.DefaultValue))
	}

	if c.Charset != "" {
		builder.WriteString(fmt.Sprintf(" CHARACTER SET %s", c.Charset))
	}
	return builder.String()
}
