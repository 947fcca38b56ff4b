package metadata

import (
	"strings"

	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/record"
)

// Table represents a database table
// 表示数据库中的表
//
// Columns holds every column ever physically added, in definition order,
// including instantly dropped ones. Dropped columns are hidden from name
// lookups but keep their physical position for old rows.
type Table struct {
	Name       string
	Columns    []*Column
	Indices    []*Index
	PrimaryKey *Index
	RowFormat  string

	// CurrentRowVersion counts the instant ADD/DROP COLUMN operations
	// applied to the table.
	CurrentRowVersion uint8
	nextPhyPos        int
}

// NewTable creates a new table
func NewTable(name string) *Table {
	return &Table{
		Name:      name,
		Columns:   make([]*Column, 0),
		Indices:   make([]*Index, 0),
		RowFormat: "REDUNDANT",
	}
}

// AddColumn adds a column to the table definition. It is meant for
// CREATE TABLE; after the first row version use AddColumnInstant.
func (t *Table) AddColumn(col *Column) {
	col.Table = t
	col.PhyPos = t.nextPhyPos
	col.VersionAdded = t.CurrentRowVersion
	t.nextPhyPos++
	t.Columns = append(t.Columns, col)
	t.renumber()
}

// renumber 重新计算可见列的序号（从1开始）
func (t *Table) renumber() {
	pos := 1
	for _, col := range t.Columns {
		if col.IsDropped() {
			col.OrdinalPosition = 0
			continue
		}
		col.OrdinalPosition = pos
		pos++
	}
}

// GetColumn returns a visible column by name (case-insensitive)
func (t *Table) GetColumn(name string) (*Column, bool) {
	for _, col := range t.Columns {
		if !col.IsDropped() && strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return nil, false
}

// GetColumnByIndex returns a visible column by its ordinal position (1-based)
func (t *Table) GetColumnByIndex(idx int) (*Column, bool) {
	for _, col := range t.Columns {
		if col.OrdinalPosition == idx && !col.IsDropped() {
			return col, true
		}
	}
	return nil, false
}

// VisibleColumns returns the columns of the current definition.
func (t *Table) VisibleColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, col := range t.Columns {
		if !col.IsDropped() {
			cols = append(cols, col)
		}
	}
	return cols
}

// DroppedColumns returns the instantly dropped columns ordered by
// physical position.
func (t *Table) DroppedColumns() []*Column {
	var cols []*Column
	for _, col := range t.Columns {
		if col.IsDropped() {
			cols = append(cols, col)
		}
	}
	return cols
}

// HasRowVersions reports whether any instant ADD/DROP COLUMN was applied.
func (t *Table) HasRowVersions() bool {
	return t.CurrentRowVersion > 0
}

func (t *Table) nextRowVersion() (uint8, error) {
	if t.CurrentRowVersion >= record.MaxRowVersion {
		return 0, errors.Annotatef(basic.ErrTooManyRowVersions, "table %s is at row version %d",
			t.Name, t.CurrentRowVersion)
	}
	return t.CurrentRowVersion + 1, nil
}

// AddColumnInstant appends col to the table without rebuilding it. Rows
// written before the new row version do not store the column.
func (t *Table) AddColumnInstant(col *Column) error {
	if err := col.Validate(); err != nil {
		return errors.Trace(err)
	}
	if _, exists := t.GetColumn(col.Name); exists {
		return errors.Annotatef(basic.ErrDuplicateColumn, "column %s in table %s", col.Name, t.Name)
	}
	version, err := t.nextRowVersion()
	if err != nil {
		return err
	}

	t.CurrentRowVersion = version
	t.AddColumn(col)
	return t.rebuildIndexes()
}

// DropColumnInstant removes a column from the definition without
// rebuilding the table. The column keeps its physical position so rows
// written before the drop can still be parsed.
func (t *Table) DropColumnInstant(name string) error {
	col, exists := t.GetColumn(name)
	if !exists {
		return errors.Annotatef(basic.ErrColumnNotFound, "column %s in table %s", name, t.Name)
	}
	for _, idx := range t.Indices {
		for _, key := range idx.Columns {
			if strings.EqualFold(key, col.Name) {
				return errors.Annotatef(basic.ErrCannotDropKeyColumn, "column %s is part of index %s",
					col.Name, idx.Name)
			}
		}
	}
	version, err := t.nextRowVersion()
	if err != nil {
		return err
	}

	t.CurrentRowVersion = version
	col.VersionDropped = version
	t.renumber()
	return t.rebuildIndexes()
}

func (t *Table) rebuildIndexes() error {
	for _, idx := range t.Indices {
		if err := idx.Build(); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// AddIndex adds an index to the table
func (t *Table) AddIndex(idx *Index) error {
	for _, colName := range idx.Columns {
		if _, exists := t.GetColumn(colName); !exists {
			return errors.Annotatef(basic.ErrColumnNotFound, "column %s in table %s", colName, t.Name)
		}
	}

	idx.Table = t
	if err := idx.Build(); err != nil {
		return errors.Trace(err)
	}
	t.Indices = append(t.Indices, idx)

	if idx.IsPrimary {
		t.PrimaryKey = idx
		// secondary indexes carry the primary key columns
		return t.rebuildIndexes()
	}
	return nil
}

// GetIndex returns an index by name (case-insensitive)
func (t *Table) GetIndex(name string) (*Index, bool) {
	for _, idx := range t.Indices {
		if strings.EqualFold(idx.Name, name) {
			return idx, true
		}
	}
	return nil, false
}

// ClusteredIndex returns the primary key index.
func (t *Table) ClusteredIndex() (*Index, error) {
	if t.PrimaryKey == nil {
		return nil, errors.Annotatef(basic.ErrIndexNotFound, "table %s has no primary key", t.Name)
	}
	return t.PrimaryKey, nil
}

// Validate checks if the table definition is valid
func (t *Table) Validate() error {
	if t.Name == "" {
		return errors.Errorf("table name cannot be empty")
	}

	seenCols := make(map[string]bool)
	for _, col := range t.VisibleColumns() {
		key := strings.ToLower(col.Name)
		if seenCols[key] {
			return errors.Annotatef(basic.ErrDuplicateColumn, "column %s", col.Name)
		}
		seenCols[key] = true

		if err := col.Validate(); err != nil {
			return errors.Annotatef(err, "invalid column %s", col.Name)
		}
	}
	if len(t.Columns) > record.RecMaxNFields {
		return errors.Annotatef(basic.ErrInvalidFieldCount, "table %s has %d columns", t.Name, len(t.Columns))
	}

	if t.PrimaryKey != nil {
		for _, colName := range t.PrimaryKey.Columns {
			if _, exists := t.GetColumn(colName); !exists {
				return errors.Annotatef(basic.ErrColumnNotFound, "primary key column %s", colName)
			}
		}
	}

	seenIndices := make(map[string]bool)
	for _, idx := range t.Indices {
		if seenIndices[idx.Name] {
			return errors.Errorf("duplicate index name: %s", idx.Name)
		}
		seenIndices[idx.Name] = true

		for _, colName := range idx.Columns {
			if _, exists := t.GetColumn(colName); !exists {
				return errors.Annotatef(basic.ErrColumnNotFound, "index %s references %s", idx.Name, colName)
			}
		}
	}

	return nil
}
