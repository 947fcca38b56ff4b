package metadata

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/record"
)

var _ record.IndexDescriptor = (*Index)(nil)

// Index represents a database index
// 表示数据库中的索引
//
// The fields of the clustered index are the key columns followed by every
// other column. The logical order (the one callers use) lists the visible
// columns first and the dropped ones last; the physical order is the
// order in which columns were added. Build precomputes the mapping
// between the two for every row version.
type Index struct {
	Table     *Table
	Name      string
	Columns   []string
	IsUnique  bool
	IsPrimary bool

	fields   []*Column // logical order
	physical []*Column // physical order
	offPos   []int
	phyPos   [][]int // [row version][logical field]
	nPresent []int   // stored fields per row version
}

// Build recomputes the field lists and position tables. It runs whenever
// the index or the table definition changes.
func (idx *Index) Build() error {
	t := idx.Table
	if t == nil {
		return errors.Annotatef(basic.ErrIndexNotFound, "index %s is not attached to a table", idx.Name)
	}

	keys := make([]*Column, 0, len(idx.Columns))
	inKey := make(map[*Column]bool)
	for _, name := range idx.Columns {
		col, ok := t.GetColumn(name)
		if !ok {
			return errors.Annotatef(basic.ErrColumnNotFound, "index %s references %s", idx.Name, name)
		}
		keys = append(keys, col)
		inKey[col] = true
	}

	if !idx.IsPrimary {
		idx.fields = keys
		if t.PrimaryKey != nil && t.PrimaryKey != idx {
			for _, col := range t.PrimaryKey.fields[:len(t.PrimaryKey.Columns)] {
				if !inKey[col] {
					idx.fields = append(idx.fields, col)
				}
			}
		}
		idx.physical = idx.fields
		idx.offPos = identity(len(idx.fields))
		idx.phyPos = [][]int{idx.offPos}
		idx.nPresent = []int{len(idx.fields)}
		return nil
	}

	physical := append([]*Column(nil), keys...)
	var visible, dropped []*Column
	for _, col := range t.Columns {
		if inKey[col] {
			continue
		}
		physical = append(physical, col)
		if col.IsDropped() {
			dropped = append(dropped, col)
		} else {
			visible = append(visible, col)
		}
	}
	if len(physical) > record.RecMaxNFields {
		return errors.Annotatef(basic.ErrInvalidFieldCount, "index %s has %d fields", idx.Name, len(physical))
	}

	fields := append(append(append([]*Column(nil), keys...), visible...), dropped...)
	where := make(map[*Column]int, len(physical))
	for i, col := range physical {
		where[col] = i
	}

	idx.fields = fields
	idx.physical = physical
	idx.offPos = make([]int, len(fields))
	for n, col := range fields {
		idx.offPos[n] = where[col]
	}

	versions := int(t.CurrentRowVersion) + 1
	idx.phyPos = make([][]int, versions)
	idx.nPresent = make([]int, versions)
	for v := 0; v < versions; v++ {
		// slot[i] is the inline slot of physical field i in rows of version v
		slot := make([]int, len(physical))
		present := 0
		for i, col := range physical {
			slot[i] = present
			if col.IsPresentInVersion(uint8(v)) {
				present++
			}
		}
		pos := make([]int, len(fields))
		for n, col := range fields {
			if col.IsPresentInVersion(uint8(v)) {
				pos[n] = slot[where[col]]
			} else {
				pos[n] = present
			}
		}
		idx.phyPos[v] = pos
		idx.nPresent[v] = present
	}
	return nil
}

func identity(n int) []int {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = i
	}
	return pos
}

// HasRowVersions reports whether rows of this index may have been written
// under different column layouts. Only the clustered index carries row
// versions. A nil index has none.
func (idx *Index) HasRowVersions() bool {
	return idx != nil && idx.IsPrimary && idx.Table != nil && idx.Table.HasRowVersions()
}

// FieldOffPos returns the offsets array position of logical field n.
func (idx *Index) FieldOffPos(n int) int {
	return idx.offPos[n]
}

// FieldPhyPos returns the inline slot of logical field n in an old-style
// row written under version. A field the row does not store maps to the
// row's field count.
func (idx *Index) FieldPhyPos(n int, version uint8) int {
	v := int(version)
	if v >= len(idx.phyPos) {
		v = len(idx.phyPos) - 1
	}
	return idx.phyPos[v][n]
}

// FieldIsDropped reports whether logical field n is an instantly dropped
// column.
func (idx *Index) FieldIsDropped(n int) bool {
	return idx.fields[n].IsDropped()
}

// NFields returns the number of logical fields, dropped ones included.
func (idx *Index) NFields() int {
	return len(idx.fields)
}

// NUserFields returns the number of fields of the current definition.
func (idx *Index) NUserFields() int {
	n := 0
	for _, col := range idx.fields {
		if !col.IsDropped() {
			n++
		}
	}
	return n
}

// NFieldsInVersion returns how many fields a row written under version
// stores.
func (idx *Index) NFieldsInVersion(version uint8) int {
	v := int(version)
	if v >= len(idx.nPresent) {
		v = len(idx.nPresent) - 1
	}
	return idx.nPresent[v]
}

// Field returns logical field n.
func (idx *Index) Field(n int) *Column {
	return idx.fields[n]
}

// Fields returns the fields in logical order.
func (idx *Index) Fields() []*Column {
	return idx.fields
}

// PhysicalFields returns the fields in the order their values are laid
// out, dropped columns included.
func (idx *Index) PhysicalFields() []*Column {
	return idx.physical
}

// FieldIndex returns the logical position of the visible column name, or -1.
func (idx *Index) FieldIndex(name string) int {
	for n, col := range idx.fields {
		if !col.IsDropped() && strings.EqualFold(col.Name, name) {
			return n
		}
	}
	return -1
}

// SQL returns the SQL definition of the index
func (idx *Index) SQL() string {
	var builder strings.Builder

	if idx.IsPrimary {
		builder.WriteString("PRIMARY KEY")
	} else if idx.IsUnique {
		builder.WriteString("UNIQUE KEY")
	} else {
		builder.WriteString("KEY")
	}

	if !idx.IsPrimary {
		builder.WriteString(fmt.Sprintf(" `%s`", idx.Name))
	}

	builder.WriteString(" (")
	for i, col := range idx.Columns {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(fmt.Sprintf("`%s`", col))
	}
	builder.WriteString(")")

	return builder.String()
}
