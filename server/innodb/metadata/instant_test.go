package metadata

import (
	"fmt"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/record"
)

func baseTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTableBuilder("t1").
		AddColumn("id", TypeInt).
		AddColumn("c1", TypeVarchar, WithLength(10), Nullable()).
		AddColumn("c2", TypeInt).
		AddColumn("c3", TypeVarchar, WithLength(10)).
		AddPrimaryKey("id").
		Build()
	require.NoError(t, err)
	return table
}

func names(cols []*Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func TestTableBuilder(t *testing.T) {
	table := baseTable(t)

	col, ok := table.GetColumn("C2")
	require.True(t, ok)
	assert.Equal(t, 3, col.OrdinalPosition)
	assert.Equal(t, 2, col.PhyPos)
	assert.Equal(t, 4, col.FixedSize())
	assert.Equal(t, "`c1` VARCHAR(10) NULL", table.Columns[1].SQL())
	assert.Equal(t, "PRIMARY KEY (`id`)", table.PrimaryKey.SQL())
	assert.False(t, table.HasRowVersions())
	assert.False(t, table.PrimaryKey.HasRowVersions())

	_, err := NewTableBuilder("t2").
		AddColumn("id", TypeInt).
		AddPrimaryKey("missing").
		AddColumn("ignored", TypeInt).
		Build()
	assert.Equal(t, basic.ErrColumnNotFound, errors.Cause(err))

	_, err = NewTableBuilder("t3").AddColumn("v", TypeVarchar).Build()
	assert.Equal(t, basic.ErrInvalidColumnDefault, errors.Cause(err))

	_, err = NewTableBuilder("t4").AddColumn("a", TypeInt).AddColumn("A", TypeInt).Build()
	assert.Equal(t, basic.ErrDuplicateColumn, errors.Cause(err))
}

func TestIndex_InstantHistory(t *testing.T) {
	table := baseTable(t)
	require.NoError(t, table.DropColumnInstant("c1"))
	require.NoError(t, table.AddColumnInstant(&Column{Name: "c4", DataType: TypeVarchar, CharMaxLength: 5, IsNullable: true}))
	assert.Equal(t, uint8(2), table.CurrentRowVersion)

	idx, err := table.ClusteredIndex()
	require.NoError(t, err)
	require.True(t, idx.HasRowVersions())

	assert.Equal(t, []string{"id", "c2", "c3", "c4", "c1"}, names(idx.Fields()))
	assert.Equal(t, []string{"id", "c1", "c2", "c3", "c4"}, names(idx.PhysicalFields()))
	assert.Equal(t, 5, idx.NFields())
	assert.Equal(t, 4, idx.NUserFields())

	offPos := make([]int, idx.NFields())
	for n := range offPos {
		offPos[n] = idx.FieldOffPos(n)
	}
	assert.Equal(t, []int{0, 2, 3, 4, 1}, offPos)

	tests := []struct {
		version uint8
		phy     []int
		stored  int
	}{
		{0, []int{0, 2, 3, 4, 1}, 4},
		{1, []int{0, 1, 2, 3, 3}, 3},
		{2, []int{0, 1, 2, 3, 4}, 4},
	}
	for _, tt := range tests {
		phy := make([]int, idx.NFields())
		for n := range phy {
			phy[n] = idx.FieldPhyPos(n, tt.version)
		}
		assert.Equal(t, tt.phy, phy, "version %d", tt.version)
		assert.Equal(t, tt.stored, idx.NFieldsInVersion(tt.version))
	}

	c1 := idx.Field(4)
	assert.True(t, c1.IsDropped())
	assert.True(t, c1.IsPresentInVersion(0))
	assert.False(t, c1.IsPresentInVersion(1))
	c4 := idx.Field(3)
	assert.True(t, c4.IsInstantAdded())
	assert.False(t, c4.IsPresentInVersion(1))
	assert.True(t, c4.IsPresentInVersion(2))

	assert.Equal(t, 3, idx.FieldIndex("c4"))
	assert.Equal(t, -1, idx.FieldIndex("c1"))
	_, ok := table.GetColumn("c1")
	assert.False(t, ok)
	second, ok := table.GetColumnByIndex(2)
	require.True(t, ok)
	assert.Equal(t, "c2", second.Name, "ordinals skip dropped columns")
	assert.Equal(t, []string{"c1"}, names(table.DroppedColumns()))
}

func TestTable_InstantErrors(t *testing.T) {
	table := baseTable(t)
	require.NoError(t, table.AddIndex(&Index{Name: "k_c2", Columns: []string{"c2"}}))

	err := table.DropColumnInstant("id")
	assert.Equal(t, basic.ErrCannotDropKeyColumn, errors.Cause(err))
	err = table.DropColumnInstant("c2")
	assert.Equal(t, basic.ErrCannotDropKeyColumn, errors.Cause(err))
	err = table.DropColumnInstant("nope")
	assert.Equal(t, basic.ErrColumnNotFound, errors.Cause(err))
	err = table.AddColumnInstant(&Column{Name: "C3", DataType: TypeInt})
	assert.Equal(t, basic.ErrDuplicateColumn, errors.Cause(err))
	assert.Equal(t, uint8(0), table.CurrentRowVersion, "failed changes do not bump the version")

	for i := 0; i < record.MaxRowVersion; i++ {
		require.NoError(t, table.AddColumnInstant(&Column{Name: fmt.Sprintf("x%d", i), DataType: TypeInt}))
	}
	err = table.AddColumnInstant(&Column{Name: "overflow", DataType: TypeInt})
	assert.Equal(t, basic.ErrTooManyRowVersions, errors.Cause(err))
	assert.Equal(t, uint8(record.MaxRowVersion), table.CurrentRowVersion)
}

func TestIndex_Secondary(t *testing.T) {
	table := baseTable(t)
	require.NoError(t, table.AddIndex(&Index{Name: "k_c3", Columns: []string{"c3"}}))
	require.NoError(t, table.AddColumnInstant(&Column{Name: "c4", DataType: TypeBigInt}))

	sec, ok := table.GetIndex("K_C3")
	require.True(t, ok)
	assert.Equal(t, []string{"c3", "id"}, names(sec.Fields()))
	assert.False(t, sec.HasRowVersions(), "only the clustered index is versioned")
	assert.Equal(t, "KEY `k_c3` (`c3`)", sec.SQL())

	var nilIndex *Index
	assert.False(t, nilIndex.HasRowVersions())
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType(" varchar ")
	require.NoError(t, err)
	assert.Equal(t, TypeVarchar, dt)

	_, err = ParseDataType("GEOMETRY")
	assert.Equal(t, basic.ErrInvalidColumnDefault, errors.Cause(err))

	assert.Equal(t, 8, (&Column{DataType: TypeBinary, CharMaxLength: 8}).FixedSize())
	assert.Equal(t, 0, (&Column{DataType: TypeChar, CharMaxLength: 8, Charset: "utf8mb4"}).FixedSize())
	assert.Equal(t, 0, (&Column{DataType: TypeVarchar, CharMaxLength: 8}).FixedSize())
}
