package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetsOfOld computes an offsets array straight from the inline header
// of an unversioned old-style record.
func offsetsOfOld(rec Rec) *Offsets {
	fields := make([]FieldInfo, rec.NFields())
	for i := range fields {
		_, length := rec.Field(i)
		fields[i].End = uint32(rec.FieldStart(i + 1))
		if length == UnivSQLNull {
			fields[i].Flags |= FlagNull
		}
		if !rec.Is1ByteOffs() && rec.IsFieldExtern(i) {
			fields[i].Flags |= FlagExtern
		}
	}
	return NewOffsets(false, uint32(rec.ExtraSize()), fields)
}

func TestTranslate_Identity(t *testing.T) {
	rec := exampleRecord()
	unversioned := &fakeIndex{versions: false, off: []int{2, 1, 0}}

	for n := 0; n < 3; n++ {
		assert.Equal(t, n, ToPhysicalForOffsets(nil, n))
		assert.Equal(t, n, ToPhysicalForOldRecord(nil, rec, n))
		assert.Equal(t, n, ToPhysicalForOffsets(unversioned, n))
		assert.Equal(t, n, ToPhysicalForOldRecord(unversioned, rec, n))
	}
}

func TestTranslate_Versioned(t *testing.T) {
	rec := exampleRecord() // row version 2
	idx := &fakeIndex{
		versions: true,
		off:      []int{0, 2, 3, 1},
		phy:      map[uint8][]int{2: {0, 1, 2, 1}},
	}
	assert.Equal(t, 2, ToPhysicalForOffsets(idx, 1))
	assert.Equal(t, 1, ToPhysicalForOffsets(idx, 3))
	assert.Equal(t, 1, ToPhysicalForOldRecord(idx, rec, 1))
	assert.Equal(t, 2, ToPhysicalForOldRecord(idx, rec, 2))
}

func TestReadField_Dispatch(t *testing.T) {
	rec := exampleRecord()

	data, length := ReadField(nil, rec, nil, 0)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, uint32(5), length)

	offsets := NewOffsets(false, uint32(rec.ExtraSize()), []FieldInfo{
		{End: 5}, {End: 5, Flags: FlagNull}, {End: 9},
	})
	data, length = ReadField(nil, rec, offsets, 2)
	assert.Equal(t, "abcd", string(data))
	assert.Equal(t, uint32(4), length)

	data, length = ReadField(nil, rec, offsets, 1)
	assert.Equal(t, UnivSQLNull, length)
	assert.Empty(t, data)

	data, length = ReadField(nil, rec, nil, 1)
	assert.Equal(t, UnivSQLNull, length)
	assert.Empty(t, data)
}

func TestReadField_InstantAddedColumn(t *testing.T) {
	rec := exampleRecord() // three fields, version 2
	idx := &fakeIndex{
		versions: true,
		phy:      map[uint8][]int{2: {0, 1, 2, 3}},
	}
	offs, length := NthFieldOffsOld(idx, rec, 3)
	assert.Equal(t, UnivSQLAddColDefault, length)
	assert.Equal(t, rec.DataSize(), offs)
	assert.Equal(t, 0, NthFieldSizeOld(idx, rec, 3))
	assert.Equal(t, 4, NthFieldSizeOld(idx, rec, 2))
}

func TestReadField_InstantDroppedColumn(t *testing.T) {
	rec := exampleRecord() // three fields, version 2
	idx := &fakeIndex{
		versions: true,
		off:      []int{0, 2, 3, 1},
		phy:      map[uint8][]int{2: {0, 1, 2, 3}},
		dropped:  map[int]bool{3: true},
	}
	offs, length := NthFieldOffsOld(idx, rec, 3)
	assert.Equal(t, UnivSQLInstantDropCol, length)
	assert.Equal(t, rec.DataSize(), offs)
	assert.Equal(t, 0, NthFieldSizeOld(idx, rec, 3))

	offsets := NewOffsets(false, uint32(rec.ExtraSize()), []FieldInfo{
		{End: 5}, {End: 5, Flags: FlagDropped}, {End: 5, Flags: FlagNull}, {End: 9},
	})
	_, fromOffsets := ReadField(idx, rec, offsets, 3)
	data, inline := ReadField(idx, rec, nil, 3)
	assert.Equal(t, fromOffsets, inline)
	assert.Empty(t, data)
}

func TestSetNthField_RoundTrip(t *testing.T) {
	buf, origin, err := EncodeOld([]FieldValue{
		{Data: []byte("key1")},
		{Data: []byte("value")},
		{Data: []byte{0, 0, 0, 9}, FixedLen: 4},
	}, EncodeOptions{})
	require.NoError(t, err)
	rec := NewRec(buf, origin)
	offsets := offsetsOfOld(rec)

	SetNthField(nil, rec, offsets, 1, []byte("VALUE"), 5)
	data, length := ReadField(nil, rec, offsets, 1)
	assert.Equal(t, "VALUE", string(data))
	assert.Equal(t, uint32(5), length)

	data, length = ReadField(nil, rec, nil, 1)
	assert.Equal(t, "VALUE", string(data))
	assert.Equal(t, uint32(5), length)
	assert.Equal(t, "key1", string(rec.Data(0, 4)))

	t.Run("NULL往返", func(t *testing.T) {
		SetNthField(nil, rec, offsets, 2, nil, UnivSQLNull)
		assert.True(t, NthIsNull(nil, offsets, 2))
		assert.Equal(t, 4, NthSize(nil, offsets, 2), "fixed-length NULL keeps its footprint")
		_, length := ReadField(nil, rec, nil, 2)
		assert.Equal(t, UnivSQLNull, length)
		assert.Equal(t, []byte{0, 0, 0, 0}, rec.Data(9, 4))

		// setting NULL twice is a no-op
		SetNthField(nil, rec, offsets, 2, nil, UnivSQLNull)
		assert.True(t, NthIsNull(nil, offsets, 2))

		SetNthField(nil, rec, offsets, 2, []byte{0, 0, 1, 0}, 4)
		assert.False(t, NthIsNull(nil, offsets, 2))
		data, length := ReadField(nil, rec, nil, 2)
		assert.Equal(t, []byte{0, 0, 1, 0}, data)
		assert.Equal(t, uint32(4), length)
	})
}

func TestSetNthField_VersionedWithDroppedColumn(t *testing.T) {
	// Columns c0..c3, c1 instantly dropped in version 1. A row written in
	// version 1 stores c0, c2, c3; the offsets array also lists c1 as a
	// DROPPED placeholder.
	buf, origin, err := EncodeOld([]FieldValue{
		{Data: []byte("AAAA"), FixedLen: 4},
		{Data: []byte("CCCC"), FixedLen: 4},
		{Data: []byte("DDDD"), FixedLen: 4},
	}, EncodeOptions{Versioned: true, RowVersion: 1})
	require.NoError(t, err)
	rec := NewRec(buf, origin)

	offsets := NewOffsets(false, uint32(rec.ExtraSize()), []FieldInfo{
		{End: 4},
		{End: 4, Flags: FlagDropped},
		{End: 8},
		{End: 12},
	})
	// logical order: c0, c2, c3, then the dropped c1
	idx := &fakeIndex{
		versions: true,
		off:      []int{0, 2, 3, 1},
		phy:      map[uint8][]int{1: {0, 1, 2, 1}},
	}

	data, length := ReadField(idx, rec, nil, 1)
	assert.Equal(t, "CCCC", string(data))
	assert.Equal(t, uint32(4), length)
	data, _ = ReadField(idx, rec, offsets, 1)
	assert.Equal(t, "CCCC", string(data))
	_, length = ReadField(idx, rec, offsets, 3)
	assert.Equal(t, UnivSQLInstantDropCol, length)

	SetNthField(idx, rec, offsets, 1, nil, UnivSQLNull)
	assert.True(t, NthIsNull(idx, offsets, 1))
	_, length = rec.Field(1)
	assert.Equal(t, UnivSQLNull, length, "inline slot 1 holds c2")
	_, length = rec.Field(2)
	assert.Equal(t, uint32(4), length)
	_, length = ReadField(idx, rec, nil, 1)
	assert.Equal(t, UnivSQLNull, length)

	SetNthField(idx, rec, offsets, 1, []byte("cccc"), 4)
	data, length = ReadField(idx, rec, nil, 1)
	assert.Equal(t, "cccc", string(data))
	assert.Equal(t, uint32(4), length)
	assert.Equal(t, "DDDD", string(rec.Data(8, 4)))
}

func TestSetNthField_Contracts(t *testing.T) {
	buf, origin, err := EncodeOld([]FieldValue{
		{Data: []byte("abc")},
		{Null: true},
	}, EncodeOptions{})
	require.NoError(t, err)
	rec := NewRec(buf, origin)

	t.Run("compact NULL is always checked", func(t *testing.T) {
		compact := NewOffsets(true, 5, []FieldInfo{{End: 3}, {End: 3, Flags: FlagNull}})
		requireViolation(t, "set_nth_field", func() {
			SetNthFieldLow(rec, compact, 0, nil, UnivSQLNull)
		})
	})

	withDebugChecks(t)
	offsets := offsetsOfOld(rec)

	t.Run("length mismatch", func(t *testing.T) {
		requireViolation(t, "set_nth_field", func() {
			SetNthFieldLow(rec, offsets, 0, []byte("abcd"), 4)
		})
	})
	t.Run("NULL to value needs the slot size", func(t *testing.T) {
		requireViolation(t, "set_nth_field", func() {
			SetNthFieldLow(rec, offsets, 1, []byte("x"), 1)
		})
	})
	t.Run("default is never written", func(t *testing.T) {
		withDefault := NewOffsets(false, 8, []FieldInfo{{End: 3}, {End: 3, Flags: FlagDefault}})
		requireViolation(t, "set_nth_field", func() {
			SetNthFieldLow(rec, withDefault, 1, []byte{}, 0)
		})
	})
	t.Run("extern on NULL", func(t *testing.T) {
		requireViolation(t, "make_nth_extern", func() {
			MakeNthExtern(nil, offsets, 1)
		})
	})
}
