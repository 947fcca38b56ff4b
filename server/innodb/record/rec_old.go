package record

import (
	"github.com/smartystreets/assertions"

	"github.com/zhukovaskychina/xmysql-rowfmt/util"
)

// Field offset codec for old-style records. Field n is described by an
// end-info slot at a fixed backward stride from the origin: one byte in
// the 1-byte form (NULL flag 0x80), two bytes in the 2-byte form (NULL
// flag 0x8000, EXTERN flag 0x4000). The slots are shifted by one byte when
// the record carries a row version.
//
// Preconditions (field index range, matching slot width) are checked only
// when debug checks are on.

func (r Rec) slot1Pos(n int) int {
	return r.Origin - (RecNOldExtraBytes + r.versionLen() + n + 1)
}

func (r Rec) slot2Pos(n int) int {
	return r.Origin - (RecNOldExtraBytes + r.versionLen() + 2*n + 2)
}

// endInfoMask returns the flag bits of the slot form used by r.
func (r Rec) endInfoMask() uint32 {
	if r.Is1ByteOffs() {
		return Rec1ByteSQLNullMask
	}
	return Rec2ByteSQLNullMask | Rec2ByteExternMask
}

// PrevFieldEndInfo returns the end info of field n-1, that is the raw start
// of field n with flags still present.
func (r Rec) PrevFieldEndInfo(n int) uint32 {
	if debugChecks.Load() {
		check("prev_field_end_info", assertions.ShouldBeGreaterThan(n, 0))
		checkFieldBound("prev_field_end_info", n, r.NFields())
	}
	return r.FieldEndInfo(n - 1)
}

// FieldStart returns the offset of the start of field n. The start of a
// NULL field is the end of the previous field. n may equal NFields, in
// which case the end of the last field is returned.
func (r Rec) FieldStart(n int) int {
	if debugChecks.Load() {
		checkFieldBound("field_start", n, r.NFields())
	}
	if n == 0 {
		return 0
	}
	return int(r.FieldEndInfo(n-1) &^ r.endInfoMask())
}

// FieldEndInfo returns the raw end-info slot of field n: the end offset
// with the NULL (and in the 2-byte form EXTERN) flag ORed in.
func (r Rec) FieldEndInfo(n int) uint32 {
	if debugChecks.Load() {
		checkFieldIndex("field_end_info", n, r.NFields())
	}
	if r.Is1ByteOffs() {
		return util.MachReadFrom1(r.Buf, r.slot1Pos(n))
	}
	return util.MachReadFrom2(r.Buf, r.slot2Pos(n))
}

// SetFieldEndInfo writes the end-info slot of field n.
func (r Rec) SetFieldEndInfo(n int, info uint32) {
	if debugChecks.Load() {
		checkFieldIndex("set_field_end_info", n, r.NFields())
	}
	if r.Is1ByteOffs() {
		if debugChecks.Load() {
			check("set_field_end_info", assertions.ShouldBeLessThanOrEqualTo(info, 0xFF))
		}
		util.MachWriteTo1(r.Buf, r.slot1Pos(n), info)
		return
	}
	if debugChecks.Load() {
		check("set_field_end_info", assertions.ShouldBeLessThanOrEqualTo(info, 0xFFFF))
	}
	util.MachWriteTo2(r.Buf, r.slot2Pos(n), info)
}

// FieldSize returns the physical size of field n. A NULL field of a
// fixed-length column still occupies its fixed size.
func (r Rec) FieldSize(n int) int {
	size := r.FieldStart(n+1) - r.FieldStart(n)
	if debugChecks.Load() {
		check("field_size", assertions.ShouldBeLessThan(size, int(pageSize.Load())))
	}
	return size
}

// SetNullBit sets or clears the SQL NULL flag of field n, keeping the end
// offset and, in the 2-byte form, the EXTERN flag.
func (r Rec) SetNullBit(n int, val bool) {
	mask := uint32(Rec2ByteSQLNullMask)
	if r.Is1ByteOffs() {
		mask = Rec1ByteSQLNullMask
	}
	info := r.FieldEndInfo(n)
	if val {
		info |= mask
	} else {
		info &^= mask
	}
	r.SetFieldEndInfo(n, info)
}

// Field returns the offset of field n from the origin and its length, or
// UnivSQLNull as length when the field is SQL NULL.
func (r Rec) Field(n int) (int, uint32) {
	if debugChecks.Load() {
		checkFieldIndex("field", n, r.NFields())
	}
	start := r.FieldStart(n)
	next := r.FieldEndInfo(n)
	if r.Is1ByteOffs() {
		if next&Rec1ByteSQLNullMask != 0 {
			return start, UnivSQLNull
		}
		next &^= Rec1ByteSQLNullMask
	} else {
		if next&Rec2ByteSQLNullMask != 0 {
			return start, UnivSQLNull
		}
		next &^= Rec2ByteSQLNullMask | Rec2ByteExternMask
	}
	length := next - uint32(start)
	if debugChecks.Load() {
		check("field", assertions.ShouldBeLessThan(length, pageSize.Load()))
	}
	return start, length
}

// IsFieldExtern reports whether field n is stored off-page. Only the
// 2-byte form can carry the flag.
func (r Rec) IsFieldExtern(n int) bool {
	if debugChecks.Load() {
		check("is_field_extern", assertions.ShouldBeFalse(r.Is1ByteOffs()))
	}
	return r.FieldEndInfo(n)&Rec2ByteExternMask != 0
}

// SetSQLNull overwrites the bytes of field n with the SQL NULL pattern
// (zeroes) and sets its NULL flag. The physical size is unchanged.
func (r Rec) SetSQLNull(n int) {
	offset := r.FieldStart(n)
	util.ZeroFill(r.Buf, r.Origin+offset, r.FieldSize(n))
	r.SetNullBit(n, true)
}

// DataSize returns the distance from the origin to the end of the last
// field; NULL fields count with their physical size.
func (r Rec) DataSize() int {
	return r.FieldStart(r.NFields())
}
