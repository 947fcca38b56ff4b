package record

import (
	"github.com/smartystreets/assertions"
)

// Accessors keyed by logical field number. index may be nil, in which
// case n is already physical.

// NthFieldOffs returns the offset and length of logical field n from an
// offsets array.
func NthFieldOffs(index IndexDescriptor, offsets *Offsets, n int) (int, uint32) {
	return offsets.NthFieldOffs(ToPhysicalForOffsets(index, n))
}

// NthField returns the bytes of logical field n and its length. For the
// length sentinels the returned slice is empty and positioned where the
// field would start.
func NthField(index IndexDescriptor, rec Rec, offsets *Offsets, n int) ([]byte, uint32) {
	offs, length := NthFieldOffs(index, offsets, n)
	return fieldBytes(rec, offs, length), length
}

func fieldBytes(rec Rec, offs int, length uint32) []byte {
	if IsLengthSentinel(length) {
		return rec.Data(offs, 0)
	}
	return rec.Data(offs, int(length))
}

// NthFieldOffsOld returns the offset and length of logical field n of an
// old-style record without an offsets array. A field the row does not
// store reads as UnivSQLInstantDropCol when the column was dropped and as
// UnivSQLAddColDefault when it was added after the row's version.
func NthFieldOffsOld(index IndexDescriptor, rec Rec, n int) (int, uint32) {
	phy := ToPhysicalForOldRecord(index, rec, n)
	if versioned(index) && phy >= rec.NFields() {
		return rec.DataSize(), absentLength(index, n)
	}
	return rec.Field(phy)
}

func absentLength(index IndexDescriptor, n int) uint32 {
	if index.FieldIsDropped(n) {
		return UnivSQLInstantDropCol
	}
	return UnivSQLAddColDefault
}

// NthFieldOld returns the bytes and length of logical field n of an
// old-style record.
func NthFieldOld(index IndexDescriptor, rec Rec, n int) ([]byte, uint32) {
	offs, length := NthFieldOffsOld(index, rec, n)
	return fieldBytes(rec, offs, length), length
}

// NthFieldSizeOld returns the physical size of logical field n of an
// old-style record.
func NthFieldSizeOld(index IndexDescriptor, rec Rec, n int) int {
	phy := ToPhysicalForOldRecord(index, rec, n)
	if versioned(index) && phy >= rec.NFields() {
		return 0
	}
	return rec.FieldSize(phy)
}

// IsFieldExternOld reports whether logical field n of a 2-byte-form
// old-style record is stored off-page.
func IsFieldExternOld(index IndexDescriptor, rec Rec, n int) bool {
	phy := ToPhysicalForOldRecord(index, rec, n)
	if versioned(index) && phy >= rec.NFields() {
		return false
	}
	return rec.IsFieldExtern(phy)
}

// ReadField reads logical field n, from offsets when given and from the
// old-style header otherwise.
func ReadField(index IndexDescriptor, rec Rec, offsets *Offsets, n int) ([]byte, uint32) {
	if offsets != nil {
		return NthField(index, rec, offsets, n)
	}
	return NthFieldOld(index, rec, n)
}

// NthIsNull reports whether logical field n is SQL NULL.
func NthIsNull(index IndexDescriptor, offsets *Offsets, n int) bool {
	return offsets.NthIsNull(ToPhysicalForOffsets(index, n))
}

// NthIsExtern reports whether logical field n is stored off-page.
func NthIsExtern(index IndexDescriptor, offsets *Offsets, n int) bool {
	return offsets.NthIsExtern(ToPhysicalForOffsets(index, n))
}

// NthIsDefault reports whether logical field n takes the instant default.
func NthIsDefault(index IndexDescriptor, offsets *Offsets, n int) bool {
	return offsets.NthIsDefault(ToPhysicalForOffsets(index, n))
}

// NthSize returns the physical size of logical field n.
func NthSize(index IndexDescriptor, offsets *Offsets, n int) int {
	return offsets.NthSize(ToPhysicalForOffsets(index, n))
}

// MakeNthExtern marks logical field n as stored off-page.
func MakeNthExtern(index IndexDescriptor, offsets *Offsets, n int) {
	offsets.MakeNthExtern(ToPhysicalForOffsets(index, n))
}

// SetNthField overwrites logical field n in place, see SetNthFieldLow.
func SetNthField(index IndexDescriptor, rec Rec, offsets *Offsets, n int, data []byte, length uint32) {
	SetNthFieldLow(rec, offsets, ToPhysicalForOffsets(index, n), data, length)
}

// SetNthFieldLow overwrites field n (an offsets position) in place.
//
// The new value must have the same physical size as the old one. When
// length is UnivSQLNull the field becomes SQL NULL; this is only possible
// on old-style records, a new-style field can only be "set" to NULL when it
// already is. Going from NULL to a value requires length to equal the
// slot's physical size. Fields holding an instant default or a dropped
// placeholder are never written. offsets is kept in step with the record.
func SetNthFieldLow(rec Rec, offsets *Offsets, n int, data []byte, length uint32) {
	if length == UnivSQLNull {
		if !offsets.NthIsNull(n) {
			// new-style records have no room to turn a value into NULL in place
			if offsets.IsCompact() {
				violate("set_nth_field", "field %d of a compact record cannot become NULL in place", n)
			}
			if debugChecks.Load() {
				checkStored("set_nth_field", offsets, n)
			}
			rec.SetSQLNull(oldSlot(rec, offsets, n))
			offsets.setNull(n, true)
		}
		return
	}

	if debugChecks.Load() {
		checkStored("set_nth_field", offsets, n)
		check("set_nth_field", assertions.ShouldBeLessThanOrEqualTo(length, uint32(len(data))))
	}

	offs, oldLen := offsets.NthFieldOffs(n)
	if oldLen == UnivSQLNull {
		slot := oldSlot(rec, offsets, n)
		if debugChecks.Load() {
			check("set_nth_field", assertions.ShouldBeFalse(offsets.IsCompact()))
			check("set_nth_field", assertions.ShouldEqual(int(length), rec.FieldSize(slot)))
		}
		rec.SetNullBit(slot, false)
		offsets.setNull(n, false)
	} else if debugChecks.Load() {
		check("set_nth_field", assertions.ShouldEqual(length, oldLen))
	}

	copy(rec.Data(offs, int(length)), data[:length])
}

// oldSlot maps offsets position n to the inline header slot of an
// old-style record. Dropped placeholders exist only in the offsets array,
// and only versioned records can have them.
func oldSlot(rec Rec, offsets *Offsets, n int) int {
	if rec.IsVersioned() {
		return n - offsets.CountDroppedBefore(n)
	}
	return n
}

func checkStored(op string, offsets *Offsets, n int) {
	if offsets.NthIsDefault(n) {
		violate(op, "field %d holds an instant default and is not stored", n)
	}
	if offsets.NthIsDropped(n) {
		violate(op, "field %d is a dropped column", n)
	}
}
