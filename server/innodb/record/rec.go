package record

import (
	"github.com/smartystreets/assertions"

	"github.com/zhukovaskychina/xmysql-rowfmt/util"
)

// Rec is a physical record inside a caller-owned buffer. The header grows
// backwards from Origin, the data region forwards. Rec never copies or
// owns the buffer; every accessor is an indexed read or write at a fixed
// distance from Origin.
type Rec struct {
	Buf    []byte
	Origin int
}

// NewRec 根据缓冲区和记录原点构造记录视图
func NewRec(buf []byte, origin int) Rec {
	return Rec{Buf: buf, Origin: origin}
}

// Data returns the n bytes starting offs bytes after the origin.
func (r Rec) Data(offs int, n int) []byte {
	start := r.Origin + offs
	return r.Buf[start : start+n : start+n]
}

// Is1ByteOffs reports whether the end-info slots of this old-style record
// are one byte wide.
func (r Rec) Is1ByteOffs() bool {
	return util.ReadBitField1(r.Buf, r.Origin-RecOldShort, RecOldShortMask, RecOldShortShift) != 0
}

// Set1ByteOffsFlag sets the slot width flag. It must only be called while
// building a record; the width of an existing record never changes.
func (r Rec) Set1ByteOffsFlag(flag bool) {
	var v uint32
	if flag {
		v = 1
	}
	util.WriteBitField1(r.Buf, r.Origin-RecOldShort, v, RecOldShortMask, RecOldShortShift)
}

// NFields returns the number of fields stored in an old-style record.
func (r Rec) NFields() int {
	return int(util.ReadBitField2(r.Buf, r.Origin-RecOldNFields, RecOldNFieldsMask, RecOldNFieldsShift))
}

// SetNFields 设置老格式记录的字段数
func (r Rec) SetNFields(n int) {
	if debugChecks.Load() {
		check("set_n_fields", assertions.ShouldBeBetweenOrEqual(n, 1, RecMaxNFields))
	}
	util.WriteBitField2(r.Buf, r.Origin-RecOldNFields, uint32(n), RecOldNFieldsMask, RecOldNFieldsShift)
}

// InfoBits returns the info bits (high nibble of the info byte).
func (r Rec) InfoBits() uint32 {
	return util.ReadBitField1(r.Buf, r.Origin-RecOldInfoBits, RecInfoBitsMask, RecInfoBitsShift)
}

// SetInfoBits 设置信息位
func (r Rec) SetInfoBits(bits uint32) {
	util.WriteBitField1(r.Buf, r.Origin-RecOldInfoBits, bits, RecInfoBitsMask, RecInfoBitsShift)
}

// IsDeleted reports the delete-mark.
func (r Rec) IsDeleted() bool {
	return r.InfoBits()&RecInfoDeletedFlag != 0
}

// IsVersioned reports whether the record carries a row version byte.
func (r Rec) IsVersioned() bool {
	return r.InfoBits()&RecInfoVersionFlag != 0
}

// RowVersion returns the row version stamped on the record. A record
// without the version byte was written before the first instant
// ADD/DROP COLUMN and therefore belongs to version 0.
func (r Rec) RowVersion() uint8 {
	if !r.IsVersioned() {
		return 0
	}
	v := r.Buf[r.Origin-RecOldVersionByte]
	if debugChecks.Load() {
		check("row_version", assertions.ShouldBeLessThanOrEqualTo(v, MaxRowVersion))
	}
	return v
}

// SetRowVersion writes the version byte. The versioned info bit must
// already be set.
func (r Rec) SetRowVersion(v uint8) {
	if debugChecks.Load() {
		check("set_row_version", assertions.ShouldBeTrue(r.IsVersioned()))
		check("set_row_version", assertions.ShouldBeLessThanOrEqualTo(v, MaxRowVersion))
	}
	r.Buf[r.Origin-RecOldVersionByte] = v
}

// HeapNo 返回堆号
func (r Rec) HeapNo() uint32 {
	return util.ReadBitField2(r.Buf, r.Origin-RecOldHeapNo, RecOldHeapNoMask, RecOldHeapNoShift)
}

// SetHeapNo 设置堆号
func (r Rec) SetHeapNo(heapNo uint32) {
	util.WriteBitField2(r.Buf, r.Origin-RecOldHeapNo, heapNo, RecOldHeapNoMask, RecOldHeapNoShift)
}

// NOwned 返回 n_owned
func (r Rec) NOwned() uint32 {
	return util.ReadBitField1(r.Buf, r.Origin-RecOldNOwned, RecNOwnedMask, RecNOwnedShift)
}

// SetNOwned 设置 n_owned
func (r Rec) SetNOwned(n uint32) {
	util.WriteBitField1(r.Buf, r.Origin-RecOldNOwned, n, RecNOwnedMask, RecNOwnedShift)
}

// Next returns the stored next-record pointer.
func (r Rec) Next() uint32 {
	return util.MachReadFrom2(r.Buf, r.Origin-RecNext)
}

// SetNext 设置下一条记录指针
func (r Rec) SetNext(next uint32) {
	util.MachWriteTo2(r.Buf, r.Origin-RecNext, next)
}

// versionLen is the size of the optional row version byte.
func (r Rec) versionLen() int {
	if r.IsVersioned() {
		return 1
	}
	return 0
}

// ExtraSize returns the number of header bytes before the origin.
func (r Rec) ExtraSize() int {
	slot := 2
	if r.Is1ByteOffs() {
		slot = 1
	}
	return RecNOldExtraBytes + r.versionLen() + slot*r.NFields()
}
