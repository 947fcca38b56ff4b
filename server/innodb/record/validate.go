package record

import (
	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
)

// CheckOld validates an old-style record image that did not come from a
// trusted page, so that the unchecked accessors can be used on it
// afterwards: the header and every slot lie inside the buffer, the end
// offsets are non-decreasing and the data lies inside the buffer.
func CheckOld(rec Rec) error {
	if rec.Origin < RecNOldExtraBytes || rec.Origin > len(rec.Buf) {
		return errors.Annotatef(basic.ErrRecordTooShort, "origin %d in %d bytes", rec.Origin, len(rec.Buf))
	}
	n := rec.NFields()
	if n == 0 || n > RecMaxNFields {
		return errors.Annotatef(basic.ErrInvalidFieldCount, "n_fields %d", n)
	}
	if rec.IsVersioned() {
		if rec.Origin < RecOldVersionByte {
			return errors.Annotatef(basic.ErrRecordTooShort, "no room for the row version byte")
		}
		if v := rec.Buf[rec.Origin-RecOldVersionByte]; v > MaxRowVersion {
			return errors.Annotatef(basic.ErrInvalidRowVersion, "row version %d", v)
		}
	}
	if rec.ExtraSize() > rec.Origin {
		return errors.Annotatef(basic.ErrRecordTooShort, "header needs %d bytes, %d available",
			rec.ExtraSize(), rec.Origin)
	}

	prev := 0
	for i := 0; i < n; i++ {
		end := rec.FieldStart(i + 1)
		if end < prev {
			return errors.Annotatef(basic.ErrRecordCorrupted, "field %d ends at %d before %d", i, end, prev)
		}
		prev = end
	}
	if rec.Origin+prev > len(rec.Buf) {
		return errors.Annotatef(basic.ErrRecordTooShort, "data ends at %d, buffer has %d bytes",
			rec.Origin+prev, len(rec.Buf))
	}
	return nil
}
