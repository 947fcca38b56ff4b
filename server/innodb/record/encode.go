package record

import (
	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
	"github.com/zhukovaskychina/xmysql-rowfmt/util"
)

// FieldValue is one field to be laid out in an old-style record.
type FieldValue struct {
	Data []byte
	// Null stores SQL NULL. A NULL of a fixed-length column still takes
	// FixedLen zero bytes.
	Null     bool
	FixedLen int
	// Extern marks Data as the reference to an off-page value.
	Extern bool
}

func (f FieldValue) size() int {
	if f.Null {
		return f.FixedLen
	}
	return len(f.Data)
}

// EncodeOptions carries the header settings of EncodeOld.
type EncodeOptions struct {
	// Versioned stamps RowVersion on the record. Without it RowVersion
	// must be zero.
	Versioned  bool
	RowVersion uint8
	InfoBits   uint32
	HeapNo     uint32
	// Force2Byte uses 2-byte slots even when 1-byte slots would fit.
	Force2Byte bool
}

// EncodeOld lays fields out as an old-style record and returns the buffer
// and the origin of the record inside it. 1-byte slots are chosen when the
// data fits in 127 bytes and no field is external.
func EncodeOld(fields []FieldValue, opts EncodeOptions) ([]byte, int, error) {
	n := len(fields)
	if n == 0 || n > RecMaxNFields {
		return nil, 0, errors.Annotatef(basic.ErrInvalidFieldCount, "n_fields %d", n)
	}
	if opts.RowVersion > MaxRowVersion {
		return nil, 0, errors.Annotatef(basic.ErrInvalidRowVersion, "row version %d", opts.RowVersion)
	}
	if !opts.Versioned && opts.RowVersion != 0 {
		return nil, 0, errors.Annotatef(basic.ErrInvalidRowVersion, "row version %d on an unversioned record", opts.RowVersion)
	}

	dataSize := 0
	nExt := 0
	for i, f := range fields {
		if f.Null && f.Extern {
			return nil, 0, errors.Errorf("field %d: an SQL NULL cannot be stored externally", i)
		}
		if f.FixedLen > 0 && !f.Null && len(f.Data) != f.FixedLen {
			return nil, 0, errors.Annotatef(basic.ErrInvalidFieldLength,
				"field %d: %d bytes for fixed length %d", i, len(f.Data), f.FixedLen)
		}
		if f.Extern {
			nExt++
		}
		dataSize += f.size()
	}
	if dataSize > Rec2ByteOffsLimit {
		return nil, 0, errors.Annotatef(basic.ErrValueTooLarge, "data size %d", dataSize)
	}

	oneByte := !opts.Force2Byte && dataSize <= Rec1ByteOffsLimit && nExt == 0
	slot := 2
	if oneByte {
		slot = 1
	}
	versionLen := 0
	if opts.Versioned {
		versionLen = 1
	}
	extra := RecNOldExtraBytes + versionLen + slot*n

	buf := make([]byte, extra+dataSize)
	rec := NewRec(buf, extra)

	infoBits := opts.InfoBits &^ RecInfoVersionFlag
	if opts.Versioned {
		infoBits |= RecInfoVersionFlag
	}
	rec.SetInfoBits(infoBits)
	rec.Set1ByteOffsFlag(oneByte)
	rec.SetNFields(n)
	rec.SetHeapNo(opts.HeapNo)
	if opts.Versioned {
		rec.SetRowVersion(opts.RowVersion)
	}

	end := 0
	for i, f := range fields {
		size := f.size()
		if f.Null {
			util.ZeroFill(buf, extra+end, size)
		} else {
			copy(buf[extra+end:], f.Data)
		}
		end += size

		info := uint32(end)
		if f.Null {
			if oneByte {
				info |= Rec1ByteSQLNullMask
			} else {
				info |= Rec2ByteSQLNullMask
			}
		}
		if f.Extern {
			info |= Rec2ByteExternMask
		}
		rec.SetFieldEndInfo(i, info)
	}
	return buf, extra, nil
}
