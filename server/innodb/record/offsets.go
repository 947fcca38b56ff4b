package record

import (
	"github.com/smartystreets/assertions"
)

// Offsets is the per-access array describing where each field of a record
// ends and which flags it carries. It is built elsewhere from the record
// and the index and is only read or patched here. Position n is the
// physical field number valid for the record's row version.
type Offsets struct {
	compact   bool
	extraSize uint32
	anyExtern bool
	fields    []FieldInfo
}

// NewOffsets wraps an already computed field list. extraSize is the size
// of the record header before the origin. fields is used as is.
func NewOffsets(compact bool, extraSize uint32, fields []FieldInfo) *Offsets {
	o := &Offsets{compact: compact, extraSize: extraSize, fields: fields}
	for i := range fields {
		if fields[i].Flags.Has(FlagExtern) {
			o.anyExtern = true
		}
	}
	if debugChecks.Load() {
		o.validate()
	}
	return o
}

// validate checks the invariants an offsets builder must guarantee.
func (o *Offsets) validate() {
	check("offsets_validate", assertions.ShouldBeLessThanOrEqualTo(len(o.fields), RecMaxNFields))
	var prev uint32
	for i, fi := range o.fields {
		if !fi.Flags.Valid() {
			violate("offsets_validate", "field %d has conflicting flags %s", i, fi.Flags)
		}
		if fi.End < prev {
			violate("offsets_validate", "field %d ends at %d before previous end %d", i, fi.End, prev)
		}
		if fi.End > RecOffsMask {
			violate("offsets_validate", "field %d end %d exceeds offset mask", i, fi.End)
		}
		prev = fi.End
	}
}

// OffsetsFromWords builds an Offsets from the packed representation: a
// header word (extra size | RecOffsCompact | RecOffsExternal) followed by
// one word per field.
func OffsetsFromWords(header uint32, words []uint32) *Offsets {
	fields := make([]FieldInfo, len(words))
	for i, w := range words {
		fields[i] = FieldInfoFromWord(w)
	}
	o := NewOffsets(header&RecOffsCompact != 0, header&RecOffsMask, fields)
	if header&RecOffsExternal != 0 {
		o.anyExtern = true
	}
	return o
}

// Words returns the packed representation, see OffsetsFromWords.
func (o *Offsets) Words() (uint32, []uint32) {
	header := o.extraSize & RecOffsMask
	if o.compact {
		header |= RecOffsCompact
	}
	if o.anyExtern {
		header |= RecOffsExternal
	}
	words := make([]uint32, len(o.fields))
	for i, fi := range o.fields {
		words[i] = fi.Word()
	}
	return header, words
}

// NFields returns the number of fields described.
func (o *Offsets) NFields() int {
	return len(o.fields)
}

// IsCompact reports whether the array describes a new-style record.
func (o *Offsets) IsCompact() bool {
	return o.compact
}

// ExtraSize returns the size of the record header.
func (o *Offsets) ExtraSize() uint32 {
	return o.extraSize
}

// HasExtern reports whether any field is stored off-page.
func (o *Offsets) HasExtern() bool {
	return o.anyExtern
}

// Info returns entry n.
func (o *Offsets) Info(n int) FieldInfo {
	if debugChecks.Load() {
		checkFieldIndex("offsets_info", n, len(o.fields))
	}
	return o.fields[n]
}

func (o *Offsets) start(n int) uint32 {
	if n == 0 {
		return 0
	}
	return o.fields[n-1].End
}

// NthFieldOffs returns the offset of field n from the origin and its
// length. The length is UnivSQLNull, UnivSQLAddColDefault or
// UnivSQLInstantDropCol when the field has no stored value.
func (o *Offsets) NthFieldOffs(n int) (int, uint32) {
	if debugChecks.Load() {
		checkFieldIndex("nth_field_offs", n, len(o.fields))
	}
	offs := o.start(n)
	fi := o.fields[n]
	switch {
	case fi.Flags.Has(FlagNull):
		return int(offs), UnivSQLNull
	case fi.Flags.Has(FlagDefault):
		return int(offs), UnivSQLAddColDefault
	case fi.Flags.Has(FlagDropped):
		return int(offs), UnivSQLInstantDropCol
	}
	return int(offs), fi.End - offs
}

// NthSize returns the number of bytes field n occupies in the record.
func (o *Offsets) NthSize(n int) int {
	if debugChecks.Load() {
		checkFieldIndex("nth_size", n, len(o.fields))
	}
	return int(o.fields[n].End - o.start(n))
}

// NthIsNull reports the SQL NULL flag of field n.
func (o *Offsets) NthIsNull(n int) bool {
	if debugChecks.Load() {
		checkFieldIndex("nth_is_null", n, len(o.fields))
	}
	return o.fields[n].Flags.Has(FlagNull)
}

// NthIsExtern reports whether field n is stored off-page.
func (o *Offsets) NthIsExtern(n int) bool {
	if debugChecks.Load() {
		checkFieldIndex("nth_is_extern", n, len(o.fields))
	}
	return o.fields[n].Flags.Has(FlagExtern)
}

// NthIsDefault reports whether field n takes the instant default value.
func (o *Offsets) NthIsDefault(n int) bool {
	if debugChecks.Load() {
		checkFieldIndex("nth_is_default", n, len(o.fields))
	}
	return o.fields[n].Flags.Has(FlagDefault)
}

// NthIsDropped reports whether field n is an instantly dropped column.
func (o *Offsets) NthIsDropped(n int) bool {
	if debugChecks.Load() {
		checkFieldIndex("nth_is_dropped", n, len(o.fields))
	}
	return o.fields[n].Flags.Has(FlagDropped)
}

// MakeNthExtern marks field n as stored off-page. The field must not be
// SQL NULL.
func (o *Offsets) MakeNthExtern(n int) {
	if debugChecks.Load() {
		checkFieldIndex("make_nth_extern", n, len(o.fields))
		if o.fields[n].Flags.Has(FlagNull) {
			violate("make_nth_extern", "field %d is SQL NULL", n)
		}
	}
	o.fields[n].Flags |= FlagExtern
	o.anyExtern = true
}

// CountDroppedBefore returns the number of DROPPED entries at positions
// below n. For an old-style record this is the distance between the
// offsets position and the position of the inline header slot.
func (o *Offsets) CountDroppedBefore(n int) int {
	if debugChecks.Load() {
		checkFieldBound("count_dropped", n, len(o.fields))
	}
	nDrop := 0
	for i := 0; i < n; i++ {
		if o.fields[i].Flags.Has(FlagDropped) {
			nDrop++
		}
	}
	return nDrop
}

func (o *Offsets) setNull(n int, val bool) {
	if val {
		o.fields[n].Flags |= FlagNull
	} else {
		o.fields[n].Flags &^= FlagNull
	}
}
