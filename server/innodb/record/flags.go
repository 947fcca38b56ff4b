package record

import "strings"

// FieldFlags is the flag set of one entry of a computed offsets array.
// At most one of FlagNull, FlagDefault and FlagDropped may be set.
type FieldFlags uint8

const (
	FlagNull FieldFlags = 1 << iota
	FlagExtern
	FlagDefault
	FlagDropped
)

const exclusiveFlags = FlagNull | FlagDefault | FlagDropped

// Has reports whether all bits of x are set.
func (f FieldFlags) Has(x FieldFlags) bool {
	return f&x == x
}

// Valid reports whether the mutually exclusive flags are respected.
func (f FieldFlags) Valid() bool {
	e := f & exclusiveFlags
	return e&(e-1) == 0
}

func (f FieldFlags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	if f.Has(FlagNull) {
		parts = append(parts, "NULL")
	}
	if f.Has(FlagExtern) {
		parts = append(parts, "EXTERN")
	}
	if f.Has(FlagDefault) {
		parts = append(parts, "DEFAULT")
	}
	if f.Has(FlagDropped) {
		parts = append(parts, "DROPPED")
	}
	return strings.Join(parts, "|")
}

// FieldInfo is one entry of an offsets array: the end offset of the field
// from the record origin and its flags. For NULL, DEFAULT and DROPPED fields
// End is the end of the previous field (plus the fixed size for a NULL
// fixed-length field of an old-style record).
type FieldInfo struct {
	End   uint32
	Flags FieldFlags
}

// Word packs the entry into the 32-bit layout (RecOffs*).
func (fi FieldInfo) Word() uint32 {
	w := fi.End & RecOffsMask
	if fi.Flags.Has(FlagNull) {
		w |= RecOffsSQLNull
	}
	if fi.Flags.Has(FlagExtern) {
		w |= RecOffsExternal
	}
	if fi.Flags.Has(FlagDefault) {
		w |= RecOffsDefault
	}
	if fi.Flags.Has(FlagDropped) {
		w |= RecOffsDrop
	}
	return w
}

// FieldInfoFromWord unpacks a 32-bit offsets word.
func FieldInfoFromWord(w uint32) FieldInfo {
	fi := FieldInfo{End: w & RecOffsMask}
	if w&RecOffsSQLNull != 0 {
		fi.Flags |= FlagNull
	}
	if w&RecOffsExternal != 0 {
		fi.Flags |= FlagExtern
	}
	if w&RecOffsDefault != 0 {
		fi.Flags |= FlagDefault
	}
	if w&RecOffsDrop != 0 {
		fi.Flags |= FlagDropped
	}
	return fi
}
