package record

// Old-style (ROW_FORMAT=REDUNDANT) record header. Positions are counted
// backwards from the record origin.
const (
	RecNOldExtraBytes = 6

	RecNext = 2

	RecOldShort      = 3
	RecOldShortMask  = 0x01
	RecOldShortShift = 0

	RecOldNFields      = 4
	RecOldNFieldsMask  = 0x07FE
	RecOldNFieldsShift = 1

	RecOldHeapNo      = 5
	RecOldHeapNoMask  = 0xFFF8
	RecOldHeapNoShift = 3

	RecOldNOwned      = 6
	RecNOwnedMask     = 0x0F
	RecNOwnedShift    = 0
	RecOldInfoBits    = 6
	RecInfoBitsMask   = 0xF0
	RecInfoBitsShift  = 0
	RecOldVersionByte = RecNOldExtraBytes + 1
)

// Info bits.
const (
	RecInfoMinRecFlag  = 0x10
	RecInfoDeletedFlag = 0x20
	// RecInfoVersionFlag marks an old-style record that carries a row version byte.
	RecInfoVersionFlag = 0x40
)

// End-info slot layout of old-style records.
const (
	Rec1ByteSQLNullMask = 0x80
	Rec2ByteSQLNullMask = 0x8000
	Rec2ByteExternMask  = 0x4000

	Rec1ByteOffsLimit = 0x7F
	Rec2ByteOffsLimit = 0x3FFF
)

// Packed layout of a computed offsets array word.
const (
	RecOffsCompact  = uint32(1) << 31
	RecOffsSQLNull  = uint32(1) << 31
	RecOffsExternal = uint32(1) << 30
	RecOffsDefault  = uint32(1) << 29
	RecOffsDrop     = uint32(1) << 28
	RecOffsMask     = RecOffsDrop - 1
)

// Field length sentinels. These are ordinary return values, not errors.
const (
	UnivSQLNull           = uint32(0xFFFFFFFF)
	UnivSQLAddColDefault  = UnivSQLNull - 1
	UnivSQLInstantDropCol = UnivSQLNull - 2
)

const (
	RecMaxNFields   = 1023
	MaxRowVersion   = 64
	UnivPageSizeDef = 16384
)

// IsLengthSentinel reports whether length is one of the "not stored" markers.
func IsLengthSentinel(length uint32) bool {
	return length == UnivSQLNull || length == UnivSQLAddColDefault || length == UnivSQLInstantDropCol
}
