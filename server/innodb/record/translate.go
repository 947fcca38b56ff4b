package record

// IndexDescriptor is the part of an index definition needed to map a
// logical field number (position in the current index definition) to a
// physical one. It is owned by the catalog and read-only here.
type IndexDescriptor interface {
	// HasRowVersions reports whether the table ever went through an
	// instant ADD or DROP COLUMN.
	HasRowVersions() bool
	// FieldOffPos maps logical field n to its position in an offsets
	// array. The mapping is index wide and does not depend on the row.
	FieldOffPos(n int) int
	// FieldPhyPos maps logical field n to its slot in an old-style record
	// written under the given row version.
	FieldPhyPos(n int, version uint8) int
	// FieldIsDropped reports whether logical field n is an instantly
	// dropped column.
	FieldIsDropped(n int) bool
}

func versioned(index IndexDescriptor) bool {
	return index != nil && index.HasRowVersions()
}

// ToPhysicalForOffsets translates logical field n for use with an
// offsets array. Without row versions the mapping is the identity.
func ToPhysicalForOffsets(index IndexDescriptor, n int) int {
	if versioned(index) {
		return index.FieldOffPos(n)
	}
	return n
}

// ToPhysicalForOldRecord translates logical field n to the slot of the
// old-style record rec, using the row version stamped on rec. Old-style
// records never store instant defaults, only drop history matters.
func ToPhysicalForOldRecord(index IndexDescriptor, rec Rec, n int) int {
	if versioned(index) {
		return index.FieldPhyPos(n, rec.RowVersion())
	}
	return n
}
