package record

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDebugChecks(t *testing.T) {
	t.Helper()
	prev := DebugChecksEnabled()
	Configure(Options{DebugChecks: true})
	t.Cleanup(func() { Configure(Options{DebugChecks: prev}) })
}

func requireViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a contract violation in %s", op)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var cv *ContractViolation
		require.True(t, errors.As(err, &cv), "panic %v is not a ContractViolation", err)
		assert.Equal(t, op, cv.Op)
	}()
	fn()
}

// exampleRecord builds, byte by byte, a versioned record with 1-byte slots
// whose end-info bytes are [5, 5|NULL, 9] and data "helloabcd".
func exampleRecord() Rec {
	const origin = RecNOldExtraBytes + 1 + 3
	buf := make([]byte, origin+9)
	rec := NewRec(buf, origin)
	rec.SetInfoBits(RecInfoVersionFlag)
	rec.Set1ByteOffsFlag(true)
	rec.SetNFields(3)
	rec.SetRowVersion(2)
	buf[origin-8] = 5
	buf[origin-9] = 5 | Rec1ByteSQLNullMask
	buf[origin-10] = 9
	copy(buf[origin:], "helloabcd")
	return rec
}

// fakeIndex is a hand-written descriptor: off maps logical to offsets
// positions, phy maps (version, logical) to old-style slots.
type fakeIndex struct {
	versions bool
	off      []int
	phy      map[uint8][]int
	dropped  map[int]bool
}

func (f *fakeIndex) HasRowVersions() bool { return f.versions }
func (f *fakeIndex) FieldOffPos(n int) int { return f.off[n] }
func (f *fakeIndex) FieldPhyPos(n int, version uint8) int {
	return f.phy[version][n]
}
func (f *fakeIndex) FieldIsDropped(n int) bool { return f.dropped[n] }
