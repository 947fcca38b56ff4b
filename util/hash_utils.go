package util

import (
	"github.com/OneOfOne/xxhash"
)

// HashCode 将一个键进行Hash
func HashCode(key []byte) uint64 {
	return xxhash.Checksum64(key)
}

// RecordFingerprint hashes the header and data bytes of one record image,
// [origin-extra, origin+dataSize). Used by the inspector to tell record
// images apart in dumps.
func RecordFingerprint(buff []byte, origin int, extra int, dataSize int) uint64 {
	return HashCode(buff[origin-extra : origin+dataSize])
}
