package util

// 记录头中的整数一律按大端序存放，与 mach_read_from_n / mach_write_to_n 保持一致。

// MachReadFrom1 reads one byte at pos as an unsigned value.
func MachReadFrom1(buff []byte, pos int) uint32 {
	return uint32(buff[pos])
}

// MachReadFrom2 reads a big-endian 16-bit value starting at pos.
func MachReadFrom2(buff []byte, pos int) uint32 {
	i := uint32(buff[pos]) << 8
	i |= uint32(buff[pos+1])
	return i
}

// MachWriteTo1 stores the low byte of n at pos.
func MachWriteTo1(buff []byte, pos int, n uint32) {
	buff[pos] = byte(n & 0xFF)
}

// MachWriteTo2 stores n as a big-endian 16-bit value starting at pos.
func MachWriteTo2(buff []byte, pos int, n uint32) {
	buff[pos] = byte((n >> 8) & 0xFF)
	buff[pos+1] = byte(n & 0xFF)
}

// ReadBitField1 returns (buff[pos] & mask) >> shift.
func ReadBitField1(buff []byte, pos int, mask uint32, shift uint) uint32 {
	return (MachReadFrom1(buff, pos) & mask) >> shift
}

// ReadBitField2 returns the masked and shifted bits of the 16-bit word at pos.
func ReadBitField2(buff []byte, pos int, mask uint32, shift uint) uint32 {
	return (MachReadFrom2(buff, pos) & mask) >> shift
}

// WriteBitField1 replaces the masked bits of buff[pos] with val.
func WriteBitField1(buff []byte, pos int, val uint32, mask uint32, shift uint) {
	old := MachReadFrom1(buff, pos)
	MachWriteTo1(buff, pos, (old&^mask)|((val<<shift)&mask))
}

// WriteBitField2 replaces the masked bits of the 16-bit word at pos with val.
func WriteBitField2(buff []byte, pos int, val uint32, mask uint32, shift uint) {
	old := MachReadFrom2(buff, pos)
	MachWriteTo2(buff, pos, (old&^mask)|((val<<shift)&mask))
}

// ZeroFill 将 [pos, pos+n) 区间清零
func ZeroFill(buff []byte, pos int, n int) {
	region := buff[pos : pos+n]
	for i := range region {
		region[i] = 0
	}
}
