package util

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
)

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Trace(err)
}

// ReadFileAt 从文件 offset 处读取 size 个字节，含前不含后
func ReadFileAt(filePath string, offset int64, size int) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()

	b := make([]byte, size)
	n, err := f.ReadAt(b, offset)
	if err != nil && err != io.EOF {
		return nil, errors.Annotatef(err, "read %s at %d", filePath, offset)
	}
	if n < size {
		return nil, errors.Errorf("read %s at %d: got %d of %d bytes", filePath, offset, n, size)
	}
	return b, nil
}

// DecodeHexDump decodes a hex dump. Whitespace, line breaks and an
// optional 0x prefix per token are ignored; '#' starts a comment that runs
// to the end of the line.
func DecodeHexDump(dump string) ([]byte, error) {
	var sb strings.Builder
	for _, line := range strings.Split(dump, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			sb.WriteString(strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X"))
		}
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, errors.Annotate(err, "decode hex dump")
	}
	return data, nil
}

// ReadHexFile reads and decodes a hex dump file, see DecodeHexDump.
func ReadHexFile(filePath string) ([]byte, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	data, err := DecodeHexDump(string(raw))
	if err != nil {
		return nil, errors.Annotatef(err, "file %s", filePath)
	}
	return data, nil
}
