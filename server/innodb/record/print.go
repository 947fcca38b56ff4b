package record

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/juju/errors"
)

// maxPrintLen caps the number of bytes dumped per field.
const maxPrintLen = 30

// PrintOld writes a human readable dump of an old-style record to w.
func PrintOld(w io.Writer, rec Rec) error {
	form := "2-byte offsets"
	if rec.Is1ByteOffs() {
		form = "1-byte offsets"
	}
	_, err := fmt.Fprintf(w, "PHYSICAL RECORD: n_fields %d; %s; info bits %d", rec.NFields(), form, rec.InfoBits())
	if err != nil {
		return errors.Trace(err)
	}
	if rec.IsVersioned() {
		if _, err = fmt.Fprintf(w, "; row version %d", rec.RowVersion()); err != nil {
			return errors.Trace(err)
		}
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return errors.Trace(err)
	}

	for i := 0; i < rec.NFields(); i++ {
		offs, length := rec.Field(i)
		if length == UnivSQLNull {
			_, err = fmt.Fprintf(w, " %d: SQL NULL, size %d;\n", i, rec.FieldSize(i))
		} else {
			_, err = fmt.Fprintf(w, " %d: len %d; %s\n", i, length, describe(rec.Data(offs, int(length))))
		}
		if err != nil {
			return errors.Trace(err)
		}
		if !rec.Is1ByteOffs() && rec.IsFieldExtern(i) {
			if _, err = io.WriteString(w, "    [EXTERN]\n"); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}

func describe(data []byte) string {
	suffix := ""
	if len(data) > maxPrintLen {
		suffix = "...(truncated)"
		data = data[:maxPrintLen]
	}
	asc := make([]byte, len(data))
	for i, b := range data {
		if b >= 0x20 && b < 0x7F {
			asc[i] = b
		} else {
			asc[i] = ' '
		}
	}
	return fmt.Sprintf("hex %s; asc %s;%s", hex.EncodeToString(data), asc, suffix)
}
