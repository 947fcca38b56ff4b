package inspect

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"

	"github.com/zhukovaskychina/xmysql-rowfmt/logger"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/conf"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/basic"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/metadata"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/record"
	"github.com/zhukovaskychina/xmysql-rowfmt/util"
)

// Inspector dumps old-style record images, physically and, when a table
// definition is configured, column by column.
type Inspector struct {
	out       io.Writer
	printHash bool
	index     *metadata.Index
}

// New 根据配置创建检查器
func New(cfg *conf.Cfg, out io.Writer) (*Inspector, error) {
	in := &Inspector{out: out, printHash: cfg.InspectPrintHash}
	if cfg.Table == nil {
		return in, nil
	}
	table, err := cfg.Table.BuildTable()
	if err != nil {
		return nil, errors.Annotate(err, "build table definition")
	}
	idx, err := table.ClusteredIndex()
	if err != nil {
		return nil, errors.Trace(err)
	}
	in.index = idx
	logger.Debugf("inspect table %s, row version %d, %d fields", table.Name, table.CurrentRowVersion, idx.NFields())
	for _, col := range idx.Fields() {
		logger.Debugf("  %s %s", col.SQL(), describeHistory(col))
	}
	logger.Debugf("  %s", idx.SQL())
	return in, nil
}

// describeHistory 列的即时变更历史
func describeHistory(col *metadata.Column) string {
	switch {
	case col.IsDropped():
		return fmt.Sprintf("/* phy %d, dropped in v%d */", col.PhyPos, col.VersionDropped)
	case col.IsInstantAdded():
		return fmt.Sprintf("/* phy %d, added in v%d */", col.PhyPos, col.VersionAdded)
	}
	return fmt.Sprintf("/* phy %d */", col.PhyPos)
}

// Source tells where the record image comes from.
type Source struct {
	HexFile string
	// RawFile with Offset and Size reads the image straight from a data
	// file, for example a page of a tablespace.
	RawFile string
	Offset  int64
	Size    int
}

// Load reads the image described by src.
func Load(src Source) ([]byte, error) {
	switch {
	case src.RawFile != "":
		return util.ReadFileAt(src.RawFile, src.Offset, src.Size)
	case src.HexFile != "":
		return util.ReadHexFile(src.HexFile)
	}
	return nil, errors.NotValidf("empty record source")
}

// Inspect validates the record at origin inside buf and writes its dump.
func (in *Inspector) Inspect(buf []byte, origin int) error {
	rec := record.NewRec(buf, origin)
	if err := record.CheckOld(rec); err != nil {
		return errors.Annotatef(err, "record at origin %d", origin)
	}

	if err := record.PrintOld(in.out, rec); err != nil {
		return errors.Trace(err)
	}

	extra := rec.ExtraSize()
	dataSize := rec.DataSize()
	if _, err := fmt.Fprintf(in.out, "record size %s (header %s, data %s)\n",
		humanize.Bytes(uint64(extra+dataSize)), humanize.Bytes(uint64(extra)), humanize.Bytes(uint64(dataSize))); err != nil {
		return errors.Trace(err)
	}
	if in.printHash {
		fp := util.RecordFingerprint(buf, origin, extra, dataSize)
		if _, err := fmt.Fprintf(in.out, "fingerprint %016x\n", fp); err != nil {
			return errors.Trace(err)
		}
	}

	if in.index != nil {
		return in.printColumns(rec)
	}
	return nil
}

func (in *Inspector) printColumns(rec record.Rec) error {
	idx := in.index
	if v := rec.RowVersion(); idx.NFieldsInVersion(v) != rec.NFields() {
		return errors.Annotatef(basic.ErrInvalidFieldCount, "row version %d has %d fields, table definition expects %d",
			v, rec.NFields(), idx.NFieldsInVersion(v))
	}

	for n := 0; n < idx.NUserFields(); n++ {
		col := idx.Field(n)
		data, length := record.NthFieldOld(idx, rec, n)

		var err error
		switch length {
		case record.UnivSQLNull:
			_, err = fmt.Fprintf(in.out, "%s: NULL\n", col.Name)
		case record.UnivSQLAddColDefault:
			_, err = fmt.Fprintf(in.out, "%s: DEFAULT %v\n", col.Name, col.DefaultValue)
		default:
			_, err = fmt.Fprintf(in.out, "%s: %x\n", col.Name, data)
		}
		if err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
