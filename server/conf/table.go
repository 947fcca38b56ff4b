package conf

import (
	"strings"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"

	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/metadata"
)

/*
*
[table]
name        = t1
columns     = id, c1, c2
primary_key = id
history     = drop c1, add c2

[column.id]
type     = INT

[column.c1]
type     = VARCHAR
length   = 10
nullable = true
default  = abc
*/

// TableDef describes the table a record belongs to, including the instant
// ADD/DROP COLUMN operations applied to it in order.
type TableDef struct {
	Name       string
	Columns    []ColumnDef
	PrimaryKey []string
	History    []InstantOp
}

// ColumnDef 列定义
type ColumnDef struct {
	Name     string
	Type     metadata.DataType
	Length   int
	Nullable bool
	Charset  string
	Default  string
}

// InstantOp is one instant column change.
type InstantOp struct {
	Drop   bool
	Column string
}

func parseTableDef(file *ini.File) (*TableDef, error) {
	section := file.Section("table")
	def := &TableDef{
		Name:       valueAsString(section, "name", "t"),
		PrimaryKey: section.Key("primary_key").Strings(","),
	}

	names := section.Key("columns").Strings(",")
	if len(names) == 0 {
		return nil, errors.NotValidf("[table] without columns")
	}
	for _, name := range names {
		colSection, err := file.GetSection("column." + name)
		if err != nil {
			return nil, errors.NotFoundf("section [column.%s]", name)
		}
		dt, err := metadata.ParseDataType(colSection.Key("type").String())
		if err != nil {
			return nil, errors.Annotatef(err, "column %s", name)
		}
		def.Columns = append(def.Columns, ColumnDef{
			Name:     name,
			Type:     dt,
			Length:   colSection.Key("length").MustInt(0),
			Nullable: colSection.Key("nullable").MustBool(false),
			Charset:  colSection.Key("charset").String(),
			Default:  colSection.Key("default").String(),
		})
	}

	for _, step := range section.Key("history").Strings(",") {
		fields := strings.Fields(step)
		if len(fields) != 2 {
			return nil, errors.NotValidf("history step %q", step)
		}
		switch strings.ToLower(fields[0]) {
		case "add":
			def.History = append(def.History, InstantOp{Column: fields[1]})
		case "drop":
			def.History = append(def.History, InstantOp{Drop: true, Column: fields[1]})
		default:
			return nil, errors.NotValidf("history step %q", step)
		}
	}
	return def, nil
}

func (d *TableDef) column(name string) (ColumnDef, bool) {
	for _, col := range d.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return ColumnDef{}, false
}

func (c ColumnDef) options() []metadata.ColumnOption {
	opts := []metadata.ColumnOption{metadata.WithLength(c.Length)}
	if c.Nullable {
		opts = append(opts, metadata.Nullable())
	}
	if c.Charset != "" {
		opts = append(opts, metadata.WithCharset(c.Charset))
	}
	if c.Default != "" {
		opts = append(opts, metadata.WithDefault(c.Default))
	}
	return opts
}

// BuildTable creates the table with its initial columns and replays the
// instant history.
func (d *TableDef) BuildTable() (*metadata.Table, error) {
	added := make(map[string]bool)
	for _, op := range d.History {
		if !op.Drop {
			added[strings.ToLower(op.Column)] = true
		}
	}

	b := metadata.NewTableBuilder(d.Name)
	for _, col := range d.Columns {
		if added[strings.ToLower(col.Name)] {
			continue
		}
		b.AddColumn(col.Name, col.Type, col.options()...)
	}
	if len(d.PrimaryKey) > 0 {
		b.AddPrimaryKey(d.PrimaryKey...)
	}
	for _, op := range d.History {
		if op.Drop {
			b.DropColumnInstant(op.Column)
			continue
		}
		col, ok := d.column(op.Column)
		if !ok {
			return nil, errors.NotFoundf("column %s added by history", op.Column)
		}
		b.AddColumnInstant(col.Name, col.Type, col.options()...)
	}
	return b.Build()
}
