package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zhukovaskychina/xmysql-rowfmt/logger"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/conf"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/inspect"
)

const help = `
******************************************************************************************
* xmysql-rowfmt: 老格式(REDUNDANT)记录检查工具
*帮助:
*1. -- configPath   指定my.ini配置文件
*2. -- hex          十六进制记录文件，覆盖 [inspect] hex_file
*3. -- file         数据文件，配合 -offset / -size 直接读取记录镜像
*4. -- origin       记录原点在镜像中的偏移，覆盖 [inspect] origin
******************************************************************************************
`

func main() {
	var (
		configPath string
		hexFile    string
		rawFile    string
		offset     int64
		size       int
		origin     int
	)
	flag.StringVar(&configPath, "configPath", "", "配置文件路径")
	flag.StringVar(&hexFile, "hex", "", "十六进制记录文件")
	flag.StringVar(&rawFile, "file", "", "数据文件")
	flag.Int64Var(&offset, "offset", 0, "记录镜像在数据文件中的偏移")
	flag.IntVar(&size, "size", 0, "记录镜像的字节数")
	flag.IntVar(&origin, "origin", -1, "记录原点")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()

	config, err := conf.NewCfg().Load(&conf.CommandLineArgs{ConfigPath: configPath})
	if err != nil {
		logger.Fatalf("加载配置失败: %v", err)
	}
	if err := logger.InitLogger(config.LogConfig()); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	config.ApplyRecordOptions()

	if hexFile == "" {
		hexFile = config.InspectHexFile
	}
	if origin < 0 {
		origin = config.InspectOrigin
	}

	buf, err := inspect.Load(inspect.Source{HexFile: hexFile, RawFile: rawFile, Offset: offset, Size: size})
	if err != nil {
		logger.Fatalf("读取记录失败: %v", err)
	}
	logger.Debugf("loaded %d bytes, origin %d", len(buf), origin)

	in, err := inspect.New(config, os.Stdout)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if err := in.Inspect(buf, origin); err != nil {
		logger.Fatalf("检查记录失败: %v", err)
	}
}
