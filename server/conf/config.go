package conf

import (
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"gopkg.in/ini.v1"

	"github.com/zhukovaskychina/xmysql-rowfmt/logger"
	"github.com/zhukovaskychina/xmysql-rowfmt/server/innodb/record"
	"github.com/zhukovaskychina/xmysql-rowfmt/util"
)

var ConfigPath string

type CommandLineArgs struct {
	ConfigPath string
}

/*
*
[logs]
log_error    = /var/log/mysql/error.log
log_infos    = /var/log/mysql/mysql.log
log_level    = info

[record]
debug_checks = false
page_size    = 16384

[inspect]
hex_file     = rec.hex
origin       = 0
print_hash   = true
*/
type Cfg struct {
	Raw *ini.File

	// logs
	LogError string `default:"/var/log/mysql/error.log" yaml:"log_error" json:"log_error,omitempty"`
	LogInfos string `default:"/var/log/mysql/mysql.log" yaml:"log_infos" json:"log_infos,omitempty"`
	LogLevel string `default:"info" yaml:"log_level" json:"log_level,omitempty"`

	// record
	RecordDebugChecks bool `default:"false" yaml:"debug_checks" json:"debug_checks,omitempty"`
	RecordPageSize    int  `default:"16384" yaml:"page_size" json:"page_size,omitempty"`

	// inspect
	InspectHexFile   string `default:"" yaml:"hex_file" json:"hex_file,omitempty"`
	InspectOrigin    int    `default:"0" yaml:"origin" json:"origin,omitempty"`
	InspectPrintHash bool   `default:"true" yaml:"print_hash" json:"print_hash,omitempty"`

	// table definition used to name and translate fields, nil if absent
	Table *TableDef
}

func NewCfg() *Cfg {
	return &Cfg{
		Raw:              ini.Empty(),
		LogError:         "/var/log/mysql/error.log",
		LogInfos:         "/var/log/mysql/mysql.log",
		LogLevel:         "info",
		RecordPageSize:   record.UnivPageSizeDef,
		InspectPrintHash: true,
	}
}

// Load 读取配置文件，文件不存在时使用默认配置
func (cfg *Cfg) Load(args *CommandLineArgs) (*Cfg, error) {
	setHomePath(args)
	iniFile, err := cfg.loadConfiguration(args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cfg.parse(iniFile)
}

// LoadSource parses configuration from an in-memory ini document.
func (cfg *Cfg) LoadSource(data []byte) (*Cfg, error) {
	iniFile, err := ini.Load(data)
	if err != nil {
		return nil, errors.Annotate(err, "parse configuration")
	}
	return cfg.parse(iniFile)
}

func (cfg *Cfg) parse(iniFile *ini.File) (*Cfg, error) {
	cfg.Raw = iniFile

	cfg.parseLogsCfg(cfg.Raw.Section("logs"))
	if err := cfg.parseRecordCfg(cfg.Raw.Section("record")); err != nil {
		return nil, errors.Trace(err)
	}
	cfg.parseInspectCfg(cfg.Raw.Section("inspect"))
	if cfg.Raw.HasSection("table") {
		table, err := parseTableDef(cfg.Raw)
		if err != nil {
			return nil, errors.Trace(err)
		}
		cfg.Table = table
	}
	return cfg, nil
}

func setHomePath(args *CommandLineArgs) {
	if args.ConfigPath != "" {
		ConfigPath = args.ConfigPath
		return
	}

	ConfigPath, _ = filepath.Abs(".")
}

func (cfg *Cfg) loadConfiguration(args *CommandLineArgs) (*ini.File, error) {
	// 如果没有指定配置文件路径，使用默认的conf/my.ini
	configFile := "conf/my.ini"
	if args.ConfigPath != "" {
		configFile = args.ConfigPath
	}

	exists, err := util.PathExists(configFile)
	if err != nil {
		return nil, errors.Annotatef(err, "stat %s", configFile)
	}
	if !exists {
		logger.Debugf("配置文件不存在: %s，使用默认配置", configFile)
		return ini.Empty(), nil
	}

	parsedFile, err := ini.Load(configFile)
	if err != nil {
		return nil, errors.Annotatef(err, "解析配置文件失败: %s", configFile)
	}

	logger.Debugf("成功加载配置文件: %s", configFile)
	return parsedFile, nil
}

func valueAsString(section *ini.Section, keyName string, defaultValue string) string {
	if section == nil {
		return defaultValue
	}
	value := section.Key(keyName).MustString(defaultValue)
	if value == "" {
		value = defaultValue
	}
	return value
}

func (cfg *Cfg) parseLogsCfg(section *ini.Section) {
	cfg.LogError = valueAsString(section, "log_error", cfg.LogError)
	cfg.LogInfos = valueAsString(section, "log_infos", cfg.LogInfos)

	logLevel := valueAsString(section, "log_level", cfg.LogLevel)
	cfg.LogLevel = strings.ToLower(logLevel)
	// 验证日志级别是否有效
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	isValid := false
	for _, level := range validLevels {
		if cfg.LogLevel == level {
			isValid = true
			break
		}
	}
	if !isValid {
		logger.Warnf("无效的日志级别 '%s', 使用默认级别 'info'", logLevel)
		cfg.LogLevel = "info"
	}
}

func (cfg *Cfg) parseRecordCfg(section *ini.Section) error {
	cfg.RecordDebugChecks = section.Key("debug_checks").MustBool(cfg.RecordDebugChecks)

	pageSize := section.Key("page_size").MustInt(cfg.RecordPageSize)
	switch pageSize {
	case 4096, 8192, 16384, 32768, 65536:
		cfg.RecordPageSize = pageSize
	default:
		return errors.NotValidf("page_size %d", pageSize)
	}
	return nil
}

func (cfg *Cfg) parseInspectCfg(section *ini.Section) {
	cfg.InspectHexFile = valueAsString(section, "hex_file", cfg.InspectHexFile)
	cfg.InspectOrigin = section.Key("origin").MustInt(cfg.InspectOrigin)
	cfg.InspectPrintHash = section.Key("print_hash").MustBool(cfg.InspectPrintHash)
}

// RecordOptions returns the settings of the record package.
func (cfg *Cfg) RecordOptions() record.Options {
	return record.Options{
		DebugChecks: cfg.RecordDebugChecks,
		PageSize:    uint32(cfg.RecordPageSize),
	}
}

// ApplyRecordOptions installs RecordOptions into the record package.
func (cfg *Cfg) ApplyRecordOptions() {
	record.Configure(cfg.RecordOptions())
	logger.Debugf("record options: debug_checks=%v page_size=%d", cfg.RecordDebugChecks, cfg.RecordPageSize)
}

// LogConfig returns the logger settings.
func (cfg *Cfg) LogConfig() logger.LogConfig {
	return logger.LogConfig{
		ErrorLogPath: cfg.LogError,
		InfoLogPath:  cfg.LogInfos,
		LogLevel:     cfg.LogLevel,
	}
}
