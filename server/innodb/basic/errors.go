package basic

import "errors"

// 记录格式相关错误
var (
	ErrRecordCorrupted    = errors.New("record corrupted")
	ErrRecordTooShort     = errors.New("record buffer too short")
	ErrInvalidFieldCount  = errors.New("invalid field count")
	ErrInvalidRowVersion  = errors.New("invalid row version")
	ErrValueTooLarge      = errors.New("value too large")
	ErrInvalidFieldLength = errors.New("invalid field length")
)

// 元数据相关错误
var (
	ErrColumnNotFound       = errors.New("column not found")
	ErrDuplicateColumn      = errors.New("duplicate column")
	ErrTooManyRowVersions   = errors.New("too many row versions")
	ErrCannotDropKeyColumn  = errors.New("cannot instantly drop a key column")
	ErrIndexNotFound        = errors.New("index not found")
	ErrInvalidColumnDefault = errors.New("invalid column definition")
)
