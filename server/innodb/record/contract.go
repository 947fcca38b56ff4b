package record

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/smartystreets/assertions"
	"go.uber.org/atomic"

	"github.com/zhukovaskychina/xmysql-rowfmt/logger"
)

// 调试开关与页大小。调试检查默认只在 univ_debug 构建下打开，
// 也可以通过配置在运行期打开。
var (
	debugChecks = atomic.NewBool(debugBuild)
	pageSize    = atomic.NewUint32(UnivPageSizeDef)
)

// Options tunes the contract checks of this package.
type Options struct {
	DebugChecks bool
	PageSize    uint32
}

// Configure installs opts. A zero PageSize keeps the current value.
func Configure(opts Options) {
	debugChecks.Store(opts.DebugChecks || debugBuild)
	if opts.PageSize != 0 {
		pageSize.Store(opts.PageSize)
	}
}

// DebugChecksEnabled reports whether contract checks are active.
func DebugChecksEnabled() bool {
	return debugChecks.Load()
}

// PageSize returns the configured page size used to bound field lengths.
func PageSize() uint32 {
	return pageSize.Load()
}

// ContractViolation is raised (by panic) when a caller breaks a
// precondition of a record operation while debug checks are on.
type ContractViolation struct {
	Op     string
	Detail string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("record: contract violation in %s: %s", e.Op, e.Detail)
}

func violate(op string, format string, args ...interface{}) {
	cv := &ContractViolation{Op: op, Detail: fmt.Sprintf(format, args...)}
	logger.WithFields(logrus.Fields{"op": op, "detail": cv.Detail}).Error("record contract violation")
	panic(errors.WithStack(cv))
}

// check panics with a ContractViolation when msg, the result of an
// assertions.ShouldXxx call, is not empty.
func check(op string, msg string) {
	if msg != "" {
		violate(op, "%s", msg)
	}
}

func checkFieldIndex(op string, n int, nFields int) {
	check(op, assertions.ShouldBeGreaterThanOrEqualTo(n, 0))
	check(op, assertions.ShouldBeLessThan(n, nFields))
}

func checkFieldBound(op string, n int, nFields int) {
	check(op, assertions.ShouldBeGreaterThanOrEqualTo(n, 0))
	check(op, assertions.ShouldBeLessThanOrEqualTo(n, nFields))
}
