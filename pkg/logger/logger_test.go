package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerSafeBeforeInit(t *testing.T) {
	// 降级路径在服务层测试里直接走包级 Logger，Init 之前不能是 nil
	assert.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Logger.Warn("degraded before init")
		Logger.Error("degraded before init")
	})
}
