package vcdplayer

import (
	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
)

// logRegistrar is implemented by readers that report diagnostics through a
// callback.
type logRegistrar interface {
	SetLogHandler(fn cdio.LogFunc, ctx any)
}

// sessionLog receives reader messages. ctx is the *Session given at
// registration.
func sessionLog(ctx any, level cdio.LogLevel, message string) {
	s, ok := ctx.(*Session)
	if !ok || s == nil {
		common.LogWarn("%s", message)
		return
	}

	entry := s.log.WithField("lsn", s.tr.pos.LSN)
	switch level {
	case cdio.LogDebug:
		entry.Debug(message)
	case cdio.LogInfo:
		entry.Info(message)
	case cdio.LogWarn:
		entry.Warn(message)
	case cdio.LogError, cdio.LogAssert:
		entry.Error(message)
	default:
		entry.Error(message)
		entry.Warnf(common.WarnUnknownLogLevel, level)
	}
}
