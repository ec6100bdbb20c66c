package middleware

import (
	"io"

	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/gommon/log"
)

// Logger Echo의 log.Logger 인터페이스를 구현하는 어댑터입니다.
//
// Echo 프레임워크 내부 로그(서버 시작 실패 등)를 애플리케이션 로거와 같은 형식, 같은 출력 대상으로 보냅니다.
type Logger struct {
	*applog.Logger
}

// Output 현재 출력 Writer를 반환합니다.
func (l Logger) Output() io.Writer {
	return l.Logger.Out
}

func (l Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

func (l Logger) Prefix() string {
	return ""
}

func (l Logger) SetPrefix(string) {}

// Level 애플리케이션 로그 레벨을 Echo의 로그 레벨로 변환합니다.
func (l Logger) Level() log.Lvl {
	switch l.Logger.Level {
	case applog.DebugLevel, applog.TraceLevel:
		return log.DEBUG
	case applog.InfoLevel:
		return log.INFO
	case applog.WarnLevel:
		return log.WARN
	case applog.ErrorLevel:
		return log.ERROR
	}

	return log.OFF
}

// SetLevel Echo의 로그 레벨을 애플리케이션 로그 레벨로 변환하여 설정합니다.
func (l Logger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.Logger.SetLevel(applog.DebugLevel)
	case log.INFO:
		l.Logger.SetLevel(applog.InfoLevel)
	case log.WARN:
		l.Logger.SetLevel(applog.WarnLevel)
	case log.ERROR:
		l.Logger.SetLevel(applog.ErrorLevel)
	}
}

func (l Logger) SetHeader(string) {}

func (l Logger) Print(i ...interface{}) { l.Logger.Print(i...) }

func (l Logger) Printf(format string, args ...interface{}) { l.Logger.Printf(format, args...) }

func (l Logger) Printj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Print() }

func (l Logger) Debug(i ...interface{}) { l.Logger.Debug(i...) }

func (l Logger) Debugf(format string, args ...interface{}) { l.Logger.Debugf(format, args...) }

func (l Logger) Debugj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Debug() }

func (l Logger) Info(i ...interface{}) { l.Logger.Info(i...) }

func (l Logger) Infof(format string, args ...interface{}) { l.Logger.Infof(format, args...) }

func (l Logger) Infoj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Info() }

func (l Logger) Warn(i ...interface{}) { l.Logger.Warn(i...) }

func (l Logger) Warnf(format string, args ...interface{}) { l.Logger.Warnf(format, args...) }

func (l Logger) Warnj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Warn() }

func (l Logger) Error(i ...interface{}) { l.Logger.Error(i...) }

func (l Logger) Errorf(format string, args ...interface{}) { l.Logger.Errorf(format, args...) }

func (l Logger) Errorj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Error() }

func (l Logger) Fatal(i ...interface{}) { l.Logger.Fatal(i...) }

func (l Logger) Fatalf(format string, args ...interface{}) { l.Logger.Fatalf(format, args...) }

func (l Logger) Fatalj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Fatal() }

func (l Logger) Panic(i ...interface{}) { l.Logger.Panic(i...) }

func (l Logger) Panicf(format string, args ...interface{}) { l.Logger.Panicf(format, args...) }

func (l Logger) Panicj(j log.JSON) { l.Logger.WithFields(applog.Fields(j)).Panic() }
