package logger

import (
	"chatz/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin key/value facade over zap. The zero value discards
// everything.
type Logger struct {
	sugar *zap.SugaredLogger
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	var zc zap.Config
	if cfg.LoggerMode.Development && !cfg.LoggerMode.Prod {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if cfg.LoggerMode.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.LoggerMode.Level)); err != nil {
			return nil, err
		}
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return Logger{sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l Logger) s() *zap.SugaredLogger {
	if l.sugar == nil {
		return zap.NewNop().Sugar()
	}
	return l.sugar
}

func (l Logger) Debug(msg string, kv ...any) { l.s().Debugw(msg, kv...) }
func (l Logger) Info(msg string, kv ...any)  { l.s().Infow(msg, kv...) }
func (l Logger) Warn(msg string, kv ...any)  { l.s().Warnw(msg, kv...) }
func (l Logger) Error(msg string, kv ...any) { l.s().Errorw(msg, kv...) }

// With returns a child logger carrying the given fields.
func (l Logger) With(kv ...any) Logger {
	return Logger{sugar: l.s().With(kv...)}
}

func (l Logger) Sync() error {
	if l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}
