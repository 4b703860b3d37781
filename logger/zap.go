package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger zap 日志实现.
type zapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// newZapLogger 创建 zap logger.
func newZapLogger(config *Config) (Logger, error) {
	var out zapcore.WriteSyncer = zapcore.AddSync(os.Stdout)
	if config.Output != nil {
		out = zapcore.AddSync(config.Output)
	}

	core := zapcore.NewCore(buildEncoder(config), out, parseLevel(config.Level))

	var options []zap.Option
	if config.EnableCaller {
		options = append(options, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.EnableStacktrace {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLog := zap.New(core, options...).With(zap.String("service", config.ServiceName))
	return &zapLogger{logger: zapLog, sugar: zapLog.Sugar()}, nil
}

// buildEncoder 根据格式构建编码器.
func buildEncoder(config *Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.DateTime),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if strings.ToLower(config.Format) == FormatConsole {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// parseLevel 解析日志级别.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) Debug(args ...any) { z.log(zapcore.DebugLevel, args) }

func (z *zapLogger) Debugf(format string, args ...any) { z.sugar.Debugf(format, args...) }

func (z *zapLogger) Info(args ...any) { z.log(zapcore.InfoLevel, args) }

func (z *zapLogger) Infof(format string, args ...any) { z.sugar.Infof(format, args...) }

func (z *zapLogger) Warn(args ...any) { z.log(zapcore.WarnLevel, args) }

func (z *zapLogger) Warnf(format string, args ...any) { z.sugar.Warnf(format, args...) }

func (z *zapLogger) Error(args ...any) { z.log(zapcore.ErrorLevel, args) }

func (z *zapLogger) Errorf(format string, args ...any) { z.sugar.Errorf(format, args...) }

// log 支持 Error("msg", logger.String("k", "v")) 形式的调用：
// 首个字符串参数作为消息，其余 Field 参数作为结构化字段.
func (z *zapLogger) log(level zapcore.Level, args []any) {
	if len(args) == 0 {
		return
	}

	msg, ok := args[0].(string)
	if !ok {
		z.sugar.Log(level, args...)
		return
	}

	fields := make([]zap.Field, 0, len(args)-1)
	var extra []any
	for _, arg := range args[1:] {
		if f, ok := arg.(Field); ok {
			fields = append(fields, toZapField(f))
			continue
		}
		extra = append(extra, arg)
	}
	if len(extra) > 0 {
		fields = append(fields, zap.Any("args", extra))
	}

	if ce := z.logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// With 添加结构化字段.
func (z *zapLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}

	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = toZapField(f)
	}

	l := z.logger.With(zapFields...)
	return &zapLogger{logger: l, sugar: l.Sugar()}
}

// toZapField 转换为 zap 字段.
func toZapField(f Field) zap.Field {
	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case float64:
		return zap.Float64(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v)
	case time.Time:
		return zap.Time(f.Key, v)
	case error:
		return zap.NamedError(f.Key, v)
	default:
		return zap.Any(f.Key, v)
	}
}

// WithContext 从 context 提取运行 ID.
func (z *zapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}
	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		return z.With(String("run_id", runID))
	}
	return z
}

// Sync 同步日志缓冲.
func (z *zapLogger) Sync() error {
	return z.logger.Sync()
}

// String 创建字符串字段.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int 创建整数字段.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool 创建布尔字段.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration 创建时长字段.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err 创建错误字段.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any 创建任意类型字段.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}
