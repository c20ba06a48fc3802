package xlog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestCommonCore(t *testing.T) {
	buf := &bytes.Buffer{}
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	var cc xLogCore = newWriterCore(buf)(
		context.TODO(),
		&lvlEnabler,
		logEncoderType(6),
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc.context())
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())

	require.True(t, cc.Enabled(zapcore.DebugLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))

	lvlEnabler.SetLevel(zapcore.ErrorLevel)
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.False(t, cc.Enabled(zapcore.InfoLevel))
	require.False(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))
	require.Nil(t, cc.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil))

	lvlEnabler.SetLevel(zapcore.DebugLevel)

	core := cc.With([]zap.Field{zap.String("key", "value")})
	require.NotNil(t, core)

	ent := cc.Check(zapcore.Entry{Level: zapcore.DebugLevel, Message: "checked"}, nil)
	require.NotNil(t, ent)
	ent.Write(zap.String("key", "value"))
	require.NoError(t, cc.Sync())
	// Unknown encoder type falls back to JSON.
	require.Contains(t, buf.String(), `"msg":"checked"`)
	require.Contains(t, buf.String(), `"key":"value"`)

	buf.Reset()
	wrapped, err := WrapCore(cc, componentCoreEncoderCfg())
	require.NoError(t, err)
	require.NotNil(t, wrapped)
	err = wrapped.Write(zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "commonCore"}, []zap.Field{zap.String("key", "value")})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"component":"commonCore"`)

	_, err = WrapCore(cc, nil)
	require.ErrorIs(t, err, errEmptyCoreConfig)

	errOnly := zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	wrapped, err = WrapCoreNewLevelEnabler(cc, errOnly, componentCoreEncoderCfg())
	require.NoError(t, err)
	require.False(t, wrapped.Enabled(zapcore.WarnLevel))
	require.True(t, wrapped.Enabled(zapcore.ErrorLevel))
}

func TestConsoleCore(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelInfo.zapLevel())
	cc := newConsoleCore(
		context.TODO(),
		&lvlEnabler,
		PlainText,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc.context())
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.True(t, cc.Enabled(zapcore.InfoLevel))
	require.NotNil(t, cc.With([]zap.Field{zap.String("key", "value")}))
	require.NoError(t, cc.Write(zapcore.Entry{Level: zapcore.InfoLevel, Message: "console"}, nil))
	require.NotNil(t, cc.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
}

func TestMultiCores(t *testing.T) {
	tee := make(xLogMultiCore, 0, 2)
	require.Nil(t, tee.context())
	require.Nil(t, tee.writeSyncer())
	require.Nil(t, tee.levelEncoder())
	require.Nil(t, tee.timeEncoder())
	require.Nil(t, tee.outEncoder())
	require.Equal(t, zapcore.InvalidLevel, tee.Level())
	require.False(t, tee.Enabled(zapcore.ErrorLevel))

	buf1, buf2 := &bytes.Buffer{}, &bytes.Buffer{}
	infoLvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	warnLvl := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	tee = append(tee,
		newWriterCore(buf1)(context.TODO(), &infoLvl, JSON, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder),
		newWriterCore(buf2)(context.TODO(), &warnLvl, JSON, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder),
	)
	require.Equal(t, zapcore.InfoLevel, tee.Level())
	require.True(t, tee.Enabled(zapcore.InfoLevel))
	require.False(t, tee.Enabled(zapcore.DebugLevel))

	l := zap.New(XLogTeeCore(tee...))
	l.Info("info")
	l.Warn("warn")
	require.NoError(t, l.Sync())
	require.Equal(t, 2, bytes.Count(buf1.Bytes(), []byte("\n")))
	require.Equal(t, 1, bytes.Count(buf2.Bytes(), []byte("\n")))

	require.NotNil(t, tee.With([]zap.Field{zap.String("key", "value")}))
	require.NoError(t, tee.Write(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "direct"}, nil))
	require.Equal(t, 3, bytes.Count(buf1.Bytes(), []byte("\n")))
	require.Equal(t, 2, bytes.Count(buf2.Bytes(), []byte("\n")))

	wrapped, err := WrapCores(tee, componentCoreEncoderCfg())
	require.NoError(t, err)
	require.Len(t, wrapped.(xLogMultiCore), 2)
	_, err = WrapCores(tee, nil)
	require.ErrorIs(t, err, errEmptyCoreConfig)
}
