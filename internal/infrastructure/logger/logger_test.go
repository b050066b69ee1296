package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"
)

func TestSetupWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	log, err := Setup(Options{Level: "info", Dir: dir})
	require.NoError(t, err)

	log.Info("connected")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "connected")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)

	sqlFn := func() (string, int64) { return "SELECT 1", 1 }
	l.Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Equal(t, 0, logs.Len(), "fast queries are not logged at warn level")

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slow sql", logs.All()[0].Message)

	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, logs.Len(), "record not found is not an error")

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("deadlock"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "sql error", logs.All()[1].Message)

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sqlFn, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}
