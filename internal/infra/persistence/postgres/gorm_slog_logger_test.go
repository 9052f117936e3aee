package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"smarttrack/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormLogger(debug bool) (*gormSlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), cfg)

	return l.(*gormSlogLogger), &buf
}

func TestGormSlogLogger_ParamsFilterDropsValues(t *testing.T) {
	l, _ := newTestGormLogger(true)

	sql, params := l.ParamsFilter(context.Background(), `SELECT * FROM "refresh_tokens" WHERE token_hash = $1`, "deadbeef")
	assert.Equal(t, `SELECT * FROM "refresh_tokens" WHERE token_hash = $1`, sql)
	assert.Nil(t, params)
}

func TestGormSlogLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return `SELECT * FROM "accounts" WHERE email = $1`, 1 }

	t.Run("info queries only in debug", func(t *testing.T) {
		l, buf := newTestGormLogger(false)
		l.Trace(context.Background(), time.Now(), sqlFn, nil)
		assert.Empty(t, buf.String())

		l, buf = newTestGormLogger(true)
		l.Trace(context.Background(), time.Now(), sqlFn, nil)
		assert.Contains(t, buf.String(), `"msg":"GORM query"`)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, buf := newTestGormLogger(false)
		l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("failures are logged", func(t *testing.T) {
		l, buf := newTestGormLogger(false)
		l.Trace(context.Background(), time.Now(), sqlFn, errors.New("connection reset"))
		assert.Contains(t, buf.String(), "GORM query failed")
		assert.Contains(t, buf.String(), "connection reset")
	})

	t.Run("slow queries are warned", func(t *testing.T) {
		l, buf := newTestGormLogger(false)
		l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
		assert.Contains(t, buf.String(), "GORM slow query")
	})

	t.Run("silent mode", func(t *testing.T) {
		l, buf := newTestGormLogger(true)
		l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
