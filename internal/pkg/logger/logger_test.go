package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("production", "debug", &buf)

	log.Info().Str("recipe", "borscht").Msg("created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "created", line["message"])
	assert.Equal(t, "borscht", line["recipe"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", "chatty", &buf)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestGorm_TraceSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	g := NewGorm(New("prod", "debug", &buf))

	g.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	g.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO favorites", 0
	}, errors.New("disk I/O error"))
	assert.Contains(t, buf.String(), "query failed")
}

func TestGorm_SilentMode(t *testing.T) {
	var buf bytes.Buffer
	g := NewGorm(New("prod", "debug", &buf)).LogMode(gormlogger.Silent)

	g.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 0
	}, errors.New("boom"))
	assert.Empty(t, buf.String())
}
