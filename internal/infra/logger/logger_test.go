package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewNopLogger()
	l.logger.Out = &buf
	l.logger.SetFormatter(&logrus.JSONFormatter{})

	l.Info("Message relayed", logrus.Fields{"to": "123@c.us"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Message relayed", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "123@c.us", line["to"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	l := NewLogger(context.Background(), "chatty", true)
	assert.Equal(t, logrus.InfoLevel, l.logger.GetLevel())

	l = NewLogger(context.Background(), "debug", false)
	assert.Equal(t, logrus.DebugLevel, l.logger.GetLevel())
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewNopLogger()
	l.logger.Out = &buf

	l.Debug("hidden")
	assert.Empty(t, buf.String())
}
