package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("warn", "json", &buf)
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("collapsed element", "element", 7)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "collapsed element", rec["msg"])
	assert.Equal(t, 7., rec["element"])

	buf.Reset()
	l, err = NewLogger("DEBUG", "text", &buf)
	require.NoError(t, err)
	l.Debug("pairs", "count", 3)
	assert.Contains(t, buf.String(), "count=3")

	_, err = NewLogger("loud", "text", nil)
	assert.Error(t, err)
	_, err = NewLogger("info", "xml", nil)
	assert.Error(t, err)

	OrDiscard(nil).Error("goes nowhere")
	assert.Same(t, l, OrDiscard(l))
}

func TestMemUsage(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("info", "text", &buf)
	require.NoError(t, err)
	logger.Info("done", MemUsage())
	assert.Contains(t, buf.String(), "mem.allocMiB=")
	assert.Contains(t, buf.String(), "mem.numGC=")
}
