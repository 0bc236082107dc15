package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/intel-feed/internal/logger"
)

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "api", "debug", "JSON")

	log.Debug("hello", "src", "BBC")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "api", rec["service"])
	require.Equal(t, "BBC", rec["src"])
	require.Equal(t, "DEBUG", rec["level"])
}

func TestNewWriterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "worker", "warning", "")

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.True(t, strings.Contains(out, "kept"))
	require.Contains(t, out, "service=worker")
}

func TestNewWriterDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "poller", "nonsense", "text")

	log.Debug("quiet")
	log.Info("loud")

	require.NotContains(t, buf.String(), "quiet")
	require.Contains(t, buf.String(), "loud")
}
