package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/zotrec/internal/config"
)

func TestNew_JSONModeIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.OutputJSON, false)

	logger.Warn().Msg("should not appear")
	logger.Error().Msg("nor this")

	assert.Empty(t, buf.String())
}

func TestNew_JSONModeVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.OutputJSON, true)

	logger.Debug().Str("title", "Paper X").Msg("no match")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, "Paper X", rec["title"])
}

func TestNew_HumanLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"info by default", false, false},
		{"debug when verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, config.OutputHuman, tt.verbose)

			logger.Debug().Msg("debug-line")
			logger.Info().Msg("info-line")

			out := buf.String()
			assert.Contains(t, out, "info-line")
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug-line"))
		})
	}
}
