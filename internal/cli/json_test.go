package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"metrics": 3}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]any{"metrics": 3.0}, env.Data)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantMsg    string
		suggestion string
	}{
		{
			name:     "config not found",
			err:      pderrors.New(pderrors.ErrConfig, "Config file not found", "Run 'plantdash init'"),
			wantCode: ErrCodeConfigNotFound, wantMsg: "Config file not found", suggestion: "Run 'plantdash init'",
		},
		{
			name:     "config invalid",
			err:      pderrors.New(pderrors.ErrConfig, "Invalid config format", ""),
			wantCode: ErrCodeConfigInvalid, wantMsg: "Invalid config format",
		},
		{
			name:     "unknown metric",
			err:      pderrors.New(pderrors.ErrCatalog, "Metric 'Nope' is not in the catalog", ""),
			wantCode: ErrCodeUnknownMetric, wantMsg: "Metric 'Nope' is not in the catalog",
		},
		{
			name:     "bad catalog",
			err:      pderrors.New(pderrors.ErrCatalog, "Metric 'Flow' has min 5 greater than max 1", ""),
			wantCode: ErrCodeCatalogInvalid, wantMsg: "Metric 'Flow' has min 5 greater than max 1",
		},
		{
			name:     "range",
			err:      pderrors.New(pderrors.ErrRange, "Invalid custom range", ""),
			wantCode: ErrCodeInvalidRange, wantMsg: "Invalid custom range",
		},
		{
			name:     "serve",
			err:      pderrors.New(pderrors.ErrServe, "Cannot listen on :1", ""),
			wantCode: ErrCodeServeFailed, wantMsg: "Cannot listen on :1",
		},
		{
			name:     "wrapped structured error",
			err:      fmt.Errorf("history: %w", pderrors.New(pderrors.ErrExec, "Render failed", "")),
			wantCode: ErrCodeCommandFailed, wantMsg: "Render failed",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: ErrCodeUnknown, wantMsg: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.suggestion, got.Suggestion)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestFinish(t *testing.T) {
	failure := pderrors.New(pderrors.ErrRange, "Invalid custom range", "Pick a later end")

	t.Run("plain mode passes the error through", func(t *testing.T) {
		var buf bytes.Buffer
		err := finish(&buf, false, nil, failure)
		assert.Equal(t, failure, err)
		assert.Empty(t, buf.String())
	})

	t.Run("json failure writes envelope and exit code", func(t *testing.T) {
		var buf bytes.Buffer
		err := finish(&buf, true, nil, failure)
		code, ok := pderrors.GetExitCode(err)
		require.True(t, ok)
		assert.Equal(t, 1, code)

		var env JSONEnvelope
		require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, ErrCodeInvalidRange, env.Error.Code)
		assert.Equal(t, "Pick a later end", env.Error.Suggestion)
	})

	t.Run("json success", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, finish(&buf, true, []int{1}, nil))
		assert.Contains(t, buf.String(), `"success": true`)
	})
}
