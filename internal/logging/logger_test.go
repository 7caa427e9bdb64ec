package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SlogJSON_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Backend: BackendSlog, Level: "warn", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	ctx := context.Background()
	l.Info(ctx, "hidden")
	l.Warn(ctx, "shown", "task_id", 7)

	out := strings.TrimSpace(buf.String())
	require.NotContains(t, out, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, float64(7), rec["task_id"])
}

func TestNew_Zerolog_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Backend: BackendZerolog, Level: "debug", Output: &buf})
	require.NoError(t, err)

	l.With("module", "checker").Debug(context.Background(), "dispatch", "method", "havoc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "dispatch", rec["message"])
	assert.Equal(t, "checker", rec["module"])
	assert.Equal(t, "havoc", rec["method"])
	assert.Equal(t, "debug", rec["level"])
}

func TestNew_Zerolog_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Backend: BackendZerolog, Level: "error", Output: &buf})
	require.NoError(t, err)

	l.Info(context.Background(), "nope")
	assert.Empty(t, buf.String())
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Backend: "logrus"})
	require.Error(t, err)

	_, err = New(Options{Backend: BackendSlog, Level: "loud"})
	require.Error(t, err)

	_, err = New(Options{Backend: BackendZerolog, Format: "xml"})
	require.Error(t, err)
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	l := Discard()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.With("a", 1).Error(ctx, "y")
}
