package infra

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tsinling0525/flowrun/format/reactflow"
	"github.com/Tsinling0525/flowrun/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.HTTPRetries)
	assert.Equal(t, "data/flows", cfg.FlowsDir())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FLOWRUN_LOG_LEVEL", "debug")
	t.Setenv("FLOWRUN_API_PORT", "9999")
	t.Setenv("FLOWRUN_HTTP_TIMEOUT", "2s")
	t.Setenv("FLOWRUN_HTTP_RETRIES", "3")
	t.Setenv("FLOWRUN_DATA_DIR", "/tmp/fr")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9999", cfg.APIPort)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.HTTPRetries)
	assert.Equal(t, "/tmp/fr/flows", cfg.FlowsDir())

	deps := NewDeps(cfg)
	assert.NotNil(t, deps.HTTP)
	assert.IsType(t, LogBus{}, deps.Bus)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("FLOWRUN_HTTP_RETRIES", "many")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)

	_, err = NewLogger(&buf, "loud", "json")
	assert.Error(t, err)
}

func TestLogBus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := log.WithContext(context.Background())

	require.NoError(t, LogBus{}.Emit(ctx, "node_started", map[string]any{"node": "n1"}))
	assert.Contains(t, buf.String(), `"event":"node_started"`)
	assert.Contains(t, buf.String(), `"node":"n1"`)

	require.NoError(t, NullBus{}.Emit(ctx, "ignored", nil))
}

func TestFlowStore(t *testing.T) {
	ctx := context.Background()
	store := NewFlowStore(t.TempDir())
	flow := model.Flow{Nodes: []model.Node{{ID: "a", Type: model.TypeInput, Data: map[string]any{"value": "x"}}}}

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Put(ctx, "beta", flow))
	require.NoError(t, store.Put(ctx, "alpha", flow))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	got, err := store.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Nodes[0].Data["value"])

	require.NoError(t, store.Delete(ctx, "alpha"))
	_, err = store.Get(ctx, "alpha")
	assert.True(t, errors.Is(err, ErrFlowNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, "alpha"), ErrFlowNotFound))
}

func TestFlowStoreRejects(t *testing.T) {
	ctx := context.Background()
	store := NewFlowStore(t.TempDir())
	flow := model.Flow{Nodes: []model.Node{{ID: "a", Type: model.TypeInput}}}

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.ErrorIs(t, store.Put(ctx, name, flow), ErrInvalidFlowName, name)
	}
	assert.ErrorIs(t, store.Put(ctx, "empty", model.Flow{}), reactflow.ErrEmptyFlow)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Put(cancelled, "ok", flow), context.Canceled)
}
