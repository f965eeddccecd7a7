package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "local-user", cfg.Actor)
	assert.Equal(t, "reparent", cfg.WBS.DeletePolicy)
	assert.EqualValues(t, 8<<20, cfg.Cache.MaxCostBytes)
}

func TestFromYAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := config.FromYAML([]byte("actor: dana\nwbs:\n  delete_policy: cascade\n"))
	require.NoError(t, err)
	assert.Equal(t, "dana", cfg.Actor)
	assert.Equal(t, "cascade", cfg.WBS.DeletePolicy)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromYAMLRejectsBadValues(t *testing.T) {
	for name, doc := range map[string]string{
		"policy": "wbs:\n  delete_policy: orphan\n",
		"level":  "log:\n  level: loud\n",
		"format": "log:\n  format: xml\n",
		"cache":  "cache:\n  max_cost_bytes: -1\n",
		"syntax": "actor: [",
		"actor":  "actor: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadOptionalAndWriteDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(dir)
	require.Error(t, err)

	path, err := config.WriteDefault(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("actor: sam\n"), 0o644))
	path2, err := config.WriteDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	cfg, err = config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sam", cfg.Actor, "existing file is not overwritten")
}
