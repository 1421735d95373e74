package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/plantdash/internal/catalog"
	"github.com/rileyhilliard/plantdash/internal/config"
	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand_WritesLoadableDefaults(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, initCommand(&buf, InitOptions{Dir: dir, NonInteractive: true}))
	assert.Contains(t, buf.String(), "Wrote")

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))

	def := config.DefaultConfig()
	assert.Equal(t, def.Simulation, cfg.Simulation)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Empty(t, cfg.Catalog)

	_, err = os.Stat(filepath.Join(dir, starterCatalogFile))
	assert.True(t, os.IsNotExist(err))
}

func TestInitCommand_WithCatalog(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, initCommand(&buf, InitOptions{Dir: dir, WithCatalog: true, NonInteractive: true}))

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, starterCatalogFile), cfg.Catalog)

	cat, err := catalog.Load(cfg.Catalog)
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().ID, cat.ID)
}

func TestInitCommand_ExistingConfig(t *testing.T) {
	tests := []struct {
		name      string
		overwrite bool
		wantErr   bool
	}{
		{name: "refuses without force", wantErr: true},
		{name: "force overwrites", overwrite: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, config.ConfigFileName, "version: 1\n")

			var buf bytes.Buffer
			err := initCommand(&buf, InitOptions{Dir: dir, Overwrite: tt.overwrite, NonInteractive: true})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pderrors.IsCode(err, pderrors.ErrConfig))
				data, _ := os.ReadFile(path)
				assert.Equal(t, "version: 1\n", string(data))
				return
			}
			require.NoError(t, err)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "simulation:")
		})
	}
}
