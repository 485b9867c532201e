package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 80, cfg.Exam.Size)
	assert.Equal(t, "out_csv", cfg.Data.CSVDir)
	assert.Equal(t, "out_img", cfg.Data.ImageDir)
	assert.Equal(t, "out_img.zip", cfg.Data.ImageArchive)
	assert.True(t, cfg.Data.AutoExtract)
	assert.Equal(t, SliderRange, cfg.UI.Slider)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtquiz.yaml")

	cfg := DefaultConfig()
	cfg.UI.Slider = SliderSelect
	cfg.Storage.Driver = DriverSQLite
	cfg.Exam.Size = 40

	require.NoError(t, WriteConfig(path, cfg))

	loaded, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SliderSelect, loaded.UI.Slider)
	assert.Equal(t, DriverSQLite, loaded.Storage.Driver)
	assert.Equal(t, 40, loaded.Exam.Size)
}

func TestReadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtquiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  slider: select\n"), 0o644))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SliderSelect, cfg.UI.Slider)
	assert.Equal(t, 80, cfg.Exam.Size)
	assert.Equal(t, ":8501", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtquiz.yaml")
	require.NoError(t, WriteConfig(path, DefaultConfig()))

	t.Setenv(EnvAddr, ":9000")
	t.Setenv(EnvStorageDriver, DriverSQLite)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "cbtquiz.db", cfg.Storage.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{name: "zero exam size", modify: func(cfg *Config) { cfg.Exam.Size = 0 }},
		{name: "unknown slider", modify: func(cfg *Config) { cfg.UI.Slider = "knob" }},
		{name: "unknown driver", modify: func(cfg *Config) { cfg.Storage.Driver = "mongo" }},
		{name: "postgres without dsn", modify: func(cfg *Config) { cfg.Storage.Driver = DriverPostgres }},
		{name: "empty csv dir", modify: func(cfg *Config) { cfg.Data.CSVDir = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
