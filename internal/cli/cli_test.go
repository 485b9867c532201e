package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/cbtquiz/internal/config"
)

const header = "number,prompt,choice1,choice2,choice3,choice4,correctAnswer,type,imageRef\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestValidate_Files(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", header+"1,One?,a,b,c,d,2,text,\n2,Two?,a,b,c,d,x,text,\n")
	bad := writeFile(t, dir, "bad.csv", "number,prompt\n1,One?\n")

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+good+": 2 questions, 1 without answer")

	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 dataset(s) failed validation")
	assert.Contains(t, out, "FAIL  "+bad)
	assert.Contains(t, out, "correctAnswer")
}

func TestValidate_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	csvDir := filepath.Join(dir, "csv")
	require.NoError(t, os.Mkdir(csvDir, 0o755))
	writeFile(t, csvDir, "r1.csv", header+"1,One?,a,b,c,d,2,text,\n")

	cfg := config.DefaultConfig()
	cfg.Data.CSVDir = csvDir
	cfgPath := filepath.Join(dir, "cbtquiz.yaml")
	require.NoError(t, config.WriteConfig(cfgPath, cfg))

	out, err := execute(t, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "r1.csv: 1 questions")

	cfg.Data.CSVDir = filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(cfg.Data.CSVDir, 0o755))
	require.NoError(t, config.WriteConfig(cfgPath, cfg))

	_, err = execute(t, "validate", "--config", cfgPath)
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbtquiz.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cbtquiz.yaml", "exam:\n  size: 20\nui:\n  slider: select\n")

	out, err := execute(t, "config", "show", "--config", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "size: 20")
	assert.Contains(t, out, "slider: select")
	assert.Contains(t, out, "level: debug")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalid)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
