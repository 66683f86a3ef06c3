package oitconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overitall.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_BatchWindowFromConfig(t *testing.T) {
	path := writeTempConfig(t, "procfile = \"Procfile\"\nbatch_window_ms = 2000\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.BatchWindowMs)
	assert.EqualValues(t, 2000, *cfg.BatchWindowMs)
}

func TestLoad_BatchWindowDefaultsWhenMissing(t *testing.T) {
	path := writeTempConfig(t, "procfile = \"Procfile\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.BatchWindowMs)
	assert.EqualValues(t, DefaultBatchWindowMs, cfg.EffectiveBatchWindowMs())
}

func TestSave_RoundTripsBatchWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overitall.toml")
	window := int64(5000)
	cfg := &Config{Procfile: "Procfile", BatchWindowMs: &window}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.BatchWindowMs)
	assert.EqualValues(t, 5000, *loaded.BatchWindowMs)
}

func TestValidate_LogFileNameConflictsWithProcessName(t *testing.T) {
	cfg := &Config{LogFiles: []LogFileConfig{{Name: "web", Path: "/var/log/web.log"}}}
	err := cfg.Validate([]string{"web", "worker"})
	assert.Error(t, err)
}

func TestValidate_DuplicateLogFileName(t *testing.T) {
	cfg := &Config{LogFiles: []LogFileConfig{
		{Name: "app", Path: "/a.log"},
		{Name: "app", Path: "/b.log"},
	}}
	err := cfg.Validate([]string{"web"})
	assert.Error(t, err)
}

func TestValidate_StartProcessesUnknown(t *testing.T) {
	cfg := &Config{StartProcesses: []string{"ghost"}}
	err := cfg.Validate([]string{"web", "worker"})
	assert.Error(t, err)
}

func TestValidate_GroupNameConflictsWithProcessName(t *testing.T) {
	cfg := &Config{Groups: map[string][]string{"web": {"worker"}}}
	err := cfg.Validate([]string{"web", "worker"})
	assert.Error(t, err)
}

func TestValidate_EmptyGroupRejected(t *testing.T) {
	cfg := &Config{Groups: map[string][]string{"rails": {}}}
	err := cfg.Validate([]string{"web", "worker"})
	assert.Error(t, err)
}

func TestValidate_GroupWithUnknownMemberRejected(t *testing.T) {
	cfg := &Config{Groups: map[string][]string{"rails": {"ghost"}}}
	err := cfg.Validate([]string{"web", "worker"})
	assert.Error(t, err)
}

func TestValidate_HappyPath(t *testing.T) {
	cfg := &Config{
		LogFiles:       []LogFileConfig{{Name: "app-log", Path: "/var/log/app.log"}},
		StartProcesses: []string{"web"},
		Groups:         map[string][]string{"rails": {"web", "worker"}},
	}
	err := cfg.Validate([]string{"web", "worker"})
	assert.NoError(t, err)
}
