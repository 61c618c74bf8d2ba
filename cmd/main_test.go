package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flowstore/internal/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeYAMLDir(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name+".yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to write yaml %s", path)
}

func seedJournal(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	j, err := journal.Open(dir, true)
	require.NoError(t, err)
	_, err = j.Append("load/begin", nil)
	require.NoError(t, err)
	_, err = j.Append("counter/increment", map[string]int{"by": 1})
	require.NoError(t, err)
	require.NoError(t, j.Close())
	return dir
}

func TestJournalCmd_Text(t *testing.T) {
	dir := seedJournal(t)
	cmd := newJournalCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir, "--type", "counter/increment"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `counter/increment    {"by":1}`)
	assert.NotContains(t, out.String(), "load/begin")
}

func TestJournalCmd_YAML(t *testing.T) {
	dir := seedJournal(t)
	cmd := newJournalCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir, "--format", "yaml"})

	require.NoError(t, cmd.Execute())

	var records []yamlRecord
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "load/begin", records[0].Type)
	assert.Equal(t, uint64(2), records[1].Seq)
	assert.JSONEq(t, `{"by":1}`, records[1].Payload)
}

func TestJournalCmd_UnknownFormat(t *testing.T) {
	cmd := newJournalCmd()
	cmd.SetArgs([]string{"--dir", t.TempDir(), "--format", "xml"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestJournalCmd_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "typo")
	cmd := newJournalCmd()
	cmd.SetArgs([]string{"--dir", dir})

	err := cmd.Execute()

	require.ErrorIs(t, err, journal.ErrNotFound)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCmd_JournalsScenario(t *testing.T) {
	configDir := t.TempDir()
	journalDir := filepath.Join(t.TempDir(), "journal")
	writeYAMLDir(t, configDir, "application", "app:\n  profile: test\n  log-level: error\n")
	writeYAMLDir(t, configDir, "application-test",
		"store:\n  load-delay: 5\n  thunk-steps: 2\njournal:\n  enabled: true\n  no-sync: true\n  dir: "+journalDir+"\n")

	cmd := newRunCmd()
	cmd.SetArgs([]string{"--config-dir", configDir, "--profile-dir", configDir, "--scenario", "thunk"})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	j, err := journal.Open(journalDir, true)
	require.NoError(t, err)
	defer j.Close()
	increments, err := j.ByType("counter/increment")
	require.NoError(t, err)
	assert.Len(t, increments, 2)
}

func TestRunCmd_BadScenario(t *testing.T) {
	configDir := t.TempDir()
	writeYAMLDir(t, configDir, "application", "app:\n  profile: test\n")
	writeYAMLDir(t, configDir, "application-test", "")

	cmd := newRunCmd()
	cmd.SetArgs([]string{"--config-dir", configDir, "--profile-dir", configDir, "--scenario", "replay"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store.scenario")
}
