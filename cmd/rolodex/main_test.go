package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(strings.NewReader(input), out)
	cmd.SetOut(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ROLODEX_LOG_DIR", filepath.Join(dir, "logs"))
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "rolodex v"+version+"\n", out)
}

func TestSessionPersists(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := isolate(t)
			data := filepath.Join(dir, "data."+backend)
			args := []string{"--config", filepath.Join(dir, "missing.yaml"), "--data", data, "--backend", backend}

			out, err := execute(t, "add contact\nAnn Lee\n0501234567\n\n\nmenu\nadd note\nGroceries\nmilk\nshop\nexit\n", args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Contact 'Ann Lee' added.")
			assert.Contains(t, out, "Note 'Groceries' added.")
			assert.FileExists(t, data)

			out, err = execute(t, "find contact\nann\nnote\nshop\nexit\n", args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Contacts found: 1")
			assert.Contains(t, out, "[1] 0501234567")
			assert.Contains(t, out, "Notes found: 1")
			assert.Contains(t, out, "Goodbye!")
		})
	}
}

func TestCorruptDataStartsEmpty(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(data, []byte("{not json"), 0600))

	out, err := execute(t, "find contact\n\n", "--config", filepath.Join(dir, "missing.yaml"), "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored data could not be loaded")
	assert.Contains(t, out, "No contacts found.")
}

func TestConfigErrors(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "--config", filepath.Join(dir, "missing.yaml"), "--backend", "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("birthday_max_days: [1"), 0600))
	_, err = execute(t, "", "--config", bad)
	require.Error(t, err)
}

func TestConfigFileAndLocale(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("locale: uk-UA\ndata_file: "+filepath.Join(dir, "d.json")+"\n"), 0600))

	out, err := execute(t, "exit\n", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "До побачення!")

	out, err = execute(t, "exit\n", "--config", cfg, "--locale", "en-US")
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!")
}
