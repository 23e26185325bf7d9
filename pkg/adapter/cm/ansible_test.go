package cm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnsiblePlaybook writes a shell script standing in for
// ansible-playbook so these tests never depend on Ansible being
// installed; it just echoes its arguments and exits with the given code.
func fakeAnsiblePlaybook(t *testing.T, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ansible-playbook")
	script := "#!/bin/sh\necho \"$@\"\nexit " + string(rune('0'+exitCode)) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunPlaybookSucceeds(t *testing.T) {
	workDir := t.TempDir()
	c := New(workDir)
	c.BinaryPath = fakeAnsiblePlaybook(t, 0)

	result, err := c.RunPlaybook(context.Background(), "site.yml", "inventory.yml", map[string]string{"env": "staging"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "site.yml")
}

func TestRunPlaybookFailsOnNonZeroExit(t *testing.T) {
	workDir := t.TempDir()
	c := New(workDir)
	c.BinaryPath = fakeAnsiblePlaybook(t, 1)

	_, err := c.RunPlaybook(context.Background(), "site.yml", "inventory.yml", nil)
	assert.Error(t, err)
}

func TestNewDefaultsBinaryPath(t *testing.T) {
	c := New("/tmp")
	assert.Equal(t, "ansible-playbook", c.BinaryPath)
}
