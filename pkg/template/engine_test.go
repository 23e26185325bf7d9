package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWritesUnderSubsystemDirectory(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, "build", "staging-01")
	e := New(buildDir)

	ctx, err := NewCloudInitContext("torrust-tracker-vm-staging-01", "ssh-ed25519 AAAA...", "deploy")
	require.NoError(t, err)

	err = e.Render("cloud-init", "user: {{ .Username }}\nhostname: {{ .InstanceName }}\n", ctx, "tofu/lxd", "cloud-init.yml")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(buildDir, "tofu/lxd", "cloud-init.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "user: deploy")
	assert.Contains(t, string(data), "hostname: torrust-tracker-vm-staging-01")
}

func TestRenderOverwritesOnReRender(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	require.NoError(t, e.Render("t", "{{ .V }}", struct{ V string }{"first"}, "sub", "out.txt"))
	require.NoError(t, e.Render("t", "{{ .V }}", struct{ V string }{"second"}, "sub", "out.txt"))

	data, err := os.ReadFile(filepath.Join(dir, "sub", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestRenderUsesSprigFuncs(t *testing.T) {
	dir := t.TempDir()
	e := New(dir)

	err := e.Render("t", `{{ .Name | upper }}`, struct{ Name string }{"tracker"}, "sub", "out.txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "sub", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "TRACKER", string(data))
}

func TestCopyStaticIsByteForByte(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.bin")
	require.NoError(t, os.WriteFile(src, []byte("raw bytes"), 0o644))

	e := New(filepath.Join(dir, "build"))
	require.NoError(t, e.CopyStatic(src, "prometheus", "source.bin"))

	data, err := os.ReadFile(filepath.Join(dir, "build", "prometheus", "source.bin"))
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(data))
}

func TestResetBuildDirClearsPreviousArtifacts(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, "build")
	e := New(buildDir)

	require.NoError(t, e.Render("t", "stale", nil, "sub", "out.txt"))
	require.NoError(t, e.ResetBuildDir())

	_, err := os.Stat(filepath.Join(buildDir, "sub", "out.txt"))
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(buildDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewAnsibleHostRejectsInvalidIP(t *testing.T) {
	_, err := NewAnsibleHost("not-an-ip")
	assert.Error(t, err)
}

func TestNewCaddyContextRequiresAllFields(t *testing.T) {
	_, err := NewCaddyContext("", "ops@example.com", "http://127.0.0.1:7070")
	assert.Error(t, err)

	ctx, err := NewCaddyContext("tracker.example.com", "ops@example.com", "http://127.0.0.1:7070")
	require.NoError(t, err)
	assert.Equal(t, "tracker.example.com", ctx.Domain)
}
