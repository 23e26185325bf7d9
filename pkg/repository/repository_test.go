package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

func newTestEnvironment(t *testing.T, name string) environment.Environment {
	t.Helper()
	envName, err := valueobject.NewEnvironmentName(name)
	require.NoError(t, err)
	username, err := valueobject.NewUsername("deploy")
	require.NoError(t, err)
	creds, err := valueobject.NewSshCredentials("/keys/id", "/keys/id.pub", username, 0)
	require.NoError(t, err)

	inputs := environment.UserInputs{
		Name:           envName,
		SSHCredentials: creds,
		Provider:       config.LXDProviderConfig{ProfileName: "default"},
		Tracker: config.TrackerConfig{
			Core: config.CoreConfig{Database: config.DatabaseConfig{Type: "sqlite", Path: "tracker.db"}},
		},
	}
	internal := environment.DeriveInternalConfig(t.TempDir(), envName, "")
	return environment.New(inputs, internal, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	repo := New(t.TempDir())
	env := newTestEnvironment(t, "sdk-example")

	require.NoError(t, repo.Save(context.Background(), env))

	loaded, err := repo.Load(context.Background(), "sdk-example")
	require.NoError(t, err)
	assert.Equal(t, environment.StateCreated, loaded.State)
	assert.Equal(t, "default", loaded.UserInputs.Provider.(config.LXDProviderConfig).ProfileName)
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	repo := New(t.TempDir())
	_, err := repo.Load(context.Background(), "ghost")
	require.Error(t, err)

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestExistsTrueAfterSave(t *testing.T) {
	repo := New(t.TempDir())
	env := newTestEnvironment(t, "e1")

	assert.False(t, repo.Exists("e1"))
	require.NoError(t, repo.Save(context.Background(), env))
	assert.True(t, repo.Exists("e1"))
}

func TestRemoveThenExistsFalse(t *testing.T) {
	repo := New(t.TempDir())
	env := newTestEnvironment(t, "e1")
	require.NoError(t, repo.Save(context.Background(), env))

	require.NoError(t, repo.Remove(context.Background(), "e1"))
	assert.False(t, repo.Exists("e1"))
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.Remove(context.Background(), "never-existed"))
	require.NoError(t, repo.Remove(context.Background(), "never-existed"))
}

func TestListEmptyWorkspace(t *testing.T) {
	repo := New(t.TempDir())
	result, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.Warnings)
	assert.False(t, result.HasFailures())
}

func TestListTwoEnvironments(t *testing.T) {
	repo := New(t.TempDir())
	require.NoError(t, repo.Save(context.Background(), newTestEnvironment(t, "a")))
	require.NoError(t, repo.Save(context.Background(), newTestEnvironment(t, "b")))

	result, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.False(t, result.HasFailures())

	names := []string{result.Environments[0].Name, result.Environments[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestListSkipsCorruptedRecordButWarns(t *testing.T) {
	workspace := t.TempDir()
	repo := New(workspace)
	require.NoError(t, repo.Save(context.Background(), newTestEnvironment(t, "good")))

	corruptDir := filepath.Join(workspace, "data", "bad")
	require.NoError(t, os.MkdirAll(corruptDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corruptDir, "state.json"), []byte("{not valid json"), 0o644))

	result, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	assert.True(t, result.HasFailures())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Path, "bad")
}

func TestResaveLeavesLoadableRecord(t *testing.T) {
	repo := New(t.TempDir())
	env := newTestEnvironment(t, "atomic")
	require.NoError(t, repo.Save(context.Background(), env))

	before, err := repo.Load(context.Background(), "atomic")
	require.NoError(t, err)

	// Re-saving with the same aggregate must leave a fully valid file in
	// place; there is no partial-write window observable from Load.
	require.NoError(t, repo.Save(context.Background(), env))
	after, err := repo.Load(context.Background(), "atomic")
	require.NoError(t, err)
	assert.Equal(t, before.State, after.State)
}

func TestLockContentionOnConcurrentExclusiveLocks(t *testing.T) {
	repo := New(t.TempDir()).WithLockTimeout(200 * time.Millisecond)
	env := newTestEnvironment(t, "contended")
	require.NoError(t, repo.Save(context.Background(), env))

	blockingFl := flock.New(repo.lockPath("contended"))
	locked, err := blockingFl.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer blockingFl.Unlock()

	start := time.Now()
	err = repo.Save(context.Background(), env)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 2*time.Second)
}
