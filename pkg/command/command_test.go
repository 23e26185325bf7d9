package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/clock"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/progress"
	"github.com/torrust/tracker-deployer/pkg/repository"
)

func newDeps(repo *repository.Repository) Deps {
	return Deps{
		Repository: repo,
		Clock:      clock.NewMock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Listener:   &progress.Recorder{},
	}
}

func TestRegisterRejectsWrongState(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "already-provisioned")
	env.State = environment.StateProvisioned
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewRegisterCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "already-provisioned", "10.0.0.5")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}

func TestRegisterRejectsInvalidIP(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "bad-ip")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewRegisterCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "bad-ip", "not-an-ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
}

func TestConfigureRejectsWrongState(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "not-provisioned")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewConfigureCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "not-provisioned")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}

func TestReleaseRejectsWrongState(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "not-configured")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewReleaseCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "not-configured")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}

func TestRunRejectsWrongState(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "not-released")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewRunCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "not-released")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}

// TestDestroyNeverRunsIaCBelowProvisioned confirms destroy skips the IaC
// client entirely (and so cannot fail on a missing tofu binary) when the
// environment never reached Provisioned — it should only clear the
// (empty) build directory and succeed.
func TestDestroyNeverRunsIaCBelowProvisioned(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "never-provisioned")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewDestroyCommand(newDeps(repo))
	destroyed, err := cmd.Execute(context.Background(), "never-provisioned")
	require.NoError(t, err)
	assert.Equal(t, environment.StateDestroyed, destroyed.State)
}

func TestPurgeIsIdempotentOnAbsentEnvironment(t *testing.T) {
	repo := repository.New(t.TempDir())
	cmd := NewPurgeCommand(newDeps(repo))
	require.NoError(t, cmd.Execute(context.Background(), "ghost", false))
}

func TestPurgeRefusesLiveInfrastructureWithoutForce(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "still-provisioned")
	env.State = environment.StateProvisioned
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewPurgeCommand(newDeps(repo))
	err := cmd.Execute(context.Background(), "still-provisioned", false)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}

func TestPurgeRemovesRecordWithForce(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "force-purge")
	env.State = environment.StateProvisioned
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewPurgeCommand(newDeps(repo))
	require.NoError(t, cmd.Execute(context.Background(), "force-purge", true))
	assert.False(t, repo.Exists("force-purge"))
}

func TestShowIncludesOptionalSections(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "with-backup")
	env.UserInputs.Backup = &config.BackupConfig{RetentionDays: 7, Schedule: "0 3 * * *"}
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewShowCommand(newDeps(repo))
	result, err := cmd.Execute(context.Background(), "with-backup")
	require.NoError(t, err)
	require.NotNil(t, result.Backup)
	assert.Equal(t, 7, result.Backup.RetentionDays)
	assert.Nil(t, result.Prometheus)
}

func TestListReturnsSavedEnvironments(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	require.NoError(t, repo.Save(context.Background(), newCreatedEnvironment(t, workspaceRoot, "one")))
	require.NoError(t, repo.Save(context.Background(), newCreatedEnvironment(t, workspaceRoot, "two")))

	cmd := NewListCommand(newDeps(repo))
	result, err := cmd.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
}

func TestExistsReflectsRepository(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	cmd := NewExistsCommand(newDeps(repo))
	assert.False(t, cmd.Execute("nope"))

	require.NoError(t, repo.Save(context.Background(), newCreatedEnvironment(t, workspaceRoot, "nope")))
	assert.True(t, cmd.Execute("nope"))
}

func TestTestCommandRejectsBelowProvisioned(t *testing.T) {
	workspaceRoot := t.TempDir()
	repo := repository.New(workspaceRoot)
	env := newCreatedEnvironment(t, workspaceRoot, "too-early")
	require.NoError(t, repo.Save(context.Background(), env))

	cmd := NewTestCommand(newDeps(repo))
	_, err := cmd.Execute(context.Background(), "too-early")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidStateTransition, apperror.KindOf(err))
}
