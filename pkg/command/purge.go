package command

import (
	"context"
	"os"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
)

// PurgeCommand removes an environment's record and rendered artifacts
// entirely, distinct from destroy: destroy tears down infrastructure but
// keeps the record; purge keeps nothing. It causes no state transition
// and is idempotent — purging an already-purged (absent) name succeeds.
type PurgeCommand struct {
	Deps
}

func NewPurgeCommand(deps Deps) *PurgeCommand {
	return &PurgeCommand{Deps: deps}
}

// Execute removes name's data directory and build directory. If the
// record is still in a state that would have live infrastructure
// (AtLeastProvisioned and not yet Destroyed/DestroyFailed), callers
// should run destroy first; Force bypasses that check for cases where
// the infrastructure is already known gone or unreachable.
func (c *PurgeCommand) Execute(ctx context.Context, name string, force bool) error {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil
		}
		return err
	}

	if !force && env.State.AtLeastProvisioned() && env.State != environment.StateDestroyed && env.State != environment.StateDestroyFailed {
		return invalidTransitionError("purge", env.State, environment.StateDestroyed, environment.StateDestroyFailed)
	}

	listener := c.listener()
	listener.OnCommandStarted("purge", 2)

	if err := os.RemoveAll(env.InternalConfig.BuildDir); err != nil {
		wrapped := apperror.Wrap(apperror.KindPersistence, "purge: remove build dir", err)
		listener.OnCommandFailed("purge", string(apperror.KindPersistence), 0)
		return wrapped
	}
	listener.OnStepCompleted(0, "remove_build_dir", 0)

	if err := c.Repository.Remove(ctx, name); err != nil {
		listener.OnCommandFailed("purge", string(apperror.KindOf(err)), 0)
		return err
	}
	listener.OnStepCompleted(1, "remove_data_dir", 0)

	listener.OnCommandCompleted("purge", 0)
	return nil
}
