package command

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/metrics"
	"github.com/torrust/tracker-deployer/pkg/repository"
)

// ListCommand is a thin wrapper over the repository's directory scan. As
// a side effect it refreshes the per-state environment gauge, the same
// role the teacher's metrics_collector.go plays for node/service counts.
type ListCommand struct {
	Deps
}

func NewListCommand(deps Deps) *ListCommand {
	return &ListCommand{Deps: deps}
}

func (c *ListCommand) Execute(ctx context.Context) (repository.ListResult, error) {
	result, err := c.Repository.List(ctx)
	if err != nil {
		return result, err
	}
	counts := make(map[environment.State]int)
	for _, env := range result.Environments {
		counts[env.State]++
	}
	for _, state := range environment.AllStates() {
		metrics.EnvironmentsByState.WithLabelValues(state.String()).Set(float64(counts[state]))
	}
	return result, nil
}
