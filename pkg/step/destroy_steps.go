package step

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// IaCDestroyStep runs `tofu destroy -auto-approve`, tearing down every
// resource the provision command created.
type IaCDestroyStep struct {
	iacClientStep
	Vars map[string]string
}

func NewIaCDestroyStep(c *iac.Client, vars map[string]string) IaCDestroyStep {
	return IaCDestroyStep{iacClientStep{c}, vars}
}
func (s IaCDestroyStep) Name() string { return "iac_destroy" }
func (s IaCDestroyStep) Execute(ctx context.Context) error {
	return s.Client.Destroy(ctx, s.Vars)
}

// ClearBuildDirStep deletes the environment's rendered build directory,
// run unconditionally by destroy (spec §4.4: "(always) clear the build
// directory").
type ClearBuildDirStep struct {
	Engine *template.Engine
}

func (s ClearBuildDirStep) Name() string { return "clear_build_dir" }

func (s ClearBuildDirStep) Execute(ctx context.Context) error {
	return s.Engine.ResetBuildDir()
}

var (
	_ Step = IaCDestroyStep{}
	_ Step = ClearBuildDirStep{}
)
