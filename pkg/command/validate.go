package command

import "github.com/torrust/tracker-deployer/pkg/config"

// ValidateCommand checks an env-file's configuration document without
// touching the repository or any environment record.
type ValidateCommand struct{}

func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

// Execute loads and validates envFilePath, returning the parsed Config on
// success for callers (e.g. `create`) that want to reuse it.
func (c *ValidateCommand) Execute(envFilePath string) (config.Config, error) {
	return config.Load(envFilePath)
}
