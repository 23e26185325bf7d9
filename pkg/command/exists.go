package command

// ExistsCommand is a thin wrapper over the repository's existence check.
// Unlike the other handlers it needs no context: Exists never touches the
// lock or parses the record, only os.Stat's the state file.
type ExistsCommand struct {
	Deps
}

func NewExistsCommand(deps Deps) *ExistsCommand {
	return &ExistsCommand{Deps: deps}
}

func (c *ExistsCommand) Execute(name string) bool {
	return c.Repository.Exists(name)
}
