package environment

// Summary is the lightweight projection pkg/repository.List returns per
// environment: name, state, provider, created_at only — enough to render
// a list without loading and parsing every full record.
type Summary struct {
	Name         string
	State        State
	ProviderType string
	CreatedAt    UtcTimestamp
}

// ToSummary projects e into its list-view Summary.
func (e Environment) ToSummary() Summary {
	providerType := ""
	if e.UserInputs.Provider != nil {
		providerType = providerTypeOf(e.UserInputs.Provider)
	}
	return Summary{
		Name:         e.UserInputs.Name.String(),
		State:        e.State,
		ProviderType: providerType,
		CreatedAt:    e.RuntimeOutputs.CreatedAt,
	}
}
