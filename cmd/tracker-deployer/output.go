package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/torrust/tracker-deployer/pkg/environment"
)

// printJSON marshals v and writes it to cmd's configured stdout,
// regardless of the current --format flag — callers that already
// decided JSON is wanted (e.g. `test --format json`) call this directly.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printYAML marshals v as YAML, a display-only alternative to --format
// json: since security.Secret's plaintext field is unexported, a plain
// yaml.Marshal (with no custom MarshalYAML) renders secrets as empty
// rather than round-tripping them, unlike the JSON persisted record.
func printYAML(cmd *cobra.Command, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// printStructured renders v as either JSON or YAML, whichever
// --format requests, falling back to the caller's own text rendering
// when --format is left at its "text" default.
func printStructured(cmd *cobra.Command, v any) (handled bool, err error) {
	switch opts.format {
	case "json":
		return true, printJSON(cmd, v)
	case "yaml":
		return true, printYAML(cmd, v)
	default:
		return false, nil
	}
}

// printResult renders an Environment per the --format flag: "json"/"yaml"
// for the full persisted record, "text" (the default) for a one-line
// human summary matching what the teacher's CLI prints after a cluster
// operation.
func printResult(cmd *cobra.Command, env environment.Environment) error {
	if handled, err := printStructured(cmd, env); handled {
		return err
	}
	ip := "<none>"
	if env.RuntimeOutputs.InstanceIP != nil {
		ip = env.RuntimeOutputs.InstanceIP.String()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (instance_ip=%s)\n", env.UserInputs.Name.String(), env.State.String(), ip)
	return nil
}
