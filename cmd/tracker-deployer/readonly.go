package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torrust/tracker-deployer/pkg/command"
)

func readDeps() command.Deps {
	return command.Deps{Repository: newRepository()}
}

var showCmd = &cobra.Command{
	Use:   "show <env>",
	Short: "Show an environment's current state and optional sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := command.NewShowCommand(readDeps()).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if handled, err := printStructured(cmd, result); handled {
			return err
		}
		out := cmd.OutOrStdout()
		if err := printResult(cmd, result.Environment); err != nil {
			return err
		}
		if result.Prometheus != nil {
			fmt.Fprintf(out, "  prometheus: %s\n", result.Prometheus.Endpoint)
		}
		if result.Grafana != nil {
			fmt.Fprintf(out, "  grafana: %s\n", result.Grafana.Endpoint)
		}
		if result.Backup != nil {
			fmt.Fprintf(out, "  backup: retention=%dd schedule=%q\n", result.Backup.RetentionDays, result.Backup.Schedule)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every environment in the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := command.NewListCommand(readDeps()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if handled, err := printStructured(cmd, result); handled {
			return err
		}
		out := cmd.OutOrStdout()
		for _, summary := range result.Environments {
			fmt.Fprintf(out, "%s\t%s\t%s\n", summary.Name, summary.State.String(), summary.ProviderType)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "warning: %s: %s\n", w.Path, w.Message)
		}
		return nil
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <env>",
	Short: "Report whether an environment record exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := command.NewExistsCommand(readDeps()).Execute(args[0])
		if handled, err := printStructured(cmd, map[string]bool{"exists": ok}); handled {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <env-file>",
	Short: "Validate an env-file without creating an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := command.NewValidateCommand().Execute(args[0])
		if err != nil {
			return err
		}
		if handled, err := printStructured(cmd, cfg); handled {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}
