package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torrust/tracker-deployer/pkg/clock"
	"github.com/torrust/tracker-deployer/pkg/command"
	"github.com/torrust/tracker-deployer/pkg/config"
)

// deps builds the command.Deps shared by every mutating handler,
// scoped to a single invocation's --workspace/--iac-exec-path flags and
// a progress listener named after the subcommand itself.
func deps(component string) command.Deps {
	return command.Deps{
		Repository:  newRepository(),
		Clock:       clock.System{},
		Listener:    newListener(component),
		IaCExecPath: opts.iacExecPath,
	}
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new environment from a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, err := cmd.Flags().GetString("env-file")
		if err != nil || envFile == "" {
			return fmt.Errorf("--env-file is required")
		}
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cmdHandler := command.NewCreateCommand(deps("create"), opts.workspaceRoot)
		env, err := cmdHandler.Execute(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var provisionCmd = &cobra.Command{
	Use:   "provision <env>",
	Short: "Provision infrastructure for an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := command.NewProvisionCommand(deps("provision")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <env>",
	Short: "Register an externally-provisioned instance with an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceIP, err := cmd.Flags().GetString("instance-ip")
		if err != nil || instanceIP == "" {
			return fmt.Errorf("--instance-ip is required")
		}
		env, err := command.NewRegisterCommand(deps("register")).Execute(cmd.Context(), args[0], instanceIP)
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var configureCmd = &cobra.Command{
	Use:   "configure <env>",
	Short: "Install and configure the container runtime, orchestrator, and hardening",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := command.NewConfigureCommand(deps("configure")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release <env>",
	Short: "Render and upload the tracker release artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := command.NewReleaseCommand(deps("release")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <env>",
	Short: "Start the released tracker stack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := command.NewRunCommand(deps("run")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var testCmd = &cobra.Command{
	Use:   "test <env>",
	Short: "Run read-only validators against a provisioned instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := command.NewTestCommand(deps("test")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return printJSON(cmd, result)
		}
		if len(result.Warnings) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "all validators passed with no warnings")
			return nil
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(cmd.OutOrStdout(), "warning:", w)
		}
		return nil
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy <env>",
	Short: "Tear down infrastructure and clear the build directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := command.NewDestroyCommand(deps("destroy")).Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, env)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <env>",
	Short: "Remove an environment's record entirely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := command.NewPurgeCommand(deps("purge")).Execute(cmd.Context(), args[0], force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", args[0])
		return nil
	},
}

func init() {
	createCmd.Flags().String("env-file", "", "Path to the environment config JSON document")
	registerCmd.Flags().String("instance-ip", "", "IP address of the externally-provisioned instance")
	purgeCmd.Flags().Bool("force", false, "Purge even if the environment still has live infrastructure")
}
