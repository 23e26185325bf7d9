package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torrust/tracker-deployer/pkg/command"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render templates into a directory without touching infrastructure",
	RunE: func(cmd *cobra.Command, args []string) error {
		envName, _ := cmd.Flags().GetString("env-name")
		envFile, _ := cmd.Flags().GetString("env-file")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		force, _ := cmd.Flags().GetBool("force")
		instanceIP, _ := cmd.Flags().GetString("instance-ip")

		if (envName == "") == (envFile == "") {
			return fmt.Errorf("exactly one of --env-name or --env-file is required")
		}
		if outputDir == "" {
			return fmt.Errorf("--output-dir is required")
		}

		cmdHandler := command.NewRenderCommand(deps("render"))
		err := cmdHandler.Execute(cmd.Context(), command.RenderOptions{
			EnvName:    envName,
			ConfigPath: envFile,
			OutputDir:  outputDir,
			Force:      force,
			InstanceIP: instanceIP,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rendered into %s\n", outputDir)
		return nil
	},
}

func init() {
	renderCmd.Flags().String("env-name", "", "Load an existing environment from the repository")
	renderCmd.Flags().String("env-file", "", "Parse a fresh env-file instead of loading from the repository")
	renderCmd.Flags().String("output-dir", "", "Directory to render templates into")
	renderCmd.Flags().Bool("force", false, "Allow rendering into a non-empty output directory")
	renderCmd.Flags().String("instance-ip", "", "If set, also render the configuration-management inventory for this instance IP")
}
