package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/log"
	"github.com/torrust/tracker-deployer/pkg/metrics"
	"github.com/torrust/tracker-deployer/pkg/progress"
	"github.com/torrust/tracker-deployer/pkg/repository"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

// cliOptions holds the parsed global flags every subcommand reads.
type cliOptions struct {
	workspaceRoot string
	logLevel      string
	logJSON       bool
	format        string
	iacExecPath   string
	metricsAddr   string
}

var opts cliOptions

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(3)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error onto spec's exit codes: every
// command-level apperror.Error (state mismatch, tool failure,
// validation) is 1; cobra's own Args validators and flag parsing return
// plain errors, which are invalid-CLI-argument failures, code 2. Code 3
// (internal/bug) is reserved for the recovered-panic path above.
func exitCodeFor(err error) int {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return 1
	}
	return 2
}

var rootCmd = &cobra.Command{
	Use:   "tracker-deployer",
	Short: "Deploy and operate a Torrust Tracker instance",
	Long: `tracker-deployer provisions a virtual machine, configures it with a
container runtime and orchestrator, and releases a Torrust Tracker stack
onto it, driving the environment through a single well-defined lifecycle
from creation to destruction.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("tracker-deployer version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().StringVar(&opts.workspaceRoot, "workspace", ".", "Workspace root containing data/ and build/")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output shape for command results (text, json)")
	rootCmd.PersistentFlags().StringVar(&opts.iacExecPath, "iac-exec-path", "tofu", "OpenTofu/Terraform-compatible binary to invoke")
	rootCmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics on this address (e.g. :9090) for the duration of the command")

	rootCmd.AddCommand(
		createCmd,
		provisionCmd,
		registerCmd,
		configureCmd,
		releaseCmd,
		runCmd,
		testCmd,
		destroyCmd,
		purgeCmd,
		showCmd,
		listCmd,
		existsCmd,
		validateCmd,
		renderCmd,
	)
}

func initLogging(cmd *cobra.Command, args []string) error {
	log.Init(log.Config{Level: log.Level(opts.logLevel), JSONOutput: opts.logJSON})
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(opts.metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Logger.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}
	return nil
}

// newRepository builds the repository rooted at the --workspace flag,
// shared by every subcommand that touches persisted environment state.
func newRepository() *repository.Repository {
	return repository.New(opts.workspaceRoot)
}

// newListener composes the console/log listener with the Prometheus
// metrics listener, so every command run both prints progress and
// updates tracker_deployer_commands_total/tracker_deployer_steps_total.
func newListener(component string) progress.Listener {
	return progress.MultiListener{
		progress.WithComponent(component),
		progress.MetricsListener{},
	}
}

