package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shemnei/punktf/internal/config"
	"github.com/Shemnei/punktf/internal/logging"
)

// SharedFlags holds the flags common to deploy/render/diff/verify/profile
// show, mirroring the teacher's SharedOptions grouping.
type SharedFlags struct {
	Source   string
	Target   string
	Profile  string
	DryRun   bool
	Yes      bool
	Stats    bool
	NoColor  bool
	Verbose  bool
	Quiet    bool
	Config   string
}

func (f *SharedFlags) register(cmd *cobra.Command, withTarget, withDryRun bool) {
	cmd.Flags().StringVar(&f.Source, "source", "", "source tree root (default: PUNKTF_SOURCE or config file)")
	cmd.Flags().StringVar(&f.Profile, "profile", "", "profile name (default: PUNKTF_PROFILE or config file)")
	if withTarget {
		cmd.Flags().StringVar(&f.Target, "target", "", "fallback target root (default: PUNKTF_TARGET or config file)")
	}
	if withDryRun {
		cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "compute the plan without writing anything")
	}
	cmd.Flags().BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().BoolVarP(&f.Quiet, "quiet", "q", false, "suppress non-error output")
}

func (f *SharedFlags) resolve() (*config.Config, string, string, string, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, "", "", "", err
	}
	source := config.ResolveSource(f.Source, cfg)
	profileName := config.ResolveProfile(f.Profile, cfg)
	target := config.ResolveTarget(f.Target, cfg)
	if source == "" {
		return cfg, "", "", "", fmt.Errorf("no source root given (use --source, $PUNKTF_SOURCE, or a config file)")
	}
	if profileName == "" {
		return cfg, "", "", "", fmt.Errorf("no profile given (use --profile, $PUNKTF_PROFILE, or a config file)")
	}
	return cfg, source, target, profileName, nil
}

func (f *SharedFlags) logger(cfg *config.Config) *logging.Logger {
	color := !f.NoColor && cfg.Color != "never"
	if color && cfg.Color != "always" {
		// auto: color only when stderr is a terminal and NO_COLOR is unset.
		info, err := os.Stderr.Stat()
		color = os.Getenv("NO_COLOR") == "" && err == nil && info.Mode()&os.ModeCharDevice != 0
	}
	return logging.New(color, f.Verbose || cfg.Verbose, f.Quiet || cfg.Quiet)
}

// NewRootCommand builds the full `punktf` cobra command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "punktf",
		Short:         "A multi-target dotfiles manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to an explicit config file")

	root.AddCommand(
		newDeployCommand(&configPath),
		newRenderCommand(&configPath),
		newDiffCommand(&configPath),
		newVerifyCommand(&configPath),
		newProfileCommand(&configPath),
		newManCommand(),
	)

	return root
}

// Execute runs the CLI and returns the process exit code it should use.
func Execute(version string) int {
	root := NewRootCommand(version)
	if err := root.Execute(); err != nil {
		if ec, ok := err.(exitCodeError); ok {
			fmt.Fprintln(os.Stderr, ec.Error())
			return ec.code
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitIoError
	}
	return ExitOK
}

// exitCodeError lets a command's RunE return both a message and the exact
// process exit code app.Execute should surface.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string { return e.err.Error() }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return exitCodeError{code: code, err: err}
}
