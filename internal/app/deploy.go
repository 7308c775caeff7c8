package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shemnei/punktf/internal/deploy"
	"github.com/Shemnei/punktf/internal/diagnostic"
	"github.com/Shemnei/punktf/pkg/punktf"
)

func newDeployCommand(configPath *string) *cobra.Command {
	flags := &SharedFlags{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a profile's dotfiles to the target directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Config = *configPath
			return runDeploy(flags)
		},
	}
	flags.register(cmd, true, true)
	cmd.Flags().BoolVar(&flags.Yes, "yes", false, "answer yes to every merge=ask prompt non-interactively")
	cmd.Flags().BoolVar(&flags.Stats, "stats", false, "print descriptive statistics over rendered file sizes")
	return cmd
}

func runDeploy(flags *SharedFlags) error {
	cfg, source, target, profileName, err := flags.resolve()
	if err != nil {
		return withExitCode(ExitIoError, err)
	}
	log := flags.logger(cfg)
	runID := RunID()
	log.Debug("run %s: deploying profile %q from %q", runID, profileName, source)

	ask := func(path string) bool {
		if flags.Yes {
			return true
		}
		return promptYesNo(fmt.Sprintf("overwrite %q?", path))
	}

	result, err := punktf.Deploy(punktf.Options{
		SourceRoot:  source,
		TargetRoot:  target,
		ProfileName: profileName,
		DryRun:      flags.DryRun,
		Ask:         ask,
		Print:       log.Print,
		RunHooks:    true,
	})
	if err != nil {
		return exitErr(err, log.Color)
	}

	for _, step := range result.Plan.Steps {
		switch step.Action {
		case deploy.ActionCreate, deploy.ActionOverwrite, deploy.ActionSymlink:
			log.Action("%s %s -> %s", step.Action, step.SourcePath, step.TargetPath)
		default:
			log.Debug("%s %s", step.Action, step.TargetPath)
		}
	}

	var sizes []float64
	for _, step := range result.Plan.Steps {
		if step.Content != nil {
			sizes = append(sizes, float64(len(step.Content)))
		}
	}
	fmt.Print(FormatSummary(runID, result.Summary, sizes, flags.Stats))

	return nil
}

// exitErr maps a diagnostic-carrying error to the right process exit code,
// rendering the full span report (SPEC_FULL.md §4.4) in place of the bare
// "Kind: Hint" line whenever the diagnostic carries a Source.
func exitErr(err error, color bool) error {
	if d, ok := err.(*diagnostic.Diagnostic); ok {
		return withExitCode(ExitCodeFor(d.Kind), errors.New(d.Report(color)))
	}
	return withExitCode(ExitIoError, err)
}

func promptYesNo(question string) bool {
	fmt.Fprintf(os.Stdout, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
