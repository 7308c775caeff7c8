package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shemnei/punktf/internal/deploy"
	"github.com/Shemnei/punktf/pkg/punktf"
)

func newVerifyCommand(configPath *string) *cobra.Command {
	flags := &SharedFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Dry-run a deployment and report whether it would change anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Config = *configPath
			return runVerify(flags)
		},
	}
	flags.register(cmd, true, false)
	return cmd
}

func runVerify(flags *SharedFlags) error {
	cfg, source, target, profileName, err := flags.resolve()
	if err != nil {
		return withExitCode(ExitIoError, err)
	}
	log := flags.logger(cfg)

	pending, result, err := punktf.Verify(punktf.Options{
		SourceRoot:  source,
		TargetRoot:  target,
		ProfileName: profileName,
		Print:       log.Print,
	})
	if err != nil {
		return exitErr(err, log.Color)
	}

	if !pending {
		log.Action("up to date: no pending changes")
		return nil
	}

	for _, step := range result.Plan.Steps {
		switch step.Action {
		case deploy.ActionCreate, deploy.ActionOverwrite, deploy.ActionSymlink:
			log.Action("%s %s -> %s", step.Action, step.SourcePath, step.TargetPath)
		}
	}
	return withExitCode(ExitVerifyPending, fmt.Errorf("deployment has pending changes"))
}
