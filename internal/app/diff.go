package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shemnei/punktf/pkg/punktf"
)

func newDiffCommand(configPath *string) *cobra.Command {
	flags := &SharedFlags{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Render every dotfile and diff it against its current target",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Config = *configPath
			return runDiff(flags)
		},
	}
	flags.register(cmd, true, false)
	return cmd
}

func runDiff(flags *SharedFlags) error {
	cfg, source, target, profileName, err := flags.resolve()
	if err != nil {
		return withExitCode(ExitIoError, err)
	}
	log := flags.logger(cfg)

	diffs, err := punktf.Diff(punktf.Options{
		SourceRoot:  source,
		TargetRoot:  target,
		ProfileName: profileName,
		Print:       log.Print,
	})
	if err != nil {
		return exitErr(err, log.Color)
	}

	changed := 0
	for _, d := range diffs {
		if !d.Changed {
			continue
		}
		changed++
		fmt.Printf("--- %s\n", d.TargetPath)
		for _, line := range d.Lines {
			fmt.Println(line)
		}
	}
	if changed == 0 {
		log.Action("no differences")
	}
	return nil
}
