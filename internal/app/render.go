package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shemnei/punktf/pkg/punktf"
)

func newRenderCommand(configPath *string) *cobra.Command {
	flags := &SharedFlags{}

	cmd := &cobra.Command{
		Use:   "render <template-relative-path>",
		Short: "Render a single dotfile and print the result to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Config = *configPath
			return runRender(flags, args[0])
		},
	}
	flags.register(cmd, false, false)
	return cmd
}

func runRender(flags *SharedFlags, relPath string) error {
	cfg, source, _, profileName, err := flags.resolve()
	if err != nil {
		return withExitCode(ExitIoError, err)
	}
	log := flags.logger(cfg)

	out, err := punktf.RenderOne(punktf.Options{
		SourceRoot:  source,
		ProfileName: profileName,
		Print:       log.Print,
	}, relPath)
	if err != nil {
		return exitErr(err, log.Color)
	}

	_, err = os.Stdout.Write(out)
	if err != nil {
		return withExitCode(ExitIoError, fmt.Errorf("write stdout: %w", err))
	}
	return nil
}
