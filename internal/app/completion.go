package app

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "man <output-dir>",
		Short: "Generate man pages into the given directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return withExitCode(ExitIoError, err)
			}
			header := &doc.GenManHeader{Title: "PUNKTF", Section: "1"}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return withExitCode(ExitIoError, err)
			}
			return nil
		},
	}
}
