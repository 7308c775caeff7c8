package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/Shemnei/punktf/internal/profile"
)

func newProfileCommand(configPath *string) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect profiles",
	}
	profileCmd.AddCommand(newProfileShowCommand(configPath))
	return profileCmd
}

func newProfileShowCommand(configPath *string) *cobra.Command {
	flags := &SharedFlags{}
	var query string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective (post-layering) profile as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Config = *configPath
			return runProfileShow(flags, query)
		},
	}
	flags.register(cmd, false, false)
	cmd.Flags().StringVar(&query, "query", "", "extract a path from the effective profile with gjson syntax")
	return cmd
}

func runProfileShow(flags *SharedFlags, query string) error {
	cfg, source, _, profileName, err := flags.resolve()
	if err != nil {
		return withExitCode(ExitIoError, err)
	}
	log := flags.logger(cfg)

	prof, err := profile.Resolve(filepath.Join(source, "profiles"), profileName)
	if err != nil {
		return exitErr(err, log.Color)
	}

	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return withExitCode(ExitIoError, fmt.Errorf("marshal effective profile: %w", err))
	}

	if query == "" {
		fmt.Println(string(data))
		return nil
	}

	result := gjson.GetBytes(data, query)
	fmt.Println(result.String())
	return nil
}
