// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/ik5/polysynth/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "polysynth.yaml"

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Long:  `Creates polysynth.yaml (or the given path) with every setting at its default. An existing file is left alone.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath
	if len(args) > 0 {
		path = args[0]
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
