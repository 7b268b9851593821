package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:     "rm <name> [name...]",
	Aliases: []string{"delete"},
	Short:   "Delete files from the device",
	Long: `Delete one or more files from the device.

Examples:
  tinyweb-cli rm index.html
  tinyweb-cli rm a.txt b.txt c.txt
  tinyweb-cli rm -q old.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmd.Context(), clientcli.DeleteOptions{Names: args})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
