package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/clientcli"
)

var uploadDir bool

var uploadCmd = &cobra.Command{
	Use:     "put <local-path> [name]",
	Aliases: []string{"upload"},
	Short:   "Upload files to the device",
	Long: `Upload a file to the device. The name defaults to the lower-cased base
name of the local file. Files are write-once: uploading over a name that
already holds data fails with 409 Conflict.

With --dir, every regular file directly inside local-path is uploaded.

Examples:
  tinyweb-cli put ./index.html
  tinyweb-cli put ./build/main.js app.js
  tinyweb-cli put --dir ./dist`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadDir, "dir", "d", false, "upload every file in a directory")
}

func runUpload(cmd *cobra.Command, args []string) error {
	opts := clientcli.UploadOptions{
		LocalPath: args[0],
		Dir:       uploadDir,
	}
	if len(args) > 1 {
		opts.Name = args[1]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Upload(cmd.Context(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasUploadErrors(results) {
		return &exitError{code: 1}
	}
	return nil
}
