package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/clientcli"
)

var (
	callData string
	callFile string
)

var callCmd = &cobra.Command{
	Use:   "call <method> <route>",
	Short: "Invoke a device API route",
	Long: `Invoke a route registered under /api/ and print its reply.

The body comes from --data, or from --file ("-" reads stdin).

Examples:
  tinyweb-cli call GET status
  tinyweb-cli call PUT /api/led --data on
  tinyweb-cli call POST echo --file message.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVarP(&callData, "data", "d", "", "request body")
	callCmd.Flags().StringVarP(&callFile, "file", "f", "", `read the request body from a file ("-" for stdin)`)
	callCmd.MarkFlagsMutuallyExclusive("data", "file")
}

func runCall(cmd *cobra.Command, args []string) error {
	body, err := callBody(cmd.InOrStdin())
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Call(cmd.Context(), clientcli.CallOptions{
		Method: args[0],
		Route:  args[1],
		Body:   body,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatCall(os.Stdout, result)
}

func callBody(stdin io.Reader) ([]byte, error) {
	switch callFile {
	case "":
		return []byte(callData), nil
	case "-":
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(callFile) //#nosec G304 -- callFile is user-provided input
	}
}
