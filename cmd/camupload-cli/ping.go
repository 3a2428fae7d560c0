package main

import (
	"os"

	"github.com/sagarc03/camupload/clientcli"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server is ready",
	Long: `Send a GET request to the server and print its readiness message.

Exits non-zero when the server cannot be reached or does not answer 200.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func runPing(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	client, err := clientcli.New(cfg)
	if err != nil {
		return err
	}

	formatter := getFormatter()

	result, err := client.Ping(cmd.Context())
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	return formatter.FormatPing(os.Stdout, result)
}
