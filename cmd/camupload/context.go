package main

import (
	"github.com/spf13/cobra"

	"github.com/sagarc03/camupload/config"
)

// configFromCmd returns the configuration loaded by the root command's
// PersistentPreRunE.
func configFromCmd(cmd *cobra.Command) (*config.Config, error) {
	return config.FromContext(cmd.Context())
}
