package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camupload/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "camupload",
	Short:   "Image upload server for network cameras",
	Long: `camupload accepts JPEG images pushed by network cameras over HTTP POST
and stores them below the upload path as

  <site>/<camera>/YYYY/MM/DD/HH/YYYYMMDD-HHMMSS-uuuuuu.jpg

Running camupload without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	RunE: runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceP("config", "c", nil, "config file path, repeatable; later files override earlier ones (default: ./camupload.*)")
	flags.Int("port", 9980, "HTTP server port (env: CAMUPLOAD_HTTP_PORT)")
	flags.String("upload-path", "", "directory images are stored below (default: working directory, env: CAMUPLOAD_UPLOAD_PATH)")
	flags.String("auth", "", "authentication strategy: token or basic (env: CAMUPLOAD_UPLOAD_AUTH)")
	flags.String("token", "", "upload token for the token strategy (env: CAMUPLOAD_UPLOAD_TOKEN)")
	flags.Int64("max-size", 0, "maximum image size in bytes, 0 for no limit (env: CAMUPLOAD_UPLOAD_MAX_SIZE)")
	flags.Bool("metrics", false, "serve Prometheus metrics on metrics.port (env: CAMUPLOAD_METRICS_ENABLED)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env: CAMUPLOAD_LOG_LEVEL)")
	flags.String("env", "", "environment; prod or production switches to JSON logs (env: CAMUPLOAD_ENV)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
