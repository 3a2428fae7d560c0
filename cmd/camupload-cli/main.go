package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sagarc03/camupload/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	token      string
	username   string
	password   string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "camupload-cli",
	Version: version,
	Short:   "Client for the camupload image server",
	Long: `camupload-cli pushes JPEG images to a camupload server the way a
network camera does, and checks whether a server is ready.

Settings are merged from the profile file, environment variables
(CAMUPLOAD_ENDPOINT, CAMUPLOAD_TOKEN, CAMUPLOAD_USERNAME, CAMUPLOAD_PASSWORD,
CAMUPLOAD_SITE, CAMUPLOAD_CAMERA) and flags, in that order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "profile file (default: ~/.camupload/client.yaml, env: CAMUPLOAD_CLIENT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (default: the default profile, env: CAMUPLOAD_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:9980, env: CAMUPLOAD_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "upload token (env: CAMUPLOAD_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "basic auth username (env: CAMUPLOAD_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "basic auth password (env: CAMUPLOAD_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the profile file path from the flag, the
// environment, or the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the profile file, env vars, and flags
// (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	profileName := profile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}
	explicit := cfgFile != "" || profileName != ""

	// 1. Load from profile file
	if configPath := getConfigPath(); configPath != "" {
		file, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, profileErr := file.GetProfile(profileName)
			if profileErr != nil && (profileName != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles)) {
				return nil, profileErr
			}
			if p != nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		case explicit:
			// Only error if the user asked for a file or profile
			return nil, fmt.Errorf("load profiles: %w", err)
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		Token:    token,
		Username: username,
		Password: password,
	})

	// Merge all configs
	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}
