// Package config provides configuration loading and validation for camupload.
//
// The package handles configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right, or
//     camupload.<ext> from the working directory when none are given
//  3. Environment variables (CAMUPLOAD_ prefix)
//  4. CLI flags
//
// Any format viper reads is accepted, including Java-style .properties:
//
//	upload.path = /srv/images
//	upload.token = s3cret
//	http.port = 9980
//
// # Usage
//
//	cfg, err := config.Load([]string{"camupload.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with CAMUPLOAD_ prefix:
//   - http.port → CAMUPLOAD_HTTP_PORT
//   - upload.path → CAMUPLOAD_UPLOAD_PATH
//   - upload.token → CAMUPLOAD_UPLOAD_TOKEN
//
// # Authentication
//
// upload.auth selects token or basic. When it is unset, basic is chosen if
// upload.username is set and token otherwise. Basic auth needs either
// upload.username and upload.password or upload.credentials_file.
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Ports must be 1-65535
//   - upload.auth must be token or basic
//   - upload.max_size and the HTTP timeouts must not be negative
//   - Log level must be debug, info, warn, or error
package config
