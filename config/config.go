package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/camupload"
	camhttp "github.com/sagarc03/camupload/http"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CAMUPLOAD"

const redacted = "[redacted]"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for camupload.
type Config struct {
	Env     string             `mapstructure:"env" yaml:"env"`
	HTTP    HTTPConfig         `mapstructure:"http" yaml:"http"`
	Upload  UploadConfig       `mapstructure:"upload" yaml:"upload"`
	Metrics MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
	CORS    camhttp.CORSConfig `mapstructure:"cors" yaml:"cors"`
	Log     LogConfig          `mapstructure:"log" yaml:"log"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port         int           `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"min=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"min=0"`
	TrustProxy   bool          `mapstructure:"trust_proxy" yaml:"trust_proxy"`
}

// UploadConfig holds the upload target and the authentication settings.
type UploadConfig struct {
	Path            string `mapstructure:"path" yaml:"path" validate:"required"`
	Auth            string `mapstructure:"auth" yaml:"auth" validate:"required,oneof=token basic"`
	Token           string `mapstructure:"token" yaml:"token"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	Realm           string `mapstructure:"realm" yaml:"realm" validate:"required"`
	MaxSize         int64  `mapstructure:"max_size" yaml:"max_size" validate:"min=0"`
}

// AuthMode returns the parsed authentication strategy.
func (u UploadConfig) AuthMode() camupload.AuthMode {
	return camupload.AuthMode(u.Auth)
}

// MetricsConfig holds the Prometheus listener configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

// IsProd reports whether the environment asks for production logging.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Redacted returns a copy of c with secrets masked, suitable for printing.
func (c *Config) Redacted() Config {
	out := *c
	if out.Upload.Token != "" {
		out.Upload.Token = redacted
	}
	if out.Upload.Password != "" {
		out.Upload.Password = redacted
	}
	return out
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":        "http.port",
	"upload-path": "upload.path",
	"token":       "upload.token",
	"auth":        "upload.auth",
	"max-size":    "upload.max_size",
	"log-level":   "log.level",
	"metrics":     "metrics.enabled",
	"env":         "env",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Keys without
// a meaningful default are still registered so environment variables reach
// them through Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "")

	v.SetDefault("http.port", 9980)
	v.SetDefault("http.read_timeout", 60*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.trust_proxy", false)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	v.SetDefault("upload.path", cwd)
	v.SetDefault("upload.auth", "")
	v.SetDefault("upload.token", "")
	v.SetDefault("upload.username", "")
	v.SetDefault("upload.password", "")
	v.SetDefault("upload.credentials_file", "")
	v.SetDefault("upload.realm", "camupload")
	v.SetDefault("upload.max_size", 0) // 0 means no limit

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9981)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{})
	v.SetDefault("cors.allowed_headers", []string{})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 0)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
//
// Without configFiles, a camupload.<ext> file in the working directory is
// read if present, in any format viper supports.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else {
		v.SetConfigName("camupload")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Upload.Auth == "" {
		cfg.Upload.Auth = string(inferAuthMode(cfg.Upload))
	}

	// 6. Validate using go-playground/validator
	if err := newValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// inferAuthMode picks basic auth when a username is configured.
func inferAuthMode(u UploadConfig) camupload.AuthMode {
	if u.Username != "" {
		return camupload.AuthBasic
	}
	return camupload.AuthToken
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterStructValidation(validateUpload, UploadConfig{})
	return validate
}

// validateUpload requires a credential source for basic auth: either the
// username/password pair or a credentials file.
func validateUpload(sl validator.StructLevel) {
	u, ok := sl.Current().Interface().(UploadConfig)
	if !ok || u.AuthMode() != camupload.AuthBasic || u.CredentialsFile != "" {
		return
	}

	if u.Username == "" {
		sl.ReportError(u.Username, "Username", "username", "required_for_basic", "")
	}
	if u.Password == "" {
		sl.ReportError(u.Password, "Password", "password", "required_for_basic", "")
	}
}
