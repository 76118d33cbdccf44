// Package config provides configuration management for the velos-iam CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Viper keys, also the names of the bound flags
const (
	KeyGcloudPath        = "gcloud-path"
	KeyCatalogFile       = "catalog-file"
	KeyLogLevel          = "log-level"
	KeyDeploymentName    = "deployment-name"
	KeyProjectID         = "project-id"
	KeyOrgID             = "org-id"
	KeyIgnoreIAMFailures = "ignore-iam-failures"
)

// EnvPrefix prefixes every environment variable, e.g. VELOS_IAM_PROJECT_ID
const EnvPrefix = "VELOS_IAM"

// SettableKeys are the keys `velos-iam config set` may persist
var SettableKeys = []string{KeyGcloudPath, KeyCatalogFile, KeyLogLevel, KeyProjectID, KeyOrgID}

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	GcloudPath  string `validate:"required"`
	CatalogFile string
	LogLevel    string `validate:"oneof=debug info warn error"`
	Deployment  DeploymentConfig
}

// DeploymentConfig is the raw deployment input; it is validated by the
// deployment package when a run starts
type DeploymentConfig struct {
	Name              string
	ProjectID         string
	OrgID             string
	IgnoreIAMFailures bool
}

var validate = validator.New()

// Init initializes viper with defaults and config file paths
func Init() error {
	// Set config file name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config file search paths
	viper.AddConfigPath("$HOME/.velos-iam")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault(KeyGcloudPath, "gcloud")
	viper.SetDefault(KeyCatalogFile, "")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyIgnoreIAMFailures, false)

	// Bind environment variables with prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	cfg := &Config{
		GcloudPath:  viper.GetString(KeyGcloudPath),
		CatalogFile: viper.GetString(KeyCatalogFile),
		LogLevel:    strings.ToLower(viper.GetString(KeyLogLevel)),
		Deployment: DeploymentConfig{
			Name:              viper.GetString(KeyDeploymentName),
			ProjectID:         viper.GetString(KeyProjectID),
			OrgID:             viper.GetString(KeyOrgID),
			IgnoreIAMFailures: viper.GetBool(KeyIgnoreIAMFailures),
		},
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "GcloudPath":
			msgs = append(msgs, "gcloud-path must not be empty")
		case "LogLevel":
			msgs = append(msgs, fmt.Sprintf("invalid log-level: %s (must be debug, info, warn, or error)", c.LogLevel))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Set stores a single settable key and persists it to the config file.
// Only SettableKeys are ever written; values that came from the environment
// or from flags stay out of the file.
func Set(key, value string) error {
	if !slices.Contains(SettableKeys, key) {
		return fmt.Errorf("unknown config key: %s (settable: %s)", key, strings.Join(SettableKeys, ", "))
	}

	viper.Set(key, value)
	if _, err := Load(); err != nil {
		return err
	}

	return persist(key, value)
}

// persist rewrites the config file with the settable keys it already holds
// plus key=value, creating $HOME/.velos-iam/config.yaml when no config file
// was found
func persist(key, value string) error {
	path := viper.ConfigFileUsed()

	stored := viper.New()
	if path != "" {
		stored.SetConfigFile(path)
		if err := stored.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	out := viper.New()
	out.SetConfigType("yaml")
	for _, k := range SettableKeys {
		if stored.IsSet(k) {
			out.Set(k, stored.Get(k))
		}
	}
	out.Set(key, value)

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir := filepath.Join(home, ".velos-iam")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := out.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	viper.SetConfigFile(path)
	return nil
}

// Display shows current config (for velos-iam config get)
func Display() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(not found)"
	}

	catalogFile := cfg.CatalogFile
	if catalogFile == "" {
		catalogFile = "(built-in)"
	}

	return fmt.Sprintf(`Configuration:
  gcloud-path:        %s
  catalog-file:       %s
  log-level:          %s

Deployment:
  project-id:         %s
  org-id:             %s

Sources:
  Config file:        %s
  Environment:        %s_*
  Flags:              (per command)
`,
		cfg.GcloudPath,
		catalogFile,
		cfg.LogLevel,
		orUnset(cfg.Deployment.ProjectID),
		orUnset(cfg.Deployment.OrgID),
		configFile,
		EnvPrefix,
	), nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
