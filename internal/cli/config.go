package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigFileName is the workspace config file looked up in the root.
const ConfigFileName = ".buildgraph.yaml"

// EnvPrefix prefixes the environment variables that override flags.
const EnvPrefix = "BUILDGRAPH"

// setup resolves the configuration and constructs the App before any
// command runs.
func (s *session) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := s.loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	a, err := app.NewApp(s.errW, cfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if s.configLoaded {
		a.Logger().Debug("Config file loaded.", "path", s.v.ConfigFileUsed())
	}
	s.app = a
	return nil
}

// loadConfig merges flags, environment and the config file. Flags set on the
// command line win over the environment, which wins over the file.
func (s *session) loadConfig(cmd *cobra.Command) (*app.Config, error) {
	v := s.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := v.GetString("root")
	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigFile(filepath.Join(root, ConfigFileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit != "" || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		s.configLoaded = true
	}

	rulePaths := stringList(v, "rule-classes")
	for i, p := range rulePaths {
		if !filepath.IsAbs(p) {
			rulePaths[i] = filepath.Join(root, p)
		}
	}

	cfg, err := app.NewConfig(app.Config{
		Root:            root,
		RuleClassPaths:  rulePaths,
		DeletedPackages: stringList(v, "deleted-packages"),
		BuildFileNames:  stringList(v, "build-file-names"),
		LogFormat:       v.GetString("log-format"),
		LogLevel:        v.GetString("log-level"),
		Workers:         v.GetInt("workers"),
		Output:          v.GetString("output"),
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList reads a list setting. Environment variables carry lists as one
// comma-separated string, so every element is split on commas and trimmed.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
