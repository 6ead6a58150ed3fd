// Package config loads the release configuration of a workspace from
// monorel.yaml at the workspace root, with MONOREL_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = "monorel.yaml"

// Config holds the release configuration.
type Config struct {
	PackagesDir string         `mapstructure:"packages_dir"`
	Scope       string         `mapstructure:"scope"`
	Primary     string         `mapstructure:"primary"`
	Skip        []string       `mapstructure:"skip"`
	Record      string         `mapstructure:"record"`
	Registry    RegistryConfig `mapstructure:"registry"`
	Commands    CommandsConfig `mapstructure:"commands"`
	Git         GitConfig      `mapstructure:"git"`
}

// RegistryConfig selects the package manager used to publish.
type RegistryConfig struct {
	Client string `mapstructure:"client"`
	Access string `mapstructure:"access"`
}

// CommandsConfig holds the gated external steps, run from the workspace root.
type CommandsConfig struct {
	Test      []string `mapstructure:"test"`
	Build     []string `mapstructure:"build"`
	Changelog []string `mapstructure:"changelog"`
}

// GitConfig holds version control settings.
type GitConfig struct {
	Remote        string `mapstructure:"remote"`
	TagPrefix     string `mapstructure:"tag_prefix"`
	CommitMessage string `mapstructure:"commit_message"`
}

// Load reads configuration for the workspace at root. The file is optional;
// MONOREL_CONFIG points at an alternative file.
func Load(root string) (Config, error) {
	v := viper.New()

	v.SetDefault("packages_dir", "packages")
	v.SetDefault("scope", "")
	v.SetDefault("primary", "")
	v.SetDefault("skip", []string{})
	v.SetDefault("record", filepath.Join(".monorel", "last-release.yaml"))
	v.SetDefault("registry.client", "npm")
	v.SetDefault("registry.access", "public")
	v.SetDefault("commands.test", []string{"npm", "test"})
	v.SetDefault("commands.build", []string{"npm", "run", "build"})
	v.SetDefault("commands.changelog", []string{"npm", "run", "changelog"})
	v.SetDefault("git.remote", "origin")
	v.SetDefault("git.tag_prefix", "v")
	v.SetDefault("git.commit_message", "release: v%s")

	v.SetConfigType("yaml")
	cfgPath := os.Getenv("MONOREL_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(root, FileName)
	}
	v.SetConfigFile(cfgPath)

	v.SetEnvPrefix("MONOREL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", cfgPath, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch c.Registry.Client {
	case "npm", "yarn", "pnpm":
	default:
		return fmt.Errorf("config: registry.client must be npm, yarn, or pnpm (got %q)", c.Registry.Client)
	}
	if len(c.Commands.Test) == 0 || len(c.Commands.Build) == 0 || len(c.Commands.Changelog) == 0 {
		return fmt.Errorf("config: commands.test, commands.build and commands.changelog must not be empty")
	}
	if strings.Count(c.Git.CommitMessage, "%s") != 1 {
		return fmt.Errorf("config: git.commit_message must contain exactly one %%s (got %q)", c.Git.CommitMessage)
	}
	if c.Git.Remote == "" {
		return fmt.Errorf("config: git.remote is required")
	}
	return nil
}

// TagName returns the version control tag for a release version.
func (c Config) TagName(version string) string {
	return c.Git.TagPrefix + version
}

// CommitMessage returns the release commit message for version.
func (c Config) CommitMessage(version string) string {
	return fmt.Sprintf(c.Git.CommitMessage, version)
}

// RecordPath returns the absolute path of the release record.
func (c Config) RecordPath(root string) string {
	if filepath.IsAbs(c.Record) {
		return c.Record
	}
	return filepath.Join(root, c.Record)
}
