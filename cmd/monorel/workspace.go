package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/monorel/internal/config"
	"github.com/fbkclanna/monorel/internal/logging"
	"github.com/fbkclanna/monorel/internal/workspace"
)

// session bundles what every command needs from the workspace root.
type session struct {
	Config  config.Config
	Catalog *workspace.Catalog
	Log     zerolog.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	root, _ := cmd.Flags().GetString("root")
	log := newLogger(cmd)

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	c, err := workspace.Open(root, cfg.PackagesDir)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("root", c.Root).Int("units", len(c.Units())).Msg("workspace opened")
	return &session{Config: cfg, Catalog: c, Log: log}, nil
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	opts := logging.DefaultOptions()
	if verbose {
		opts.Level = zerolog.DebugLevel
	}
	return logging.New(cmd.ErrOrStderr(), opts)
}

// currentVersion returns the root project's version.
func (s *session) currentVersion() (string, error) {
	m, err := s.Catalog.LoadManifest(s.Catalog.RootUnit())
	if err != nil {
		return "", err
	}
	if m.Version == "" {
		return "", fmt.Errorf("root %s has no version", workspace.ManifestFile)
	}
	return m.Version, nil
}
