package main

import (
	"context"
	"strings"
	"sync"

	"glossa/internal/blob"
	"glossa/internal/config"
	"glossa/internal/ingest"
	"glossa/internal/logging"
	"glossa/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// withStore opens the catalog for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withIngestor opens the full ingest dependency chain for the duration of fn.
func (c *commandContext) withIngestor(ctx context.Context, fn func(*config.Config, *store.Store, blob.Store, *ingest.Ingestor) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		blobs, err := blob.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer blobs.Close()
		ingestor := ingest.NewIngestor(cfg, st, blobs, logging.NewNop())
		return fn(cfg, st, blobs, ingestor)
	})
}
