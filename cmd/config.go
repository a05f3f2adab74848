package cmd

import (
	"github.com/achilleasa/embers/config"
	"github.com/urfave/cli"
)

// Load the config file selected by the --config flag (or the defaults),
// apply command line overrides and set up logging.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet("host") {
		cfg.Host = ctx.String("host")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("model") {
		cfg.Model.Path = ctx.String("model")
	}
	if ctx.IsSet("fps") {
		cfg.FPS = ctx.Int("fps")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogging(ctx, cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}
