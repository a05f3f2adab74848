package cmd

import (
	"github.com/achilleasa/embers/log"
	"github.com/urfave/cli"
)

var logger = log.New("embers")

// Apply the configured log level and then let the -v/-vv flags raise it.
func setupLogging(ctx *cli.Context, configLevel string) error {
	level, err := log.ParseLevel(configLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
