package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/embers/cmd"
	"github.com/urfave/cli"
)

func init() {
	// glfw must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	configFlag := cli.StringFlag{
		Name:  "config, c",
		Usage: "load settings from a yaml file",
	}

	app := cli.NewApp()
	app.Name = "embers"
	app.Usage = "animate particle trail effects on top of a 3D scene"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open the viewer and spawn effects with the bound keys",
			Description: `
Open an interactive view of the scene. Each bound key spawns one effect from
its preset; the arrow keys orbit the camera and PgUp/PgDn zoom. Press Esc to
quit.`,
			Flags: []cli.Flag{
				configFlag,
				cli.StringFlag{
					Name:  "host",
					Value: "gl",
					Usage: "render host to use (gl, term or headless)",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Usage: "seed for the effect random source; 0 uses the current time",
				},
				cli.StringFlag{
					Name:  "model, m",
					Usage: "background model (.obj or .zip, local path or http url)",
				},
				cli.IntFlag{
					Name:  "fps",
					Value: 60,
					Usage: "target frame rate",
				},
				cli.StringFlag{
					Name:  "log-file",
					Usage: "write logs to this file while the terminal host is active",
				},
			},
			Action: cmd.Run,
		},
		{
			Name:  "simulate",
			Usage: "run effects without a display and print statistics",
			Description: `
Drive the effect registry on a headless host for a fixed number of frames.
Spawns are specified as preset@frame; without any spawns every preset is
spawned once at the first frame.`,
			ArgsUsage: "",
			Flags: []cli.Flag{
				configFlag,
				cli.Uint64Flag{
					Name:  "frames, f",
					Value: 600,
					Usage: "number of frames to simulate",
				},
				cli.StringSliceFlag{
					Name:  "spawn, s",
					Value: &cli.StringSlice{},
					Usage: "spawn a preset at a frame (e.g. nova@10)",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Usage: "seed for the effect random source; 0 uses the current time",
				},
			},
			Action: cmd.Simulate,
		},
		{
			Name:   "effects",
			Usage:  "list effect presets and key bindings",
			Flags:  []cli.Flag{configFlag},
			Action: cmd.ListEffects,
		},
		{
			Name:      "model",
			Usage:     "display mesh and material statistics for a model",
			ArgsUsage: "model1.obj model2.zip ...",
			Action:    cmd.ModelInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
