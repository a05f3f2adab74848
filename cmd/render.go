package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/achilleasa/embers/app"
	"github.com/achilleasa/embers/config"
	"github.com/achilleasa/embers/effect"
	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

var errInvalidSpawn = errors.New("invalid spawn argument")

// Open the viewer and spawn effects on key presses.
func Run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	// The terminal host owns the tty; keep log output away from it.
	if cfg.Host == config.HostTerminal {
		sink, closeSink, err := terminalLogSink(ctx.String("log-file"))
		if err != nil {
			return err
		}
		log.SetSink(sink)
		defer func() {
			log.SetSink(os.Stdout)
			closeSink()
		}()
	}

	host, err := renderer.New(cfg.Host, app.HostOptions(cfg))
	if err != nil {
		return err
	}
	defer host.Close()

	appCtx, err := app.New(cfg, host)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Model.Path != "" {
		appCtx.LoadModelAsync(runCtx, cfg.Model.Path)
	}

	logger.Noticef("starting %s host; %s", cfg.Host, strings.TrimSpace(keyHelp(cfg)))
	err = appCtx.Run(runCtx)
	host.Close()
	if cfg.Host == config.HostTerminal {
		log.SetSink(os.Stdout)
	}

	displayFrameStats(host.Stats(), appCtx.Registry().Stats())
	return err
}

func terminalLogSink(logFile string) (io.Writer, func(), error) {
	if logFile == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func keyHelp(cfg *config.Config) string {
	var sb strings.Builder
	for _, preset := range cfg.PresetNames() {
		for key, bound := range cfg.Bindings {
			if bound == preset {
				fmt.Fprintf(&sb, "[%s] %s ", key, preset)
			}
		}
	}
	return sb.String()
}

// Run effects on a headless host for a fixed number of frames and report
// registry and frame statistics.
func Simulate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	frames := ctx.Uint64("frames")
	if frames == 0 {
		return errors.New("frames must be positive")
	}

	spawns, err := parseSpawns(ctx.StringSlice("spawn"))
	if err != nil {
		return err
	}
	if len(spawns) == 0 {
		// Fire every preset once at the first frame
		for _, name := range cfg.PresetNames() {
			spawns = append(spawns, spawnArg{preset: name, frame: 1})
		}
	}
	for _, s := range spawns {
		if _, exists := cfg.Effects[s.preset]; !exists {
			return fmt.Errorf("%w: %q", app.ErrUnknownPreset, s.preset)
		}
	}

	opts := app.HostOptions(cfg)
	opts.FPS = 0
	opts.MaxFrames = frames
	host := renderer.NewHeadless(opts)
	defer host.Close()

	appCtx, err := app.New(cfg, host)
	if err != nil {
		return err
	}
	for _, s := range spawns {
		appCtx.Schedule(s.preset, s.frame)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("simulating %d frames with %d scheduled spawns", frames, len(spawns))
	if err = appCtx.Run(runCtx); err != nil {
		return err
	}
	if n := appCtx.SpawnErrors(); n != 0 {
		logger.Warningf("%d spawns failed", n)
	}

	displayFrameStats(host.Stats(), appCtx.Registry().Stats())
	return nil
}

type spawnArg struct {
	preset string
	frame  uint64
}

// Parse "preset@frame" arguments. Each argument may also hold a comma
// separated list. A missing frame defaults to 1.
func parseSpawns(args []string) ([]spawnArg, error) {
	var out []spawnArg
	for _, arg := range args {
		for _, item := range strings.Split(arg, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}

			preset, frameStr, hasFrame := strings.Cut(item, "@")
			if preset == "" {
				return nil, fmt.Errorf("%w: %q is missing a preset name", errInvalidSpawn, item)
			}
			s := spawnArg{preset: preset, frame: 1}
			if hasFrame {
				frame, err := strconv.ParseUint(frameStr, 10, 64)
				if err != nil || frame == 0 {
					return nil, fmt.Errorf("%w: %q has an invalid frame number", errInvalidSpawn, item)
				}
				s.frame = frame
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func displayFrameStats(stats renderer.FrameStats, regStats effect.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frames", "Spawned", "Evicted", "Peak live", "Avg frame time", "Max frame time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Frames),
		fmt.Sprintf("%d", regStats.Spawned),
		fmt.Sprintf("%d", regStats.Evicted),
		fmt.Sprintf("%d", regStats.Peak),
		stats.AvgFrameTime.String(),
		stats.MaxFrameTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "UPTIME", stats.Uptime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
