package cmd

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/achilleasa/embers/effect"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the configured effect presets and their key bindings.
func ListEffects(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	keys := make(map[string][]string)
	for key, preset := range cfg.Bindings {
		keys[preset] = append(keys[preset], key)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Preset", "Kind", "Keys", "Frames", "Parameters"})
	for _, name := range cfg.PresetNames() {
		presetKeys := keys[name]
		sort.Strings(presetKeys)
		frames, params := describeSpec(cfg.Effects[name])
		table.Append([]string{
			name,
			cfg.Effects[name].Kind.String(),
			fmt.Sprintf("%v", presetKeys),
			fmt.Sprintf("%d", frames),
			params,
		})
	}
	table.SetFooter([]string{"", "", "", "SOFT LIMIT", fmt.Sprintf("%d", cfg.SoftLimit)})
	table.Render()

	logger.Noticef("%d effect preset(s):\n%s", len(cfg.Effects), buf.String())
	return nil
}

func describeSpec(spec effect.Spec) (int, string) {
	def := effect.DefaultSpec(spec.Kind)
	switch spec.Kind {
	case effect.KindRingBurst:
		p := def.Ring
		if spec.Ring != nil {
			p = spec.Ring
		}
		return p.Frames, fmt.Sprintf("rings=%d segments=%d growth=%.3f jitter=%.3f", p.Rings, p.Segments, p.GrowthRate, p.Jitter)
	case effect.KindSpreadTrail, effect.KindThickSpreadTrail:
		p := def.Trail
		if spec.Trail != nil {
			p = spec.Trail
		}
		return p.Frames, fmt.Sprintf("particles=%d trail=%d damping=%.3f hue=%.2f", p.Particles, p.TrailLength, p.Damping, p.Hue)
	}
	return 0, ""
}
