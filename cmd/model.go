package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/achilleasa/embers/asset"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Parse one or more models and display mesh and material statistics.
func ModelInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx, "notice"); err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return errors.New("missing model file argument")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for idx := 0; idx < ctx.NArg(); idx++ {
		modelFile := ctx.Args().Get(idx)

		logger.Noticef("parsing model: %s", modelFile)
		start := time.Now()
		model, err := asset.LoadModelContext(runCtx, modelFile)
		if err != nil {
			return err
		}
		logger.Noticef("parsed %s in %d ms", modelFile, time.Since(start).Nanoseconds()/1e6)

		displayModelStats(model)
	}
	return nil
}

func displayModelStats(model *asset.Model) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Mesh", "Triangles", "Materials"})
	for _, mesh := range model.Meshes {
		used := make(map[int]bool)
		var names []string
		for _, face := range mesh.Faces {
			if used[face.Material] {
				continue
			}
			used[face.Material] = true
			if face.Material >= 0 && face.Material < len(model.Materials) {
				names = append(names, model.Materials[face.Material].Name)
			}
		}
		table.Append([]string{
			mesh.Name,
			fmt.Sprintf("%d", len(mesh.Faces)),
			strings.Join(names, ", "),
		})
	}

	bbox := model.BBox()
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", model.TriangleCount()),
		fmt.Sprintf("bbox (%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)",
			bbox[0][0], bbox[0][1], bbox[0][2], bbox[1][0], bbox[1][1], bbox[1][2]),
	})

	table.Render()
	logger.Noticef("model %q: %d mesh(es), %d material(s)\n%s", model.Name, len(model.Meshes), len(model.Materials), buf.String())
}
