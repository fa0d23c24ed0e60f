package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
)

// EnvReport summarizes a prepared importance map
type EnvReport struct {
	Width, Height int // environment image size
	Size          int // importance map resolution
	Levels        int
	Integral      float64
	Elapsed       time.Duration
}

// PrepareEnv builds the importance map for an environment image and reports it.
func PrepareEnv(ctx *cli.Context) error {
	setupLogging(ctx)

	filename := ctx.String("env")
	if filename == "" && ctx.NArg() == 1 {
		filename = ctx.Args().First()
	}
	if filename == "" {
		return errors.New("missing environment image argument")
	}

	report, err := PrepareEnvironment(context.Background(), filename, ctx.Float64("intensity"), ctx.Int("size"), ctx.Int("spp"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Environment", "Importance map", "Mip levels", "Integral", "Prepare time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", report.Width, report.Height),
		fmt.Sprintf("%dx%d", report.Size, report.Size),
		fmt.Sprintf("%d", report.Levels),
		fmt.Sprintf("%.6g", report.Integral),
		report.Elapsed.String(),
	})
	table.Render()
	logger.Noticef("importance map for %s\n%s", filename, buf.String())
	return nil
}

// PrepareEnvironment loads filename and builds its importance map
func PrepareEnvironment(ctx context.Context, filename string, intensity float64, size, spp int) (EnvReport, error) {
	if intensity == 0 {
		intensity = 1
	}
	env, err := loaders.LoadEnvironment(filename, intensity)
	if err != nil {
		return EnvReport{}, err
	}

	start := time.Now()
	m, err := envmap.Build(ctx, env, size, spp)
	if err != nil {
		return EnvReport{}, err
	}
	return EnvReport{
		Width:    env.Width,
		Height:   env.Height,
		Size:     m.Size(),
		Levels:   m.Levels(),
		Integral: m.Total(),
		Elapsed:  time.Since(start),
	}, nil
}
