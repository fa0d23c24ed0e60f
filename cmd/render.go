package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// RenderOptions overrides parts of a scene's render settings. Zero values
// keep the scene's own setting.
type RenderOptions struct {
	Scene    string
	Frames   int
	Width    int
	Height   int
	TileSize int
	Workers  int
	Out      string
}

// RenderResult is what a render wrote
type RenderResult struct {
	ID    string
	Stats renderer.RunStats
}

// RenderScene renders a scene progressively and writes the result.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := RenderOptions{
		Scene:    ctx.String("scene"),
		Frames:   ctx.Int("frames"),
		Width:    ctx.Int("width"),
		Height:   ctx.Int("height"),
		TileSize: ctx.Int("tile-size"),
		Workers:  ctx.Int("workers"),
		Out:      ctx.String("out"),
	}
	if opts.Scene == "" && ctx.NArg() == 1 {
		opts.Scene = ctx.Args().First()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := Render(runCtx, opts)
	if err != nil && errors.Cause(err) != renderer.ErrInterrupted {
		return err
	}

	displayFrameStats(res.Stats)
	if res.ID != "" {
		logger.Noticef("render %s written to %s", res.ID, opts.Out)
	}
	return nil
}

// Render builds the scene named by opts.Scene, accumulates the requested
// frames and writes the image and stats to opts.Out. If ctx is cancelled the
// frames rendered so far are still written, and the ErrInterrupted error is
// returned alongside the result.
func Render(ctx context.Context, opts RenderOptions) (RenderResult, error) {
	if opts.Scene == "" {
		return RenderResult{}, errors.New("missing scene name or file")
	}
	cfg, err := scene.Resolve(opts.Scene)
	if err != nil {
		return RenderResult{}, err
	}
	applyOverrides(cfg, opts)

	s, err := cfg.Build(ctx)
	if err != nil {
		return RenderResult{}, err
	}

	p, err := renderer.NewProgressive(s.World, &s.Camera, s.Options)
	if err != nil {
		return RenderResult{}, err
	}

	frames, runErr := p.Run(ctx, s.Frames, func(fs renderer.FrameStats) {
		logger.Infof("frame %d/%d in %v", fs.Frame+1, s.Frames, fs.Duration())
	})
	if runErr != nil && errors.Cause(runErr) != renderer.ErrInterrupted {
		return RenderResult{}, runErr
	}
	if len(frames) == 0 {
		return RenderResult{}, runErr
	}

	res := RenderResult{Stats: renderer.Summarize(s.Options.Width, s.Options.Height, frames)}

	url, err := bucketURL(opts.Out)
	if err != nil {
		return res, err
	}
	// The output is written even after an interrupt
	sink, err := loaders.OpenSink(context.Background(), url)
	if err != nil {
		return res, err
	}
	defer sink.Close()

	res.ID, err = sink.WriteRender(context.Background(), p.Image(), res.Stats)
	if err != nil {
		return res, err
	}
	return res, runErr
}

func applyOverrides(cfg *scene.Config, opts RenderOptions) {
	if opts.Frames > 0 {
		cfg.Render.Frames = opts.Frames
	}
	if opts.Width > 0 {
		cfg.Render.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Render.Height = opts.Height
	}
	if opts.TileSize > 0 {
		cfg.Render.TileSize = opts.TileSize
	}
	if opts.Workers > 0 {
		cfg.Render.Workers = opts.Workers
	}
}

// bucketURL turns a plain directory into a file:// bucket URL, creating it
// if needed. Anything with a scheme is returned unchanged.
func bucketURL(out string) (string, error) {
	if out == "" {
		out = "output"
	}
	if strings.Contains(out, "://") {
		return out, nil
	}
	dir, err := filepath.Abs(out)
	if err != nil {
		return "", errors.Wrapf(err, "resolving output dir %q", out)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating output dir %q", dir)
	}
	return "file://" + filepath.ToSlash(dir), nil
}

func displayFrameStats(stats renderer.RunStats) {
	if len(stats.Frames) == 0 {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Seed", "Factor", "Pixels", "Skipped", "Mean luminance", "Render time"})
	for _, f := range stats.Frames {
		table.Append([]string{
			fmt.Sprintf("%d", f.Frame),
			fmt.Sprintf("%d", f.Seed),
			fmt.Sprintf("%.4f", f.AccumulationFactor),
			fmt.Sprintf("%d", f.Pixels),
			fmt.Sprintf("%d", f.Skipped),
			fmt.Sprintf("%.4f", f.MeanLuminance),
			fmt.Sprintf("%.1fms", f.DurationMS),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height), "", "", "", "TOTAL",
		fmt.Sprintf("%.4f", stats.MeanLuminance),
		fmt.Sprintf("%.1fms", stats.TotalMS),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
