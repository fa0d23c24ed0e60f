package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-progressive-pathtracer/cmd"
	"github.com/df07/go-progressive-pathtracer/pkg/envmap"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	def := renderer.DefaultOptions()

	app := cli.NewApp()
	app.Name = "go-progressive-pathtracer"
	app.Usage = "render scenes with a progressive path tracer"
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
			Name:  "render",
			Usage: "render a scene progressively",
			Description: `
Render a built-in scene (see list-scenes) or a YAML scene file. Every frame
traces one path per pixel and is blended into the running mean.

The image and per-frame statistics are written as render_<id>.png and
render_<id>.json to the output directory or bucket URL.`,
			ArgsUsage: "[scene name or file.yaml]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "built-in scene name or path to a YAML scene",
				},
				cli.IntFlag{
					Name:  "frames, f",
					Usage: "number of frames to accumulate (default: scene setting)",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width (default: scene setting)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height (default: scene setting)",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: def.TileSize,
					Usage: "edge length of the pixel tiles handed to workers",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "parallel tile workers, 0 uses every CPU",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "output",
					Usage: "output directory or bucket URL (file://, mem://)",
				},
			},
			Action: cmd.RenderScene,
		},
		{
			Name:        "prepare-env",
			Usage:       "build the importance map for an environment image",
			Description: `Load a lat-long environment image and build its equal-area octahedral importance map.`,
			ArgsUsage:   "[image]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "env",
					Usage: "environment image (png or jpeg)",
				},
				cli.Float64Flag{
					Name:  "intensity",
					Value: 1.0,
					Usage: "radiance scale applied to the image",
				},
				cli.IntFlag{
					Name:  "size",
					Value: envmap.DefaultResolution,
					Usage: "importance map resolution (power of two)",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: envmap.DefaultSamplesPerTexel,
					Usage: "environment lookups per importance texel",
				},
			},
			Action: cmd.PrepareEnv,
		},
		{
			Name:  "list-scenes",
			Usage: "list built-in scenes and YAML scenes in a directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory to scan for YAML scenes",
				},
			},
			Action: cmd.ListScenes,
		},
	}
	return app
}
