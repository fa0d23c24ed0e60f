package cmd

import (
	"bytes"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// ListScenes prints the built-in scenes and any YAML scenes found in --dir.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	infos, err := AvailableScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Type", "Description"})
	for _, info := range infos {
		name := info.Name
		if info.FilePath != "" {
			name = info.FilePath
		}
		table.Append([]string{name, info.Type, info.Description})
	}
	table.Render()
	logger.Noticef("available scenes\n%s", buf.String())
	return nil
}

// AvailableScenes returns the built-in scenes followed by those in dir
func AvailableScenes(dir string) ([]scene.Info, error) {
	infos := scene.List()
	if dir == "" {
		return infos, nil
	}
	found, err := scene.Discover(dir)
	if err != nil {
		return nil, err
	}
	return append(infos, found...), nil
}
