// Command blendinspect prints the structure of .blend files: the header, the DNA
// catalog, the block table, data-block instances, meshes and pointer references.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	s := &settings{}

	return &cli.Command{
		Name:   "blendinspect",
		Usage:  "Inspect Blender .blend files",
		Flags:  s.flags(),
		Before: s.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			headerCmd(s),
			structsCmd(s),
			blocksCmd(s),
			instancesCmd(s),
			meshCmd(s),
			refsCmd(s),
		},
	}
}
