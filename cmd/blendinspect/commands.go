package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/arloliu/blend"
	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/datablock"
	"github.com/arloliu/blend/mesh"
	"github.com/arloliu/blend/view"
)

// withFile opens the file named by the first argument and closes it after fn.
func (s *settings) withFile(ctx context.Context, cmd *cli.Command, fn func(*blend.File, *view.Collector) error) error {
	path, err := pathArg(cmd)
	if err != nil {
		return err
	}
	f, diags, err := s.open(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(f, diags)
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)

	return tw.Flush()
}

type headerInfo struct {
	Version     int      `json:"version"`
	PointerSize int      `json:"pointer_size"`
	BigEndian   bool     `json:"big_endian"`
	Container   string   `json:"container"`
	Blocks      int      `json:"blocks"`
	Structs     int      `json:"structs"`
	Fingerprint string   `json:"fingerprint"`
	OffHeap     []string `json:"off_heap,omitempty"`
}

func headerCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "header",
		Usage:     "print the file header and container",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return s.withFile(ctx, cmd, func(f *blend.File, _ *view.Collector) error {
				h := f.Header()
				info := headerInfo{
					Version:     h.Version,
					PointerSize: h.PointerSize,
					BigEndian:   h.IsBigEndian(),
					Container:   f.Container().String(),
					Blocks:      len(f.Table().FileOrder()),
					Structs:     len(f.Catalog().Structs()),
					Fingerprint: fmt.Sprintf("%016x", f.Fingerprint()),
				}
				for _, idx := range f.Table().OffHeapIndices() {
					if st, ok := f.Catalog().StructAt(idx); ok {
						info.OffHeap = append(info.OffHeap, st.Name())
					}
				}

				return s.emit(cmd, info, func(w io.Writer) error {
					return table(w, "KEY\tVALUE", func(tw *tabwriter.Writer) {
						fmt.Fprintf(tw, "version\t%d\n", info.Version)
						fmt.Fprintf(tw, "pointer size\t%d\n", info.PointerSize)
						fmt.Fprintf(tw, "big endian\t%t\n", info.BigEndian)
						fmt.Fprintf(tw, "container\t%s\n", info.Container)
						fmt.Fprintf(tw, "blocks\t%d\n", info.Blocks)
						fmt.Fprintf(tw, "structs\t%d\n", info.Structs)
						fmt.Fprintf(tw, "fingerprint\t%s\n", info.Fingerprint)
						fmt.Fprintf(tw, "off-heap\t%s\n", strings.Join(info.OffHeap, ","))
					})
				})
			})
		},
	}
}

func structsCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "structs",
		Usage:     "list DNA structs, or describe the named ones",
		ArgsUsage: "FILE [STRUCT...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return s.withFile(ctx, cmd, func(f *blend.File, _ *view.Collector) error {
				names := cmd.Args().Slice()[1:]
				if len(names) == 0 {
					type structInfo struct {
						Name   string `json:"name"`
						Size   int    `json:"size"`
						Fields int    `json:"fields"`
					}
					list := make([]structInfo, 0, len(f.Catalog().Structs()))
					for _, st := range f.Catalog().Structs() {
						list = append(list, structInfo{Name: st.Name(), Size: st.Size(), Fields: len(st.Fields)})
					}

					return s.emit(cmd, list, func(w io.Writer) error {
						return table(w, "STRUCT\tSIZE\tFIELDS", func(tw *tabwriter.Writer) {
							for _, si := range list {
								fmt.Fprintf(tw, "%s\t%d\t%d\n", si.Name, si.Size, si.Fields)
							}
						})
					})
				}

				descs := make([]string, 0, len(names))
				for _, name := range names {
					d, err := f.DescribeStruct(name)
					if err != nil {
						return err
					}
					descs = append(descs, d)
				}

				return s.emit(cmd, descs, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, strings.Join(descs, "\n"))
					return err
				})
			})
		},
	}
}

type blockInfo struct {
	Code    string `json:"code"`
	Struct  string `json:"struct"`
	Address string `json:"address"`
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Count   int    `json:"count"`
	Label   string `json:"label,omitempty"`
}

func blocksCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Usage:     "list the block table in file order",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "code", Usage: "only blocks with this code, e.g. OB"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code := cmd.String("code")

			return s.withFile(ctx, cmd, func(f *blend.File, _ *view.Collector) error {
				var list []blockInfo
				for _, b := range f.Table().FileOrder() {
					if code != "" && b.Code.String() != code {
						continue
					}
					list = append(list, describeBlock(f, b))
				}

				return s.emit(cmd, list, func(w io.Writer) error {
					return table(w, "CODE\tSTRUCT\tADDRESS\tOFFSET\tSIZE\tCOUNT\tLABEL", func(tw *tabwriter.Writer) {
						for _, bi := range list {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
								bi.Code, bi.Struct, bi.Address, bi.Offset, bi.Size, bi.Count, bi.Label)
						}
					})
				})
			})
		},
	}
}

// describeBlock labels a block with the ID name of its first element when it has one.
func describeBlock(f *blend.File, b *block.Block) blockInfo {
	bi := blockInfo{
		Code:    b.Code.String(),
		Address: fmt.Sprintf("0x%x", b.Address),
		Offset:  b.Offset,
		Size:    b.Size,
		Count:   b.Count,
	}
	st, ok := f.Catalog().StructAt(b.StructIndex)
	if !ok {
		return bi
	}
	bi.Struct = st.Name()
	if !b.Code.IsMeta() && st.IsID() && b.Size >= st.Size() {
		bi.Label = datablock.IDOf(f.Context().ViewAt(st, b.Offset)).Name()
	}

	return bi
}

type instanceInfo struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Users   int    `json:"users"`
}

func instancesCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "instances",
		Usage:     "list data-block instances, optionally of one struct type",
		ArgsUsage: "FILE [TYPE]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return s.withFile(ctx, cmd, func(f *blend.File, _ *view.Collector) error {
				types := f.InstanceTypes()
				if cmd.Args().Len() > 1 {
					want := cmd.Args().Get(1)
					if !slices.Contains(types, want) {
						return cli.Exit(fmt.Sprintf("no instances of %q", want), 1)
					}
					types = []string{want}
				}

				var list []instanceInfo
				for _, typ := range types {
					for _, v := range f.Instances(typ) {
						id := datablock.IDOf(v)
						list = append(list, instanceInfo{
							Type:    typ,
							Name:    id.Name(),
							Address: fmt.Sprintf("0x%x", v.Address()),
							Users:   id.Users(),
						})
					}
				}

				return s.emit(cmd, list, func(w io.Writer) error {
					return table(w, "TYPE\tNAME\tADDRESS\tUSERS", func(tw *tabwriter.Writer) {
						for _, ii := range list {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ii.Type, ii.Name, ii.Address, ii.Users)
						}
					})
				})
			})
		},
	}
}

type meshInfo struct {
	Name        string   `json:"name"`
	Verts       int      `json:"verts"`
	Edges       int      `json:"edges"`
	Faces       int      `json:"faces"`
	Corners     int      `json:"corners"`
	UVs         bool     `json:"uvs"`
	Colors      bool     `json:"colors"`
	Materials   []string `json:"materials,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func meshCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "mesh",
		Usage:     "summarize meshes, optionally only the named one",
		ArgsUsage: "FILE [NAME]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			want := cmd.Args().Get(1)

			return s.withFile(ctx, cmd, func(f *blend.File, diags *view.Collector) error {
				var list []meshInfo
				for _, v := range f.Instances("Mesh") {
					m := mesh.New(v)
					if want != "" && m.Name() != want {
						continue
					}
					list = append(list, summarize(m, diags))
				}
				if want != "" && len(list) == 0 {
					return cli.Exit(fmt.Sprintf("no mesh named %q", want), 1)
				}

				return s.emit(cmd, list, func(w io.Writer) error {
					return table(w, "MESH\tVERTS\tEDGES\tFACES\tCORNERS\tUV\tCOLOR\tMATERIALS\tDIAGNOSTICS",
						func(tw *tabwriter.Writer) {
							for _, mi := range list {
								fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%t\t%t\t%s\t%d\n",
									mi.Name, mi.Verts, mi.Edges, mi.Faces, mi.Corners, mi.UVs, mi.Colors,
									strings.Join(mi.Materials, ","), len(mi.Diagnostics))
							}
						})
				})
			})
		},
	}
}

// summarize decodes the geometry of m, collecting the diagnostics it raises.
func summarize(m mesh.Mesh, diags *view.Collector) meshInfo {
	diags.Reset()
	mi := meshInfo{
		Name:    m.Name(),
		Verts:   m.VertCount(),
		Edges:   m.EdgeCount(),
		Faces:   m.FaceCount(),
		Corners: m.CornerCount(),
	}

	var failures []error
	if _, err := m.Positions(); err != nil {
		failures = append(failures, err)
	}
	if _, err := m.Faces(); err != nil {
		failures = append(failures, err)
	}
	uvs, err := m.UVs()
	if err != nil {
		failures = append(failures, err)
	}
	mi.UVs = len(uvs) > 0
	colors, err := m.Colors()
	if err != nil {
		failures = append(failures, err)
	}
	mi.Colors = len(colors) > 0

	mats, err := m.Materials()
	if err != nil {
		failures = append(failures, err)
	}
	for _, mat := range mats {
		if !mat.Valid() {
			mi.Materials = append(mi.Materials, "-")
			continue
		}
		mi.Materials = append(mi.Materials, mat.Name())
	}

	for _, d := range diags.Diagnostics() {
		mi.Diagnostics = append(mi.Diagnostics, d.Error())
	}
	if len(mi.Diagnostics) == 0 {
		for _, err := range failures {
			mi.Diagnostics = append(mi.Diagnostics, err.Error())
		}
	}

	return mi
}

type refInfo struct {
	Target    string `json:"target"`
	Reference string `json:"reference"`
	Owner     string `json:"owner"`
}

func refsCmd(s *settings) *cli.Command {
	return &cli.Command{
		Name:      "refs",
		Usage:     "list the pointers that refer to the named data-block",
		ArgsUsage: "FILE NAME",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return cli.Exit("refs: missing data-block name", 2)
			}
			want := cmd.Args().Get(1)

			return s.withFile(ctx, cmd, func(f *blend.File, _ *view.Collector) error {
				target, ok := findByName(f, want)
				if !ok {
					return cli.Exit(fmt.Sprintf("no data-block named %q", want), 1)
				}

				var list []refInfo
				for _, ref := range f.FindReferences(target) {
					list = append(list, refInfo{
						Target:    want,
						Reference: ref.String(),
						Owner:     ownerName(ref.Owner),
					})
				}

				return s.emit(cmd, list, func(w io.Writer) error {
					return table(w, "REFERENCE\tOWNER", func(tw *tabwriter.Writer) {
						for _, ri := range list {
							fmt.Fprintf(tw, "%s\t%s\n", ri.Reference, ri.Owner)
						}
					})
				})
			})
		},
	}
}

// findByName matches either the full ID name ("OBCube") or the name without its code.
func findByName(f *blend.File, name string) (view.View, bool) {
	for _, typ := range f.InstanceTypes() {
		for _, v := range f.Instances(typ) {
			id := datablock.IDOf(v)
			if id.RealName() == name || id.Name() == name {
				return v, true
			}
		}
	}

	return view.View{}, false
}

func ownerName(v view.View) string {
	if v.Struct() == nil || !v.Struct().IsID() {
		return ""
	}

	return datablock.IDOf(v).RealName()
}
