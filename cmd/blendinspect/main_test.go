package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/blend/internal/fixture"
)

func writeScene(t *testing.T) string {
	t.Helper()

	b := fixture.New().BlenderLegacy()
	b.Block("OB", "Object", 0x1000, 1, b.Record("Object", 1).ID(0, "id", "OBRoot").Int(0, "id.us", 1).Bytes())
	child := b.Record("Object", 1).ID(0, "id", "OBCube").Int(0, "type", 1).
		Ptr(0, "parent", 0x1000).Ptr(0, "data", 0x2000)
	b.Block("OB", "Object", 0x1400, 1, child.Bytes())
	b.Block("ME", "Mesh", 0x2000, 1, b.Record("Mesh", 1).ID(0, "id", "MECube").Int(0, "totvert", 8).Bytes())

	path := filepath.Join(t.TempDir(), "scene.blend")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	// A config path that does not exist keeps the user's config out of the run.
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	err := app.Run(context.Background(), append([]string{"blendinspect", "--config", cfg}, args...))

	return out.String(), err
}

func TestHeaderCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "header", path)
	require.NoError(t, err)
	require.Contains(t, out, "pointer size")
	require.Contains(t, out, "container")

	out, err = run(t, "--json", "header", path)
	require.NoError(t, err)
	var info headerInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, 8, info.PointerSize)
	require.Equal(t, 405, info.Version)
	require.False(t, info.BigEndian)
	require.Equal(t, "None", info.Container)
}

func TestInstancesCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "--json", "instances", path, "Object")
	require.NoError(t, err)
	var list []instanceInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	require.Equal(t, "Root", list[0].Name)
	require.Equal(t, 1, list[0].Users)
	require.Equal(t, "0x1400", list[1].Address)

	_, err = run(t, "instances", path, "Lamp")
	require.Error(t, err)
}

func TestBlocksCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "--json", "blocks", "--code", "OB", path)
	require.NoError(t, err)
	var list []blockInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	require.Equal(t, "Object", list[0].Struct)
	require.Equal(t, "Cube", list[1].Label)
}

func TestStructsCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "structs", path)
	require.NoError(t, err)
	require.Contains(t, out, "Object")

	out, err = run(t, "structs", path, "MLoop")
	require.NoError(t, err)
	require.Contains(t, out, "struct MLoop")

	_, err = run(t, "structs", path, "NoSuchStruct")
	require.Error(t, err)
}

func TestMeshCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "--json", "mesh", path, "Cube")
	require.NoError(t, err)
	var list []meshInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Cube", list[0].Name)
	require.Equal(t, 8, list[0].Verts)

	_, err = run(t, "mesh", path, "Sphere")
	require.Error(t, err)
}

func TestRefsCommand(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "--json", "refs", path, "OBRoot")
	require.NoError(t, err)
	var list []refInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Object[0].parent", list[0].Reference)
	require.Equal(t, "OBCube", list[0].Owner)

	_, err = run(t, "refs", path)
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := writeScene(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("json: true\nlog_level: error\n"), 0o600))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	require.NoError(t, app.Run(context.Background(), []string{"blendinspect", "--config", cfg, "header", path}))

	var info headerInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	require.Equal(t, 8, info.PointerSize)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "header")
	require.Error(t, err)

	_, err = run(t, "header", filepath.Join(t.TempDir(), "missing.blend"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
