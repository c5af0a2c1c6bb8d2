package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/rackscape/pkg/observability"
)

// runCLI executes the root command with args and returns what the command
// wrote to its output stream. XDG directories point into temp dirs so no
// user config or cache is read.
func runCLI(t *testing.T, configure func(*CLI), args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	if configure != nil {
		configure(c)
	}
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeHallAssets writes a manifest with box templates and a 1U texture
// pair, and returns the manifest path.
func writeHallAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := `root = "."

[templates.cabinet]
box = [0.6, 2.0, 1.0]

[templates.device]
box = [0.5, 0.04, 0.8]

[templates.tile]
box = [2.0, 0.2, 2.0]

[textures]
sizes = [1]
`
	path := filepath.Join(dir, "assets.toml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "image"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, side := range []string{"front", "back"} {
		f, err := os.Create(filepath.Join(dir, "image", "1u_"+side+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	return path
}
