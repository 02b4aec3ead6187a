package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/spindle/core"
)

// writeFile creates a file with parent directories under dir.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLock(t *testing.T) {
	t.Parallel()

	t.Run("single component with one mounted file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		module := []byte("module bytes M")
		asset := []byte("asset bytes A")
		modulePath := writeFile(t, dir, "app.wasm", module)
		writeFile(t, dir, filepath.Join("mount", "assets", "a.txt"), asset)

		app := &core.Application{
			Name: "demo",
			Components: []core.Component{{
				ID:     "web",
				Source: core.ContentRef{Source: modulePath},
				Files: []core.ContentPath{{
					Content: core.ContentRef{Source: filepath.Join(dir, "mount")},
				}},
			}},
		}

		locked, layers, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)

		require.Len(t, layers, 2)
		assert.Equal(t, core.MediaTypeWasmLayer, layers[0].MediaType)
		assert.Equal(t, digest.FromBytes(module), layers[0].Digest)
		assert.Equal(t, core.MediaTypeDataLayer, layers[1].MediaType)
		assert.Equal(t, digest.FromBytes(asset), layers[1].Digest)

		require.Len(t, locked.Components, 1)
		c := locked.Components[0]
		assert.Empty(t, c.Source.Source)
		assert.Equal(t, digest.FromBytes(module), c.Source.Digest)
		require.Len(t, c.Files, 1)
		assert.Equal(t, "assets/a.txt", c.Files[0].Path)
		assert.Empty(t, c.Files[0].Content.Source)
		assert.Equal(t, digest.FromBytes(asset), c.Files[0].Content.Digest)
	})

	t.Run("byte-identical files share one layer", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		same := []byte("identical content")
		writeFile(t, dir, filepath.Join("m1", "a.txt"), same)
		writeFile(t, dir, filepath.Join("m2", "nested", "b.txt"), same)
		mod1 := writeFile(t, dir, "one.wasm", []byte("module one"))
		mod2 := writeFile(t, dir, "two.wasm", []byte("module two"))

		app := &core.Application{
			Name: "demo",
			Components: []core.Component{
				{
					ID:     "one",
					Source: core.ContentRef{Source: mod1},
					Files:  []core.ContentPath{{Content: core.ContentRef{Source: filepath.Join(dir, "m1")}}},
				},
				{
					ID:     "two",
					Source: core.ContentRef{Source: mod2},
					Files:  []core.ContentPath{{Content: core.ContentRef{Source: filepath.Join(dir, "m2")}}},
				},
			},
		}

		locked, layers, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)

		// Two modules plus one shared data layer.
		require.Len(t, layers, 3)
		counts := make(map[digest.Digest]int)
		for _, l := range layers {
			counts[l.Digest]++
		}
		for d, n := range counts {
			assert.Equal(t, 1, n, "digest %s appears more than once", d)
		}

		// Both components still carry their own file entry.
		assert.Equal(t, "a.txt", locked.Components[0].Files[0].Path)
		assert.Equal(t, "nested/b.txt", locked.Components[1].Files[0].Path)
		assert.Equal(t, locked.Components[0].Files[0].Content.Digest, locked.Components[1].Files[0].Content.Digest)
	})

	t.Run("empty mount directory yields zero file entries", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		mod := writeFile(t, dir, "app.wasm", []byte("module"))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

		app := &core.Application{
			Components: []core.Component{{
				ID:     "web",
				Source: core.ContentRef{Source: mod},
				Files:  []core.ContentPath{{Content: core.ContentRef{Source: filepath.Join(dir, "empty")}}},
			}},
		}

		locked, layers, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)
		assert.Len(t, layers, 1)
		assert.Empty(t, locked.Components[0].Files)
	})

	t.Run("symlinks and directories are skipped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		mod := writeFile(t, dir, "app.wasm", []byte("module"))
		target := writeFile(t, dir, filepath.Join("mount", "real.txt"), []byte("real"))
		require.NoError(t, os.Symlink(target, filepath.Join(dir, "mount", "link.txt")))

		app := &core.Application{
			Components: []core.Component{{
				ID:     "web",
				Source: core.ContentRef{Source: mod},
				Files:  []core.ContentPath{{Content: core.ContentRef{Source: filepath.Join(dir, "mount")}}},
			}},
		}

		locked, _, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)
		require.Len(t, locked.Components[0].Files, 1)
		assert.Equal(t, "real.txt", locked.Components[0].Files[0].Path)
	})

	t.Run("missing module source fails", func(t *testing.T) {
		t.Parallel()

		app := &core.Application{
			Components: []core.Component{{ID: "web"}},
		}

		_, _, err := NewBuilder(nil).Lock(app)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrMissingSource)
		assert.Contains(t, err.Error(), "web")
	})

	t.Run("missing mount source fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		mod := writeFile(t, dir, "app.wasm", []byte("module"))

		app := &core.Application{
			Components: []core.Component{{
				ID:     "web",
				Source: core.ContentRef{Source: mod},
				Files:  []core.ContentPath{{Content: core.ContentRef{Digest: digest.FromString("x")}}},
			}},
		}

		_, _, err := NewBuilder(nil).Lock(app)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrMissingSource)
	})

	t.Run("origin metadata is stripped", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		mod := writeFile(t, dir, "app.wasm", []byte("module"))

		app := &core.Application{
			Components: []core.Component{{ID: "web", Source: core.ContentRef{Source: mod}}},
			Metadata: map[string]string{
				core.MetadataKeyOrigin: "/home/dev/app",
				"description":          "demo app",
			},
		}

		locked, _, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)
		assert.NotContains(t, locked.Metadata, core.MetadataKeyOrigin)
		assert.Equal(t, "demo app", locked.Metadata["description"])

		// The input definition keeps its metadata.
		assert.Contains(t, app.Metadata, core.MetadataKeyOrigin)
	})

	t.Run("input application is not mutated", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		modulePath := writeFile(t, dir, "app.wasm", []byte("module"))
		writeFile(t, dir, filepath.Join("mount", "a.txt"), []byte("a"))

		app := &core.Application{
			Components: []core.Component{{
				ID:     "web",
				Source: core.ContentRef{Source: modulePath},
				Files:  []core.ContentPath{{Content: core.ContentRef{Source: filepath.Join(dir, "mount")}}},
			}},
		}

		_, _, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)
		assert.Equal(t, modulePath, app.Components[0].Source.Source)
		assert.Empty(t, app.Components[0].Source.Digest)
		assert.Equal(t, filepath.Join(dir, "mount"), app.Components[0].Files[0].Content.Source)
	})

	t.Run("locked bundle carries name, version and schema", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		mod := writeFile(t, dir, "app.wasm", []byte("module"))

		app := &core.Application{
			Name:       "demo",
			Version:    "0.3.0",
			Components: []core.Component{{ID: "web", Source: core.ContentRef{Source: mod}}},
		}

		locked, _, err := NewBuilder(nil).Lock(app)
		require.NoError(t, err)
		assert.Equal(t, 1, locked.SchemaVersion)
		assert.Equal(t, "demo", locked.Name)
		assert.Equal(t, "0.3.0", locked.Version)
	})
}
