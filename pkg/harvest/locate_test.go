package harvest

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	return logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
}

func TestLocateBuildTree(t *testing.T) {
	ctx := testContext(t)

	t.Run("single tree", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/work/pulseaudio-16.1", 0755))

		out, err := LocateBuildTree(ctx, fsys, "/work", "pulseaudio")
		assert.NoError(t, err)
		assert.Equal(t, "/work/pulseaudio-16.1", out)
	})

	t.Run("newest version wins", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/work/pulseaudio-15.99.1", 0755))
		require.NoError(t, fsys.MkdirAll("/work/pulseaudio-16.1", 0755))
		require.NoError(t, fsys.MkdirAll("/work/pulseaudio-16.0", 0755))

		out, err := LocateBuildTree(ctx, fsys, "/work", "pulseaudio")
		assert.NoError(t, err)
		assert.Equal(t, "/work/pulseaudio-16.1", out)
	})

	t.Run("unrelated entries are ignored", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/work/pulseaudio-16.1", 0755))
		require.NoError(t, fsys.MkdirAll("/work/pipewire-0.3.48", 0755))
		require.NoError(t, afero.WriteFile(fsys, "/work/pulseaudio_16.1.orig.tar.xz", []byte("tar"), 0644))

		out, err := LocateBuildTree(ctx, fsys, "/work", "pulseaudio")
		assert.NoError(t, err)
		assert.Equal(t, "/work/pulseaudio-16.1", out)
	})

	t.Run("no tree is an error", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/work", 0755))

		_, err := LocateBuildTree(ctx, fsys, "/work", "pulseaudio")
		assert.Error(t, err)
	})
}
