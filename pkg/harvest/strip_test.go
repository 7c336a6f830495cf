package harvest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripToHeaders(t *testing.T) {
	ctx := testContext(t)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/pulseaudio-16.1/src/pulse/def.h", []byte("#define PA_OK 1\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/work/pulseaudio-16.1/src/pulse/context.c", []byte("int main(void) {}\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/work/pulseaudio-16.1/src/pulsecore/core.h", []byte("struct pa_core;\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/work/pulseaudio-16.1/configure.ac", []byte("AC_INIT\n"), 0644))

	count, err := StripToHeaders(ctx, fsys, "/work/pulseaudio-16.1", "/out")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := afero.ReadFile(fsys, "/out/src/pulse/def.h")
	require.NoError(t, err)
	assert.Equal(t, "#define PA_OK 1\n", string(data))

	ok, err := afero.Exists(fsys, "/out/src/pulse/context.c")
	require.NoError(t, err)
	assert.False(t, ok, "non-header files must be stripped")

	ok, err = afero.Exists(fsys, "/out/configure.ac")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteManifest(t *testing.T) {
	ctx := testContext(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "def.h"), []byte("#define PA_OK 1\n"), 0644))

	err := WriteManifest(ctx, dir)
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sha256:")
}
