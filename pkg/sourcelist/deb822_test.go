package sourcelist

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ubuntuSources = `Types: deb
URIs: http://archive.example/ubuntu
Suites: jammy jammy-updates
Components: main universe

Types: deb
URIs: http://security.example/ubuntu
Suites: jammy-security
Components: main universe
`

func TestActivateDeb822(t *testing.T) {
	ctx := testContext(t)
	rel := ReleaseContext{Codename: "jammy"}
	const path = "/etc/apt/sources.list.d/ubuntu.sources"

	t.Run("matching file is activated", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(ubuntuSources), 0644))

		err := ActivateDeb822(ctx, fsys, []string{path}, rel)
		assert.NoError(t, err)

		data, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		// one stanza declares the codename, so the whole file flips
		assert.Equal(t, `Types: deb deb-src
URIs: http://archive.example/ubuntu
Suites: jammy jammy-updates
Components: main universe

Types: deb deb-src
URIs: http://security.example/ubuntu
Suites: jammy-security
Components: main universe
`, string(data))
	})

	t.Run("activation is idempotent", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(ubuntuSources), 0644))

		require.NoError(t, ActivateDeb822(ctx, fsys, []string{path}, rel))
		once, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)

		require.NoError(t, ActivateDeb822(ctx, fsys, []string{path}, rel))
		twice, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)

		assert.Equal(t, string(once), string(twice))
	})

	t.Run("already enabled file is untouched", func(t *testing.T) {
		content := "Types: deb deb-src\nURIs: http://archive.example/ubuntu\nSuites: jammy\nComponents: main\n"
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))

		err := ActivateDeb822(ctx, fsys, []string{path}, rel)
		assert.NoError(t, err)

		data, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("foreign release is untouched", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(ubuntuSources), 0644))

		err := ActivateDeb822(ctx, fsys, []string{path}, ReleaseContext{Codename: "focal"})
		assert.NoError(t, err)

		data, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, ubuntuSources, string(data))
	})

	t.Run("codename must be a whole token", func(t *testing.T) {
		content := "Types: deb\nURIs: http://archive.example/ubuntu\nSuites: jammy-proposed\nComponents: main\n"
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))

		err := ActivateDeb822(ctx, fsys, []string{path}, rel)
		assert.NoError(t, err)

		data, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("lowercase field names are honoured", func(t *testing.T) {
		content := "types: deb\nuris: http://archive.example/ubuntu\nsuites: jammy\ncomponents: main\n"
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))

		err := ActivateDeb822(ctx, fsys, []string{path}, rel)
		assert.NoError(t, err)

		data, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, "types: deb deb-src\nuris: http://archive.example/ubuntu\nsuites: jammy\ncomponents: main\n", string(data))
	})

	t.Run("no files is not an error", func(t *testing.T) {
		assert.NoError(t, ActivateDeb822(ctx, afero.NewMemMapFs(), nil, rel))
	})
}

func TestEnableTypesLine(t *testing.T) {
	var cases = []struct {
		in      string
		out     string
		changed bool
	}{
		{"Types: deb", "Types: deb deb-src", true},
		{"Types:deb", "Types: deb deb-src", true},
		{"Types:  deb", "Types:  deb deb-src", true},
		{"Types: deb deb-src", "Types: deb deb-src", false},
		{"Types: deb-src", "Types: deb-src", false},
		{"Suites: deb", "Suites: deb", false},
		{"URIs: http://archive.example/ubuntu", "URIs: http://archive.example/ubuntu", false},
		{"", "", false},
	}

	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			out, changed := enableTypesLine(tt.in)
			assert.Equal(t, tt.out, out)
			assert.Equal(t, tt.changed, changed)
		})
	}
}
