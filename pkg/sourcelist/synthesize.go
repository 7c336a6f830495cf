package sourcelist

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// Options configure a synthesizer run.
type Options struct {
	// AptDir overrides the root of the APT configuration tree.
	// Defaults to /etc/apt.
	AptDir string
	// Distro is the distribution id (e.g. "ubuntu"). The universe
	// fix-up only runs on ubuntu.
	Distro string
}

func (o *Options) aptDir() string {
	if o.AptDir == "" {
		return AptDir
	}
	return o.AptDir
}

// Synthesize rewrites the host's repository configuration so that source
// packages for the active release can be fetched. It runs three stages in
// order: collect matching legacy entries, merge them into a single
// canonical list, then activate source fetching in deb822 files. Callers
// are expected to refresh the package metadata afterwards.
func Synthesize(ctx context.Context, fsys afero.Fs, rel ReleaseContext, opts Options) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("codename", rel.Codename)

	aptDir := opts.aptDir()
	target := filepath.Join(aptDir, legacyFile)
	partsDir := filepath.Join(aptDir, filepath.Base(SourcesListD))

	if opts.Distro == "ubuntu" {
		if err := EnableUniverse(ctx, fsys, target, rel); err != nil {
			return err
		}
	}

	listFiles, err := discover(fsys, []string{aptDir, partsDir}, extList)
	if err != nil {
		log.Error(err, "failed to enumerate legacy source lists")
		return err
	}
	lines, err := CollectLegacy(ctx, fsys, listFiles, rel)
	if err != nil {
		return err
	}
	if err := MergeAndInstall(ctx, fsys, lines, listFiles, target); err != nil {
		return err
	}

	sourceFiles, err := discover(fsys, []string{partsDir}, extSources)
	if err != nil {
		log.Error(err, "failed to enumerate deb822 source files")
		return err
	}
	return ActivateDeb822(ctx, fsys, sourceFiles, rel)
}

// discover lists the files directly under dirs with the given extension.
// Missing directories are skipped. Results are sorted so downstream stages
// behave identically regardless of enumeration order.
func discover(fsys afero.Fs, dirs []string, ext string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		infos, err := afero.ReadDir(fsys, dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, info := range infos {
			if info.IsDir() || !strings.HasSuffix(info.Name(), ext) {
				continue
			}
			out = append(out, filepath.Join(dir, info.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
