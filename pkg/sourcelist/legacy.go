package sourcelist

import (
	"bufio"
	"context"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// CollectLegacy scans one-line source lists and synthesizes the binary and
// source entries needed for the active release. A line is kept only when it
// is a plain "deb" entry whose final component is exactly "main" and whose
// suite belongs to the release; everything else is dropped. This is not a
// general APT parser: mixed component sets are intentionally ignored.
//
// An unreadable file is fatal. No files at all is fine - the host may be
// configured exclusively through deb822 files.
func CollectLegacy(ctx context.Context, fsys afero.Fs, paths []string, rel ReleaseContext) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx)
	if len(paths) == 0 {
		log.Info("no legacy source lists found, nothing to collect")
		return nil, nil
	}

	var out []string
	for _, path := range paths {
		lines, err := collectFile(ctx, fsys, path, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	log.V(1).Info("collected legacy entries", "files", len(paths), "lines", len(out))
	return out, nil
}

func collectFile(ctx context.Context, fsys afero.Fs, path string, rel ReleaseContext) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	f, err := fsys.Open(path)
	if err != nil {
		log.Error(err, "failed to open source list")
		return nil, err
	}
	defer f.Close()

	var out []string
	br := bufio.NewScanner(f)
	for br.Scan() {
		e := ParseEntry(br.Text())
		if e == nil || e.Type != TypeDeb {
			continue
		}
		if e.Components[len(e.Components)-1] != ComponentMain {
			continue
		}
		if !rel.MatchesSuite(e.Suite) {
			log.V(3).Info("skipping entry for foreign suite", "suite", e.Suite)
			continue
		}
		out = append(out, e.String(), e.Src().String())
	}
	if err := br.Err(); err != nil {
		log.Error(err, "failed to read source list")
		return nil, err
	}
	return out, nil
}
