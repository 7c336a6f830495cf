package harvest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	version "github.com/knqyf263/go-deb-version"
	"github.com/spf13/afero"
)

// LocateBuildTree finds the extracted source tree for the given package
// under dir. apt-get source names the tree "<package>-<upstream version>";
// when several versions have been fetched over time the newest one wins.
func LocateBuildTree(ctx context.Context, fsys afero.Fs, dir, pkg string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("dir", dir, "pkg", pkg)

	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		log.Error(err, "failed to read work directory")
		return "", err
	}

	var best string
	var bestVersion version.Version
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		raw, ok := strings.CutPrefix(info.Name(), pkg+"-")
		if !ok {
			continue
		}
		v, err := version.NewVersion(raw)
		if err != nil {
			log.V(2).Info("skipping directory with unparseable version", "name", info.Name())
			continue
		}
		if best == "" || v.GreaterThan(bestVersion) {
			best = info.Name()
			bestVersion = v
		}
	}
	if best == "" {
		return "", fmt.Errorf("no build tree found for package: %s", pkg)
	}
	log.V(1).Info("located build tree", "name", best, "version", bestVersion.String())
	return filepath.Join(dir, best), nil
}
