package harvest

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// headerExtensions lists the file suffixes that survive a harvest.
var headerExtensions = []string{".h", ".hpp"}

// StripToHeaders copies every header file under buildDir into destDir,
// preserving relative paths and discarding everything else. It returns the
// number of files copied.
func StripToHeaders(ctx context.Context, fsys afero.Fs, buildDir, destDir string) (int, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("src", buildDir, "dst", destDir)

	var count int
	err := afero.Walk(fsys, buildDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !slices.Contains(headerExtensions, filepath.Ext(path)) {
			return nil
		}
		rel, err := filepath.Rel(buildDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, rel)
		if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
			log.Error(err, "failed to establish directory structure", "target", target)
			return err
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			log.Error(err, "failed to read header", "path", path)
			return err
		}
		if err := afero.WriteFile(fsys, target, data, 0644); err != nil {
			log.Error(err, "failed to write header", "target", target)
			return err
		}
		log.V(4).Info("copied header", "path", rel)
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info("harvested headers", "count", count)
	return count, nil
}
