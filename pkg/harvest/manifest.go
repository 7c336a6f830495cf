package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/gosimple/hashdir"
)

// ManifestName is the file written at the root of a harvested tree.
const ManifestName = "HARVEST"

// WriteManifest records a digest of the harvested tree so consumers can
// tell whether the staging directory has drifted since the harvest.
// hashdir walks the real filesystem, so dir must be an on-disk path.
func WriteManifest(ctx context.Context, dir string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("dir", dir)

	digest, err := hashdir.Make(dir, "sha256")
	if err != nil {
		log.Error(err, "failed to generate directory digest", "alg", "sha256")
		return err
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(fmt.Sprintf("sha256:%s\n", digest)), 0644); err != nil {
		log.Error(err, "failed to write manifest", "path", path)
		return err
	}
	log.V(1).Info("wrote manifest", "digest", digest)
	return nil
}
