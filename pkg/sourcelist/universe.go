package sourcelist

import (
	"context"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// EnableUniverse appends universe mirrors of the release's main-component
// entries to the given legacy source list. Ubuntu keeps many build
// dependencies in universe, so build-dep fails without this.
//
// The mirror line lists main last because the collector only keeps entries
// whose final component is main. Already-mirrored entries are skipped, so
// the fix-up is idempotent. A missing file is not an error.
func EnableUniverse(ctx context.Context, fsys afero.Fs, path string, rel ReleaseContext) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			log.V(1).Info("no legacy source list, skipping universe fix-up")
			return nil
		}
		log.Error(err, "failed to read source list")
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	existing := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		existing[strings.TrimSpace(l)] = struct{}{}
	}

	var added []string
	for _, line := range lines {
		e := ParseEntry(line)
		if e == nil || e.Type != TypeDeb || !rel.MatchesSuite(e.Suite) {
			continue
		}
		if e.Components[len(e.Components)-1] != ComponentMain {
			continue
		}
		mirror := Entry{
			Type:       TypeDeb,
			URL:        e.URL,
			Suite:      e.Suite,
			Components: []string{ComponentUniverse, ComponentMain},
		}
		s := mirror.String()
		if _, ok := existing[s]; ok {
			continue
		}
		existing[s] = struct{}{}
		added = append(added, s)
	}
	if len(added) == 0 {
		log.V(1).Info("universe already enabled")
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode()
	}
	content := strings.Join(append(lines, added...), "\n") + "\n"
	if err := afero.WriteFile(fsys, path, []byte(content), mode); err != nil {
		log.Error(err, "failed to write source list")
		return err
	}
	log.Info("enabled universe component", "entries", len(added))
	return nil
}
