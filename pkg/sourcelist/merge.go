package sourcelist

import (
	"context"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/exp/maps"
)

// MergeAndInstall collapses the collected lines into a single canonical
// source list and installs it at target, removing the scattered originals.
// Deduplication is exact string equality only; the result is sorted so the
// output does not depend on directory enumeration order.
//
// The canonical content is staged to a sibling file and renamed over the
// target before any original is removed, so a failed write never leaves the
// host without repository definitions.
func MergeAndInstall(ctx context.Context, fsys afero.Fs, lines, originals []string, target string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("target", target)
	if len(lines) == 0 && len(originals) == 0 {
		log.Info("no legacy entries to merge")
		return nil
	}

	content := Merge(lines)

	staging := target + ".tmp-" + uuid.NewString()
	if err := afero.WriteFile(fsys, staging, []byte(content), 0644); err != nil {
		log.Error(err, "failed to stage canonical source list", "staging", staging)
		return err
	}
	if err := fsys.Rename(staging, target); err != nil {
		log.Error(err, "failed to install canonical source list", "staging", staging)
		_ = fsys.Remove(staging)
		return err
	}
	log.V(1).Info("installed canonical source list", "lines", len(lines))

	for _, path := range originals {
		if path == target {
			continue
		}
		if err := fsys.Remove(path); err != nil {
			log.Error(err, "failed to remove original source list", "path", path)
			return err
		}
		log.V(2).Info("removed original source list", "path", path)
	}
	return nil
}

// Merge returns the canonical file content for the given lines: exact
// duplicates collapsed, sorted, newline terminated.
func Merge(lines []string) string {
	set := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	merged := maps.Keys(set)
	sort.Strings(merged)

	var sb strings.Builder
	for _, l := range merged {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}
