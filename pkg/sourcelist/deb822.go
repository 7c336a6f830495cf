package sourcelist

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// ActivateDeb822 enables source fetching in deb822 .sources files. A file is
// matched when any of its Suites fields names the active codename; in a
// matched file every plain "Types: deb" field is rewritten to "deb deb-src".
//
// Matching is deliberately file-scoped rather than stanza-scoped: one
// matching stanza flips the Types fields of the whole file. Other tooling
// relies on this coarse granularity, so keep it.
//
// All other bytes are preserved, and a second run is a no-op.
func ActivateDeb822(ctx context.Context, fsys afero.Fs, paths []string, rel ReleaseContext) error {
	log := logr.FromContextOrDiscard(ctx)
	if len(paths) == 0 {
		log.Info("no deb822 source files found, nothing to activate")
		return nil
	}

	for _, path := range paths {
		changed, err := activateFile(ctx, fsys, path, rel)
		if err != nil {
			return err
		}
		if changed {
			log.Info("enabled source fetching", "path", path)
		}
	}
	return nil
}

func activateFile(ctx context.Context, fsys afero.Fs, path string, rel ReleaseContext) (bool, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		log.Error(err, "failed to read deb822 source file")
		return false, err
	}

	lines := strings.Split(string(data), "\n")
	if !declaresRelease(lines, rel) {
		log.V(2).Info("file does not declare the active release")
		return false, nil
	}

	var changed bool
	for i, line := range lines {
		out, ok := enableTypesLine(line)
		if ok {
			lines[i] = out
			changed = true
		}
	}
	if !changed {
		// already fully enabled, or no plain deb stanza at all
		return false, nil
	}

	mode := os.FileMode(0644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := afero.WriteFile(fsys, path, []byte(strings.Join(lines, "\n")), mode); err != nil {
		log.Error(err, "failed to write deb822 source file")
		return false, err
	}
	return true, nil
}

// declaresRelease reports whether any Suites field contains the codename as
// a whitespace-delimited token. Field names are case-insensitive in deb822.
func declaresRelease(lines []string, rel ReleaseContext) bool {
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "Suites") {
			continue
		}
		if slices.Contains(strings.Fields(value), rel.Codename) {
			return true
		}
	}
	return false
}

// enableTypesLine rewrites a "Types: deb" field to "Types: deb deb-src",
// preserving the original key spelling and spacing. Any other line, including
// Types fields that already carry deb-src, is returned unchanged.
func enableTypesLine(line string) (string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(key), "Types") {
		return line, false
	}
	if strings.TrimSpace(value) != TypeDeb {
		return line, false
	}
	ws := value[:len(value)-len(strings.TrimLeft(value, " \t"))]
	if ws == "" {
		ws = " "
	}
	return key + ":" + ws + TypeDeb + " " + TypeDebSrc, true
}
