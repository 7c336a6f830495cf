package release

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

const osReleasePath = "/etc/os-release"

// Info describes the running distribution, read from os-release.
type Info struct {
	// ID is the lowercase distribution id, e.g. "ubuntu" or "debian".
	ID string
	// Codename is the short release identifier, e.g. "jammy".
	Codename string
}

// Detect reads /etc/os-release and returns the distribution id and release
// codename. It fails when no codename can be determined; callers that know
// better should pass their own values instead.
func Detect(ctx context.Context, fsys afero.Fs) (Info, error) {
	log := logr.FromContextOrDiscard(ctx)

	f, err := fsys.Open(osReleasePath)
	if err != nil {
		log.Error(err, "failed to open os-release", "path", osReleasePath)
		return Info{}, err
	}
	defer f.Close()

	var info Info
	var ubuntuCodename string
	br := bufio.NewScanner(f)
	for br.Scan() {
		key, value, ok := strings.Cut(br.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case "ID":
			info.ID = value
		case "VERSION_CODENAME":
			info.Codename = value
		case "UBUNTU_CODENAME":
			ubuntuCodename = value
		}
	}
	if err := br.Err(); err != nil {
		log.Error(err, "failed to read os-release")
		return Info{}, err
	}

	// derivatives often omit VERSION_CODENAME but keep the ubuntu one
	if info.Codename == "" {
		info.Codename = ubuntuCodename
	}
	if info.Codename == "" {
		return Info{}, errors.New("could not determine release codename from os-release")
	}
	log.V(1).Info("detected release", "id", info.ID, "codename", info.Codename)
	return info, nil
}
