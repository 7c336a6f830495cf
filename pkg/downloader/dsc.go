package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/djcass44/aptprep/pkg/archiveutil"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
	"pault.ag/go/debian/control"
)

// DSC is the subset of a Debian source control file needed to fetch the
// archives that make up a source package.
type DSC struct {
	Source  string
	Version string
	Files   []string `delim:"\n" strip:" "`
}

// ReadDSC decodes a source control file.
func ReadDSC(r io.Reader) (*DSC, error) {
	dec, err := control.NewDecoder(r, nil)
	if err != nil {
		return nil, err
	}
	var dsc DSC
	if err := dec.Decode(&dsc); err != nil {
		return nil, err
	}
	return &dsc, nil
}

// FetchSource downloads the .dsc at src plus every archive it references,
// then unpacks the archives into workDir. It is the fallback used when
// apt-get cannot fetch the source package directly (e.g. no deb-src mirror
// reachable); referenced files are resolved relative to the .dsc location,
// the way dget does it.
func (d *Downloader) FetchSource(ctx context.Context, fsys afero.Fs, src, workDir string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("src", src)

	dscPath, err := d.Download(ctx, src)
	if err != nil {
		return err
	}
	f, err := os.Open(dscPath)
	if err != nil {
		log.Error(err, "failed to open source control file", "path", dscPath)
		return err
	}
	dsc, err := ReadDSC(f)
	_ = f.Close()
	if err != nil {
		log.Error(err, "failed to decode source control file", "path", dscPath)
		return err
	}
	log.Info("fetching source package", "name", dsc.Source, "version", dsc.Version, "files", len(dsc.Files))

	base := src
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		base = src[:i]
	}
	for _, entry := range dsc.Files {
		// each entry is "<md5> <size> <filename>"
		fields := strings.Fields(entry)
		if len(fields) != 3 {
			continue
		}
		name := fields[2]
		if strings.HasSuffix(name, ".dsc") {
			continue
		}
		path, err := d.Download(ctx, base+"/"+name)
		if err != nil {
			return err
		}
		if err := unpack(ctx, fsys, path, workDir); err != nil {
			return err
		}
	}
	return nil
}

func unpack(ctx context.Context, fsys afero.Fs, path, workDir string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	f, err := os.Open(path)
	if err != nil {
		log.Error(err, "failed to open archive")
		return err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".gz":
		return archiveutil.Guntar(ctx, fsys, f, workDir)
	case ".xz":
		return archiveutil.XZuntar(ctx, fsys, f, workDir)
	case ".zst":
		return archiveutil.Zuntar(ctx, fsys, f, workDir)
	case ".deb":
		return archiveutil.Undeb(ctx, fsys, f, workDir)
	default:
		return fmt.Errorf("unknown or unsupported archive: %s", filepath.Base(path))
	}
}
