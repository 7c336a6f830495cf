package archiveutil

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// Undeb expands the filesystem payload of a .deb into the given path. A
// deb is an ar archive whose data.tar.{gz,xz,zst} member holds the files;
// the control members are skipped. This is how -dev packages are mined for
// headers when no source package is available.
func Undeb(ctx context.Context, fsys afero.Fs, r io.Reader, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	tr := ar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return errors.New("deb contains no data archive")
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}

		name := filepath.Clean(header.Name)
		if !strings.HasPrefix(name, "data.tar") {
			log.V(5).Info("skipping member", "name", name)
			continue
		}

		switch filepath.Ext(name) {
		case ".gz":
			return Guntar(ctx, fsys, tr, path)
		case ".xz":
			return XZuntar(ctx, fsys, tr, path)
		case ".zst":
			return Zuntar(ctx, fsys, tr, path)
		default:
			return errors.New("unknown or unsupported data archive: " + name)
		}
	}
}

// Unar expands an ar archive into the given path.
func Unar(ctx context.Context, fsys afero.Fs, r io.Reader, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	tr := ar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}

		target := filepath.Join(path, filepath.Clean("/"+header.Name))

		log.V(5).Info("creating file", "target", target, "mode", header.Mode)
		f, err := fsys.OpenFile(target, os.O_CREATE|os.O_RDWR, os.FileMode(header.Mode))
		if err != nil {
			log.Error(err, "failed to open file", "target", target)
			return err
		}

		if _, err := io.Copy(f, tr); err != nil {
			log.Error(err, "failed to extract file", "target", target)
			_ = f.Close()
			return err
		}
		_ = f.Close()
	}
}
