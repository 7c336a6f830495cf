package cmd

import (
	"context"

	"github.com/djcass44/aptprep/pkg/release"
	"github.com/djcass44/aptprep/pkg/sourcelist"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "rewrite apt sources so source packages can be fetched",
	RunE:  enable,
}

const (
	flagAptDir   = "apt-dir"
	flagCodename = "codename"
	flagDistro   = "distro"
)

func init() {
	enableCmd.Flags().String(flagAptDir, sourcelist.AptDir, "root of the apt configuration tree")
	enableCmd.Flags().String(flagCodename, "", "release codename (defaults to the running system)")
	enableCmd.Flags().String(flagDistro, "", "distribution id (defaults to the running system)")

	_ = enableCmd.MarkFlagDirname(flagAptDir)
}

func enable(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	aptDir, _ := cmd.Flags().GetString(flagAptDir)
	codename, _ := cmd.Flags().GetString(flagCodename)
	distro, _ := cmd.Flags().GetString(flagDistro)

	fsys := afero.NewOsFs()
	rel, distro, err := resolveRelease(cmd.Context(), fsys, codename, distro)
	if err != nil {
		return err
	}

	if err := sourcelist.Synthesize(cmd.Context(), fsys, rel, sourcelist.Options{AptDir: aptDir, Distro: distro}); err != nil {
		return err
	}
	log.Info("apt sources rewritten", "codename", rel.Codename)
	log.Info("run 'apt-get update' to refresh the package metadata")
	return nil
}

// resolveRelease fills in the codename and distro from os-release unless
// both were supplied by the caller.
func resolveRelease(ctx context.Context, fsys afero.Fs, codename, distro string) (sourcelist.ReleaseContext, string, error) {
	if codename != "" && distro != "" {
		return sourcelist.ReleaseContext{Codename: codename}, distro, nil
	}
	info, err := release.Detect(ctx, fsys)
	if err != nil {
		return sourcelist.ReleaseContext{}, "", err
	}
	if codename == "" {
		codename = info.Codename
	}
	if distro == "" {
		distro = info.ID
	}
	return sourcelist.ReleaseContext{Codename: codename}, distro, nil
}
