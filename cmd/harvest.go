package cmd

import (
	"fmt"
	"os"

	"github.com/djcass44/aptprep/cmd/cache"
	aptv1 "github.com/djcass44/aptprep/pkg/api/v1"
	"github.com/djcass44/aptprep/pkg/aptrunner"
	"github.com/djcass44/aptprep/pkg/downloader"
	"github.com/djcass44/aptprep/pkg/envutil"
	"github.com/djcass44/aptprep/pkg/harvest"
	"github.com/djcass44/aptprep/pkg/sourcelist"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "fetch a source package and harvest its headers",
	RunE:  runHarvest,
}

const (
	flagConfig       = "config"
	flagOutputDir    = "output-dir"
	flagPackage      = "package"
	flagWorkDir      = "work-dir"
	flagDsc          = "dsc"
	flagSkipBuildDep = "skip-build-dep"

	defaultPackage = "pulseaudio"
)

func init() {
	harvestCmd.Flags().StringP(flagConfig, "c", "", "path to a harvest configuration file")
	harvestCmd.Flags().StringP(flagOutputDir, "d", "", "staging directory the headers end up in")
	harvestCmd.Flags().String(flagPackage, "", "source package to harvest")
	harvestCmd.Flags().String(flagWorkDir, "", "directory the source package is extracted into")
	harvestCmd.Flags().String(flagDsc, "", "fetch the source from this .dsc url instead of apt-get")
	harvestCmd.Flags().Bool(flagSkipBuildDep, false, "skip installing build dependencies")
	harvestCmd.Flags().String(flagAptDir, sourcelist.AptDir, "root of the apt configuration tree")
	harvestCmd.Flags().String(flagCodename, "", "release codename (defaults to the running system)")
	harvestCmd.Flags().String(flagDistro, "", "distribution id (defaults to the running system)")

	_ = harvestCmd.MarkFlagFilename(flagConfig, ".yaml", ".yml")
	_ = harvestCmd.MarkFlagDirname(flagOutputDir)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	spec, err := harvestSpec(cmd)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	rel, distro, err := resolveRelease(cmd.Context(), fsys, spec.Codename, spec.Distro)
	if err != nil {
		return err
	}

	// stage one: make sure the package sources are fetchable at all
	if err := sourcelist.Synthesize(cmd.Context(), fsys, rel, sourcelist.Options{AptDir: spec.AptDir, Distro: distro}); err != nil {
		return err
	}

	workDir := spec.WorkDir
	if workDir == "" {
		workDir, err = os.MkdirTemp("", fmt.Sprintf("%s-src-*", spec.Package))
		if err != nil {
			return err
		}
		log.V(1).Info("prepared work directory", "path", workDir)
	}

	// stage two: fetch and extract the source package
	if spec.DscURL != "" {
		dl, err := downloader.NewDownloader(cache.Dir(""))
		if err != nil {
			return err
		}
		if err := dl.FetchSource(cmd.Context(), fsys, spec.DscURL, workDir); err != nil {
			return err
		}
	} else {
		runner := aptrunner.New(workDir)
		if err := runner.Update(cmd.Context()); err != nil {
			return err
		}
		if !spec.SkipBuildDep {
			if err := runner.BuildDep(cmd.Context(), spec.Package); err != nil {
				return err
			}
		}
		if err := runner.Source(cmd.Context(), spec.Package); err != nil {
			return err
		}
	}

	// stage three: strip the build tree down to its headers
	tree, err := harvest.LocateBuildTree(cmd.Context(), fsys, workDir, spec.Package)
	if err != nil {
		return err
	}
	count, err := harvest.StripToHeaders(cmd.Context(), fsys, tree, spec.OutputDir)
	if err != nil {
		return err
	}
	if err := harvest.WriteManifest(cmd.Context(), spec.OutputDir); err != nil {
		return err
	}

	log.Info("harvest complete", "pkg", spec.Package, "headers", count, "dir", spec.OutputDir)
	return nil
}

// harvestSpec merges the optional configuration file with the command line;
// flags win over file values.
func harvestSpec(cmd *cobra.Command) (aptv1.HarvestSpec, error) {
	var spec aptv1.HarvestSpec

	if configPath, _ := cmd.Flags().GetString(flagConfig); configPath != "" {
		cfg, err := readConfig(configPath)
		if err != nil {
			return aptv1.HarvestSpec{}, err
		}
		spec = cfg.Spec
	}

	setIfSet := func(flag string, dst *string) {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	setIfSet(flagPackage, &spec.Package)
	setIfSet(flagOutputDir, &spec.OutputDir)
	setIfSet(flagWorkDir, &spec.WorkDir)
	setIfSet(flagDsc, &spec.DscURL)
	setIfSet(flagCodename, &spec.Codename)
	setIfSet(flagDistro, &spec.Distro)
	if cmd.Flags().Changed(flagAptDir) {
		spec.AptDir, _ = cmd.Flags().GetString(flagAptDir)
	}
	if v, _ := cmd.Flags().GetBool(flagSkipBuildDep); v {
		spec.SkipBuildDep = true
	}

	spec.Package = envutil.Expand(spec.Package)
	spec.AptDir = envutil.Expand(spec.AptDir)
	spec.WorkDir = envutil.Expand(spec.WorkDir)
	spec.OutputDir = envutil.Expand(spec.OutputDir)
	spec.DscURL = envutil.Expand(spec.DscURL)

	if spec.Package == "" {
		spec.Package = defaultPackage
	}
	if spec.OutputDir == "" {
		spec.OutputDir = fmt.Sprintf("%s-headers", spec.Package)
	}
	return spec, nil
}

func readConfig(s string) (aptv1.Harvest, error) {
	f, err := os.Open(s)
	if err != nil {
		return aptv1.Harvest{}, err
	}
	defer f.Close()

	var config aptv1.Harvest
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return aptv1.Harvest{}, err
	}
	return config, nil
}
