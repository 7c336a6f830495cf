package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// HarvestSpec describes which package to fetch and where to stage the
// harvested headers. Every string value may reference environment
// variables.
type HarvestSpec struct {
	// Package is the source package to harvest. Defaults to pulseaudio.
	Package string `json:"package,omitempty"`
	// Codename overrides the release codename detected from the host.
	Codename string `json:"codename,omitempty"`
	// Distro overrides the distribution id detected from the host.
	Distro string `json:"distro,omitempty"`
	// AptDir overrides the APT configuration tree. Defaults to /etc/apt.
	AptDir string `json:"aptDir,omitempty"`
	// WorkDir is where the source package is fetched and extracted.
	// Defaults to a throwaway temp directory.
	WorkDir string `json:"workDir,omitempty"`
	// OutputDir is the staging directory the headers end up in.
	OutputDir string `json:"outputDir,omitempty"`
	// DscURL switches fetching from apt-get source to a direct download
	// of the given source control file and its archives.
	DscURL string `json:"dscUrl,omitempty"`
	// SkipBuildDep skips installing the package's build dependencies.
	SkipBuildDep bool `json:"skipBuildDep,omitempty"`
}

type Harvest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec HarvestSpec `json:"spec"`
}
