package sourcelist

import (
	"slices"
	"strings"
)

const (
	// AptDir is the root of the host's APT configuration tree.
	AptDir = "/etc/apt"
	// SourcesListD holds per-repository definition files.
	SourcesListD = "/etc/apt/sources.list.d"

	// legacyFile is the canonical one-line source list that the merger
	// installs inside the APT configuration tree.
	legacyFile = "sources.list"

	extList    = ".list"
	extSources = ".sources"
)

const (
	TypeDeb    = "deb"
	TypeDebSrc = "deb-src"

	ComponentMain     = "main"
	ComponentUniverse = "universe"
)

// Entry is a single repository definition in the legacy one-line format:
//
//	<type> <url> <suite> <component...>
type Entry struct {
	Type       string
	URL        string
	Suite      string
	Components []string
}

// ParseEntry parses one line of a legacy source list. Comments, blank
// lines and lines with too few fields produce nil.
func ParseEntry(line string) *Entry {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return nil
	}
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil
	}
	return &Entry{
		Type:       fields[0],
		URL:        fields[1],
		Suite:      fields[2],
		Components: fields[3:],
	}
}

func (e *Entry) String() string {
	return strings.Join(append([]string{e.Type, e.URL, e.Suite}, e.Components...), " ")
}

// Src returns the deb-src twin of the entry.
func (e *Entry) Src() *Entry {
	return &Entry{
		Type:       TypeDebSrc,
		URL:        e.URL,
		Suite:      e.Suite,
		Components: e.Components,
	}
}

// ReleaseContext identifies the running distribution release. It is
// supplied by the caller and never auto-detected here.
type ReleaseContext struct {
	Codename string
}

// Suites returns the repository channels that belong to the release:
// the codename itself plus its -updates and -security variants.
func (r ReleaseContext) Suites() []string {
	return []string{r.Codename, r.Codename + "-updates", r.Codename + "-security"}
}

// MatchesSuite checks whether s names one of the release's channels.
// Comparison is verbatim.
func (r ReleaseContext) MatchesSuite(s string) bool {
	return slices.Contains(r.Suites(), s)
}
