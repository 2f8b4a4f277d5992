// Package buildinfo identifies a slidesmith build.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/slidesmith/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/slidesmith/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/slidesmith/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS revision the Go
// toolchain records, when there are any.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes a build. The server returns it from GET /version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
	Go      string `json:"go"`
	// Catalog is the version of the layout catalog in use. Callers that
	// know their catalog fill it in.
	Catalog string `json:"catalog,omitempty"`
}

// Get returns the build description.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuild(&info, bi)
	}
	return info
}

// fillFromBuild replaces unstamped fields with what the toolchain recorded.
func fillFromBuild(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
}

// Short returns the version with an abbreviated commit, e.g.
// "v0.4.0 (1a2b3c4)".
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// Template returns the cobra version template for i.
func (i Info) Template() string {
	s := fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\ngo: %s\n", i.Version, i.Commit, i.Date, i.Go)
	if i.Catalog != "" {
		s += "catalog: " + i.Catalog + "\n"
	}
	return s
}
