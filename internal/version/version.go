// Package version reports build information for the tabula command.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string   `json:"version" yaml:"version"`
	BuildDate string   `json:"build_date" yaml:"build_date"`
	GitCommit string   `json:"git_commit" yaml:"git_commit"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Dirty     bool     `json:"dirty" yaml:"dirty"`
	Main      Module   `json:"main" yaml:"main"`
	Deps      []Module `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Module represents a Go module with version information
type Module struct {
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version" yaml:"version"`
}

// Info returns build information, filling module data from the runtime.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Main = Module{Path: bi.Main.Path, Version: bi.Main.Version}
		for _, dep := range bi.Deps {
			info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
		}
		for _, s := range bi.Settings {
			if s.Key == "vcs.modified" && s.Value == "true" {
				info.Dirty = true
			}
		}
	}
	return info
}

// Dependency returns the module whose path starts with prefix.
func (b BuildInfo) Dependency(prefix string) (Module, bool) {
	for _, m := range b.Deps {
		if strings.HasPrefix(m.Path, prefix) {
			return m, true
		}
	}
	return Module{}, false
}

// String returns a formatted version string
func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tabula %s", b.Version)
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		fmt.Fprintf(&sb, "Build Date: %s\n", b.BuildDate)
	}
	if b.GitCommit != unknownValue {
		commit := strings.TrimSuffix(b.GitCommit, "-dirty")
		if len(commit) > commitHashLength {
			commit = commit[:commitHashLength]
		}
		fmt.Fprintf(&sb, "Git Commit: %s\n", commit)
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", b.GoVersion)
	if arrow, ok := b.Dependency("github.com/apache/arrow-go"); ok {
		fmt.Fprintf(&sb, "Arrow: %s\n", arrow.Version)
	}
	return sb.String()
}

// IsRelease reports whether this is a tagged release build.
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}
