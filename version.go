package audiotag

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the audiotag library.
const Version = "0.1.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `yaml:"version"`
	GitCommit string `yaml:"git_commit"`
	BuildTime string `yaml:"build_time"`
	GoVersion string `yaml:"go_version"`
}

// GetVersionInfo returns the library version and build details.
//
// GitCommit and BuildTime come from -ldflags when set, for example:
//
//	go build -ldflags="-X github.com/simonhull/audiotag.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/audiotag.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Otherwise the VCS stamps recorded by the Go toolchain are used, and
// "unknown" when there are none.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == unknown:
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == unknown:
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

const unknown = "unknown"

// Variables populated at build time via -ldflags.
var (
	gitCommit = unknown
	buildTime = unknown
)
