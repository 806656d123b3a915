package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
)

// ServiceName identifies this binary in version output and logs.
const ServiceName = "itemvault"

// Set with -ldflags "-X github.com/osse101/ItemVault_Go/internal/handler.Version=...".
// When unset, the VCS stamp embedded by the go tool is used instead.
var (
	Version   = ""
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

var (
	buildInfoOnce sync.Once
	buildInfo     VersionInfo
)

// CurrentVersion resolves version details once: linker flags first, then the
// embedded VCS stamp, then $VERSION, then "dev".
func CurrentVersion() VersionInfo {
	buildInfoOnce.Do(func() {
		buildInfo = VersionInfo{
			Service:   ServiceName,
			Version:   Version,
			GoVersion: runtime.Version(),
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		}
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					if buildInfo.GitCommit == "" {
						buildInfo.GitCommit = s.Value
					}
				case "vcs.time":
					if buildInfo.BuildTime == "" {
						buildInfo.BuildTime = s.Value
					}
				case "vcs.modified":
					buildInfo.Modified = s.Value == "true"
				}
			}
		}
		if buildInfo.Version == "" {
			buildInfo.Version = os.Getenv("VERSION")
		}
		if buildInfo.Version == "" {
			buildInfo.Version = "dev"
		}
	})
	return buildInfo
}

func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, CurrentVersion())
	}
}
