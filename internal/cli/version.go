package cli

import (
	"runtime/debug"
	"strings"
)

const devVersion = "dev"

var readBuildInfo = debug.ReadBuildInfo

// resolvedVersion prefers the linker-injected version, then module build
// info, then a short VCS revision, and finally "dev".
func resolvedVersion(raw string) string {
	injected := strings.TrimSpace(raw)
	if injected != "" && injected != devVersion {
		return injected
	}

	if info, ok := readBuildInfo(); ok && info != nil {
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			return v
		}
		if rev := shortRevision(info.Settings); rev != "" {
			return rev
		}
	}

	if injected != "" {
		return injected
	}
	return devVersion
}

func shortRevision(settings []debug.BuildSetting) string {
	var revision string
	dirty := false
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = strings.TrimSpace(setting.Value)
		case "vcs.modified":
			dirty = strings.EqualFold(strings.TrimSpace(setting.Value), "true")
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}
