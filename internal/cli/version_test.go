package cli

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = orig
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, ok
	}
}

func TestResolvedVersionPrefersInjectedVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, true)

	if got := resolvedVersion("v1.2.3"); got != "v1.2.3" {
		t.Fatalf("expected injected version v1.2.3, got %q", got)
	}
}

func TestResolvedVersionUsesModuleVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, true)

	if got := resolvedVersion(devVersion); got != "v0.4.0" {
		t.Fatalf("expected module version v0.4.0, got %q", got)
	}
}

func TestResolvedVersionUsesVCSRevision(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	if got := resolvedVersion(""); got != "0123456789ab-dirty" {
		t.Fatalf("expected vcs revision fallback, got %q", got)
	}
}

func TestResolvedVersionFallsBackToDev(t *testing.T) {
	stubBuildInfo(t, nil, false)

	if got := resolvedVersion(""); got != devVersion {
		t.Fatalf("expected dev fallback, got %q", got)
	}
}
