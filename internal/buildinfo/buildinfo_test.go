package buildinfo

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCurrentFromBuildInfo(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.4",
			Main: debug.Module{
				Path:    "github.com/aidanlsb/rpcsh",
				Version: "v1.2.3",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "GOOS", Value: "windows"},
				{Key: "GOARCH", Value: "amd64"},
			},
		}, true
	}

	want := Info{
		Version:    "v1.2.3",
		ModulePath: "github.com/aidanlsb/rpcsh",
		Commit:     "abc123",
		CommitTime: "2026-02-14T17:00:00Z",
		Modified:   true,
		GoVersion:  "go1.23.4",
		GOOS:       "windows",
		GOARCH:     "amd64",
	}
	if diff := cmp.Diff(want, Current()); diff != "" {
		t.Errorf("Current() mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrentFallbackWhenBuildInfoMissing(t *testing.T) {
	prevRead := readBuildInfo
	prevVersion, prevCommit := Version, Commit
	t.Cleanup(func() {
		readBuildInfo = prevRead
		Version, Commit = prevVersion, prevCommit
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return nil, false
	}
	Version, Commit = "", ""

	info := Current()
	if info.Version != "devel" {
		t.Fatalf("Version = %q, want %q", info.Version, "devel")
	}
	if info.ModulePath != defaultModulePath {
		t.Fatalf("ModulePath = %q, want %q", info.ModulePath, defaultModulePath)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q, want runtime %q", info.GoVersion, runtime.Version())
	}

	Version, Commit = "v0.4.0", "feedbeef"
	info = Current()
	if info.Version != "v0.4.0" || info.Commit != "feedbeef" {
		t.Fatalf("ldflags fallback not applied: %+v", info)
	}
}
