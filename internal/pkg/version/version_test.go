package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info Info
		want string
	}{
		{"빈 정보", Info{}, "unknown"},
		{"버전만", Info{Version: "v1.0.0"}, "v1.0.0"},
		{
			name: "전체",
			info: Info{Version: "v1.2.0", Commit: "f25b8bf0123", BuildNumber: "7", BuildDate: "2026-01-01", GoVersion: "go1.24"},
			want: "v1.2.0 (commit: f25b8bf, build: 7, date: 2026-01-01, go: go1.24)",
		},
		{"dirty", Info{Version: "v1.0.0", DirtyBuild: true}, "v1.0.0+dirty"},
		{"unknown 커밋 생략", Info{Version: "v1.0.0", Commit: unknown}, "v1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

// 전역 readBuildInfo를 교체하므로 병렬로 실행하지 않습니다.
func TestSet_EnrichesFromBuildInfo(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "(devel)"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-02-02T00:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	Set(Info{BuildNumber: "3"})
	got := Get()

	assert.Equal(t, unknown, got.Version)
	assert.Equal(t, "abc123", got.Commit)
	assert.Equal(t, "2026-02-02T00:00:00Z", got.BuildDate)
	assert.True(t, got.DirtyBuild)
	assert.Equal(t, runtime.Version(), got.GoVersion)
	assert.Equal(t, runtime.GOOS, got.OS)

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	Set(Info{Version: "v2.0.0", Commit: "def"})
	assert.Equal(t, "v2.0.0", Get().Version)
	assert.Equal(t, "def", Get().Commit)
}

func TestInfo_ToMap(t *testing.T) {
	t.Parallel()

	m := Info{Version: "v1", Commit: "c", BuildNumber: "42", DirtyBuild: true}.ToMap()
	assert.Len(t, m, 6)
	assert.Equal(t, "v1", m["version"])
	assert.Equal(t, "c", m["commit"])
	assert.Equal(t, "42", m["build_number"])
	assert.Equal(t, true, m["dirty_build"])
}
