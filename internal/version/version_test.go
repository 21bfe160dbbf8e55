package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "tabula ")
	assert.Contains(t, info.String(), "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	tests := []struct {
		name     string
		info     BuildInfo
		contains []string
		excludes []string
	}{
		{
			name: "release build",
			info: BuildInfo{
				Version:   "v1.0.0",
				BuildDate: "2025-01-01T00:00:00Z",
				GitCommit: "abc123def456",
				GoVersion: "go1.24.4",
				Deps:      []Module{{Path: "github.com/apache/arrow-go/v18", Version: "v18.3.1"}},
			},
			contains: []string{
				"tabula v1.0.0\n",
				"Build Date: 2025-01-01T00:00:00Z",
				"Git Commit: abc123d\n",
				"Go Version: go1.24.4",
				"Arrow: v18.3.1",
			},
		},
		{
			name: "dirty dev build",
			info: BuildInfo{
				Version:   "dev",
				BuildDate: unknownValue,
				GitCommit: "abc123-dirty",
				Dirty:     true,
			},
			contains: []string{"tabula dev (dirty)", "Git Commit: abc123\n"},
			excludes: []string{"Build Date", "Arrow"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.info.String()
			for _, want := range tt.contains {
				assert.Contains(t, s, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, s, unwanted)
			}
		})
	}
}

func TestDependency(t *testing.T) {
	info := BuildInfo{Deps: []Module{
		{Path: "github.com/cespare/xxhash/v2", Version: "v2.3.0"},
		{Path: "gonum.org/v1/gonum", Version: "v0.16.0"},
	}}

	m, ok := info.Dependency("gonum.org")
	assert.True(t, ok)
	assert.Equal(t, "v0.16.0", m.Version)

	_, ok = info.Dependency("github.com/apache")
	assert.False(t, ok)
}

func TestIsRelease(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	tests := []struct {
		version string
		want    bool
	}{
		{"dev", false},
		{"v1.2.0", true},
		{"v1.2.0-rc.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.want, IsRelease())
		})
	}
}
