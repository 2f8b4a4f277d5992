package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuild(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1a2b3c4d5e6f"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	info := Info{Version: "dev", Commit: "none", Date: "unknown"}
	fillFromBuild(&info, bi)
	assert.Equal(t, "v0.4.0", info.Version)
	assert.Equal(t, "1a2b3c4d5e6f", info.Commit)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.Date)
	assert.Equal(t, "v0.4.0 (1a2b3c4)", info.Short())

	// Stamped values win over the toolchain's.
	stamped := Info{Version: "v1.0.0", Commit: "abc", Date: "today"}
	fillFromBuild(&stamped, bi)
	assert.Equal(t, Info{Version: "v1.0.0", Commit: "abc", Date: "today"}, stamped)

	devel := Info{Version: "dev", Commit: "none", Date: "unknown"}
	fillFromBuild(&devel, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}

func TestTemplate(t *testing.T) {
	info := Info{Version: "v0.4.0", Commit: "abc", Date: "today", Go: "go1.24.0"}
	assert.NotContains(t, info.Template(), "catalog:")

	info.Catalog = "default-1"
	tmpl := info.Template()
	assert.True(t, strings.HasPrefix(tmpl, "{{.Name}} v0.4.0\n"))
	assert.Contains(t, tmpl, "catalog: default-1\n")
	assert.Contains(t, tmpl, "go: go1.24.0\n")
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Go)
	assert.Empty(t, info.Catalog)
}
