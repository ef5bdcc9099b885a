package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	info := Info{Version: "1.2.0", Platform: "linux/amd64", GoVersion: "go1.24.1"}
	assert.Equal(t, "sqlshim version 1.2.0 (linux/amd64 go1.24.1)", info.String())
	assert.False(t, info.Prerelease())

	v, err := info.Semver()
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v.String())

	assert.True(t, Info{Version: "0.1.0"}.Prerelease())
	assert.True(t, Info{Version: "1.0.0-rc.1"}.Prerelease())
	assert.True(t, Info{Version: "dev"}.Prerelease())
}

func TestRows(t *testing.T) {
	info := Info{Version: "1.0.0", Drivers: map[string]string{"github.com/lib/pq": "v1.10.9"}}
	rows := info.Rows()
	assert.Equal(t, []string{"Version", "1.0.0"}, rows[0])
	assert.Equal(t, []string{"github.com/lib/pq", "v1.10.9"}, rows[len(rows)-1])
}
