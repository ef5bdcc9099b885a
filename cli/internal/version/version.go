package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is set with -ldflags at release time.
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
	// Drivers lists the database driver modules linked into the binary.
	Drivers map[string]string
}

var driverModules = []string{
	"github.com/go-sql-driver/mysql",
	"github.com/denisenkom/go-mssqldb",
	"github.com/lib/pq",
	"github.com/mattn/go-sqlite3",
}

// Get returns version information
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Drivers:   map[string]string{},
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			for _, mod := range driverModules {
				if dep.Path == mod {
					info.Drivers[mod] = dep.Version
				}
			}
		}
	}
	return info
}

// Semver parses the CLI version.
func (i Info) Semver() (*goversion.Version, error) {
	v, err := goversion.NewVersion(i.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", i.Version, err)
	}
	return v, nil
}

// Prerelease reports whether the CLI is a development build.
func (i Info) Prerelease() bool {
	v, err := i.Semver()
	return err != nil || v.Prerelease() != "" || v.Segments()[0] == 0
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("sqlshim version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Rows returns the detailed version as table rows.
func (i Info) Rows() [][]string {
	rows := [][]string{
		{"Version", i.Version},
		{"Build Date", i.BuildDate},
		{"Git Commit", i.GitCommit},
		{"Platform", i.Platform},
		{"Go Version", i.GoVersion},
	}
	for _, mod := range driverModules {
		if v, ok := i.Drivers[mod]; ok {
			rows = append(rows, []string{mod, v})
		}
	}
	return rows
}
