package w3c

import (
	"fmt"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

const (
	// Name identifies this library in the user agent.
	Name = "w3c-validators"
	// ProjectURL is advertised in the user agent.
	ProjectURL = "https://github.com/w3c-validators/w3c-validators"

	modulePath     = "github.com/w3c-validators/w3c-validators"
	releaseVersion = "0.2.0"
)

// Version is the semantic version of the library (set externally with ldflags).
// When empty it is taken from the module build info.
var Version string

func init() {
	info, _ := debug.ReadBuildInfo()
	Version = resolveVersion(Version, info)
}

// resolveVersion picks the first usable semantic version among the ldflags tag
// and the build info of this module, and falls back to the release version.
func resolveVersion(tag string, info *debug.BuildInfo) string {
	candidates := []string{tag}
	if info != nil {
		if info.Main.Path == modulePath {
			candidates = append(candidates, info.Main.Version)
		}
		for _, dep := range info.Deps {
			if dep.Path != modulePath {
				continue
			}
			if dep.Replace != nil {
				candidates = append(candidates, dep.Replace.Version)
			}
			candidates = append(candidates, dep.Version)
		}
	}
	for _, c := range candidates {
		if c == "" || c == "(devel)" {
			continue
		}
		v, err := semver.NewVersion(c)
		if err != nil {
			continue
		}
		return v.String()
	}
	return releaseVersion
}

// UserAgent is sent with every request to a validator service.
func UserAgent() string {
	return fmt.Sprintf("%s v%s (%s)", Name, Version, ProjectURL)
}
