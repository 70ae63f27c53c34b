package w3c

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolveVersion(t *testing.T) {
	cases := []struct {
		name string
		tag  string
		info *debug.BuildInfo
		want string
	}{
		{name: "no info", want: releaseVersion},
		{name: "ldflags tag", tag: "v1.4.2", want: "1.4.2"},
		{name: "bad tag falls through", tag: "nightly", want: releaseVersion},
		{
			name: "main module",
			info: &debug.BuildInfo{Main: debug.Module{Path: modulePath, Version: "v0.3.1"}},
			want: "0.3.1",
		},
		{
			name: "devel main module",
			info: &debug.BuildInfo{Main: debug.Module{Path: modulePath, Version: "(devel)"}},
			want: releaseVersion,
		},
		{
			name: "dependency",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.com/app", Version: "v9.9.9"},
				Deps: []*debug.Module{{Path: modulePath, Version: "v0.5.0"}},
			},
			want: "0.5.0",
		},
		{
			name: "replaced dependency",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{Path: modulePath, Version: "v0.5.0", Replace: &debug.Module{Path: "../fork", Version: "v0.6.0-rc.1"}}},
			},
			want: "0.6.0-rc.1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveVersion(tc.tag, tc.info); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "1.2.3"
	ua := UserAgent()
	if ua != "w3c-validators v1.2.3 (https://github.com/w3c-validators/w3c-validators)" {
		t.Fatalf("ua=%q", ua)
	}
	if !strings.HasPrefix(ua, Name+" v") {
		t.Fatalf("ua=%q", ua)
	}
}
