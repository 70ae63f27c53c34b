package cmd

import (
	"fmt"
	"io"

	"github.com/w3c-validators/w3c-validators/w3c"
)

// Set with -ldflags "-X github.com/w3c-validators/w3c-validators/cmd.Commit=...".
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

func versionText() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", w3c.Version, Commit, BuildTime)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", w3c.Name, w3c.Version)
	fmt.Fprintln(w, versionText())
	fmt.Fprintf(w, "user agent: %s\n", w3c.UserAgent())
}
