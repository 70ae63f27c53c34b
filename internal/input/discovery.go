package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind selects the validator a document is sent to.
type Kind string

const (
	KindMarkup Kind = "markup"
	KindCSS    Kind = "css"
)

var extKinds = map[string]Kind{
	".css":   KindCSS,
	".html":  KindMarkup,
	".htm":   KindMarkup,
	".xhtml": KindMarkup,
	".xml":   KindMarkup,
	".svg":   KindMarkup,
}

// KindOf maps a file name to a validator by its extension.
func KindOf(path string) (Kind, bool) {
	k, ok := extKinds[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

type Document struct {
	Path    string
	Kind    Kind
	Content string
}

// Discover reads the files named by inputs. Directories are walked and only
// files with a known extension are kept. When only is set, documents of the
// other kind are skipped, and a file named explicitly is taken as that kind
// whatever its extension.
func Discover(inputs []string, only Kind) ([]Document, error) {
	var out []Document
	seen := map[string]struct{}{}
	add := func(path string, kind Kind) error {
		key := dedupKey(path)
		if _, exists := seen[key]; exists {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		seen[key] = struct{}{}
		out = append(out, Document{Path: path, Kind: kind, Content: string(b)})
		return nil
	}
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err := filepath.WalkDir(in, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				kind, ok := KindOf(path)
				if !ok || (only != "" && kind != only) {
					return nil
				}
				return add(path, kind)
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		kind, ok := KindOf(in)
		switch {
		case only != "":
			kind = only
		case !ok:
			return nil, fmt.Errorf("unsupported file type: %s", in)
		}
		if err := add(in, kind); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		if only != "" {
			return nil, fmt.Errorf("no %s files found", only)
		}
		return nil, fmt.Errorf("no markup or css files found")
	}
	return out, nil
}

// dedupKey names a file independently of how it was spelled on the command
// line.
func dedupKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
