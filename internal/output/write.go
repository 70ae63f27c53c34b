package output

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func random8() (string, error) {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// UniquePath picks an unused report_<id>_<kind>.json name in outDir, creating
// the directory if needed.
func UniquePath(outDir, kind string) (string, string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", err
	}
	for i := 0; i < 100; i++ {
		id, err := random8()
		if err != nil {
			return "", "", err
		}
		p := filepath.Join(outDir, fmt.Sprintf("report_%s_%s.json", id, kind))
		if _, err := os.Stat(p); err == nil {
			continue
		}
		return id, p, nil
	}
	return "", "", fmt.Errorf("no unique report name in %s", outDir)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
