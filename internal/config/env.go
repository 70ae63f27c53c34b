package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	MarkupURIEnv = "W3C_MARKUP_VALIDATOR_URI"
	CSSURIEnv    = "W3C_CSS_VALIDATOR_URI"
)

// ReadEnvFile returns the variables of a .env file. A missing file yields an
// empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return values, nil
}

// ApplyEnv overrides the validator endpoints of cfg. Values from the process
// environment win over the .env file at envPath.
func ApplyEnv(cfg *Config, envPath string) error {
	file := map[string]string{}
	if envPath != "" {
		var err error
		if file, err = ReadEnvFile(envPath); err != nil {
			return err
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(file[key])
	}
	if v := lookup(MarkupURIEnv); v != "" {
		cfg.Markup.ValidatorURI = v
	}
	if v := lookup(CSSURIEnv); v != "" {
		cfg.CSS.ValidatorURI = v
	}
	return nil
}

// SaveEnvValue sets key in the .env file at path, keeping its other
// variables.
func SaveEnvValue(path, key, value string) error {
	values, err := ReadEnvFile(path)
	if err != nil {
		return err
	}
	values[key] = value
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	return nil
}
