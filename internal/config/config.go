package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/w3c-validators/w3c-validators/css"
	"github.com/w3c-validators/w3c-validators/internal/util"
	"github.com/w3c-validators/w3c-validators/markup"
)

type Config struct {
	Markup MarkupConfig `yaml:"markup"`
	CSS    CSSConfig    `yaml:"css"`
}

type MarkupConfig struct {
	ValidatorURI string `yaml:"validator_uri" validate:"required,url,startswith=http"`
	ContentType  string `yaml:"content_type" validate:"required"`
}

type CSSConfig struct {
	ValidatorURI string `yaml:"validator_uri" validate:"required,url,startswith=http"`
	Profile      string `yaml:"profile,omitempty" validate:"omitempty,oneof=none css1 css2 css21 css3 css3svg svg svgbasic svgtiny mobile atsc-tv tv"`
	Warning      string `yaml:"warning,omitempty" validate:"omitempty,oneof=0 1 2 no"`
	UserMedium   string `yaml:"usermedium,omitempty" validate:"omitempty,oneof=all aural braille embossed handheld print projection screen tty tv presentation"`
	Lang         string `yaml:"lang,omitempty" validate:"omitempty,max=8"`
}

// Params converts the section into request parameters of the CSS client.
func (c CSSConfig) Params() css.Params {
	return css.Params{Profile: c.Profile, Warning: c.Warning, UserMedium: c.UserMedium, Lang: c.Lang}
}

func Default() Config {
	return Config{
		Markup: MarkupConfig{ValidatorURI: markup.DefaultURI, ContentType: markup.TextHTMLUTF8},
		CSS:    CSSConfig{ValidatorURI: css.DefaultURI},
	}
}

func ResolvePath(input string) (string, error) {
	if input != "" {
		return input, nil
	}
	return util.DefaultConfigPath()
}

func LoadOrInit(path string) (Config, error) {
	def := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Save(path, def); err != nil {
			return Config{}, err
		}
		return def, nil
	}
	cfg := def
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Markup.ValidatorURI == "" {
		cfg.Markup.ValidatorURI = def.Markup.ValidatorURI
	}
	if cfg.Markup.ContentType == "" {
		cfg.Markup.ContentType = def.Markup.ContentType
	}
	if cfg.CSS.ValidatorURI == "" {
		cfg.CSS.ValidatorURI = def.CSS.ValidatorURI
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the merged configuration before any client is built.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the config file at path, applies the overrides from envPath and
// the process environment, and validates the result.
func Load(path, envPath string) (Config, error) {
	cfg, err := LoadOrInit(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, envPath); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
