package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/w3c-validators/w3c-validators/css"
	"github.com/w3c-validators/w3c-validators/internal/config"
	"github.com/w3c-validators/w3c-validators/internal/input"
	"github.com/w3c-validators/w3c-validators/internal/output"
	"github.com/w3c-validators/w3c-validators/internal/util"
	"github.com/w3c-validators/w3c-validators/markup"
	"github.com/w3c-validators/w3c-validators/w3c"
)

type CheckOptions struct {
	Verbose    bool
	LogFile    string
	ConfigPath string
	EnvPath    string
	// OutputDir receives one JSON report per target when set.
	OutputDir string
	// JSON prints all reports as a JSON array on Stdout instead of tables.
	// Log lines then go to Stderr.
	JSON bool
	// Kind restricts discovery to one validator. URIs require it.
	Kind   input.Kind
	URIs   []string
	Inputs []string
	Stdout io.Writer
	Stderr io.Writer
}

type target struct {
	kind input.Kind
	name string
	uri  string
	text string
	size int64
}

func (t target) report(validator string) Report {
	return Report{Target: t.name, Kind: t.kind, Validator: validator, Size: t.size}
}

type validators struct {
	markup *markup.Validator
	css    *css.Validator
}

// RunCheck validates every target one after the other and prints a report
// for each. It fails when any target is invalid or could not be validated.
func RunCheck(ctx context.Context, opts CheckOptions) error {
	log, err := NewLogger(opts.Verbose, opts.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	log.out = stdout
	if opts.JSON {
		log.out = stderr
	}

	cfg, err := loadConfig(opts.ConfigPath, opts.EnvPath)
	if err != nil {
		return err
	}
	targets, err := collectTargets(opts)
	if err != nil {
		return err
	}
	vs, err := newValidators(cfg, func(ev w3c.TraceEvent) {
		log.Event("http_"+ev.Stage, map[string]any{
			"method":      ev.Method,
			"url":         ev.URL,
			"status_code": ev.StatusCode,
			"duration_ms": ev.DurationMs,
			"request":     ev.Request,
			"response":    ev.Response,
			"error":       ev.Error,
		})
	})
	if err != nil {
		return err
	}

	start := time.Now()
	var valid, invalid, failed int
	reports := make([]Report, 0, len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep := vs.check(ctx, t)
		if isContextCanceledErr(ctx.Err()) {
			return context.Canceled
		}
		switch {
		case rep.failed():
			failed++
		case rep.Valid:
			valid++
		default:
			invalid++
		}
		reports = append(reports, rep)

		log.Event("validation_result", map[string]any{
			"target":   rep.Target,
			"kind":     rep.Kind,
			"valid":    rep.Valid,
			"errors":   rep.Errors,
			"warnings": rep.Warnings,
			"error":    rep.Error,
		})
		if !opts.JSON && !opts.Verbose {
			log.Info(renderReport(rep))
		}
		if opts.OutputDir != "" {
			_, p, err := output.UniquePath(opts.OutputDir, string(rep.Kind))
			if err != nil {
				return err
			}
			if err := output.WriteJSON(p, rep); err != nil {
				return err
			}
			log.Info(fmt.Sprintf("report written: %s", mustAbsPath(p)))
		}
	}

	if opts.JSON {
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("encode reports: %w", err)
		}
		if _, err := fmt.Fprintln(stdout, string(b)); err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
	}
	total := len(targets)
	log.Info(fmt.Sprintf("checked %d target(s): %d valid, %d invalid, %d not validated in %s",
		total, valid, invalid, failed, humanDurationShort(time.Since(start))))
	if invalid+failed > 0 {
		return fmt.Errorf("%d of %d target(s) did not pass validation", invalid+failed, total)
	}
	return nil
}

func loadConfig(cfgPath, envPath string) (config.Config, error) {
	p, err := config.ResolvePath(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	if envPath == "" {
		if envPath, err = util.DefaultEnvPath(); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(p, envPath)
}

func collectTargets(opts CheckOptions) ([]target, error) {
	var out []target
	if len(opts.URIs) > 0 && opts.Kind == "" {
		return nil, fmt.Errorf("--uri needs a validator: use the markup or css command")
	}
	for _, u := range opts.URIs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		out = append(out, target{kind: opts.Kind, name: u, uri: u})
	}
	if len(opts.Inputs) > 0 {
		docs, err := input.Discover(opts.Inputs, opts.Kind)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			out = append(out, target{kind: d.Kind, name: d.Path, text: d.Content, size: int64(len(d.Content))})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("nothing to validate")
	}
	return out, nil
}

func newValidators(cfg config.Config, trace func(w3c.TraceEvent)) (*validators, error) {
	m, err := markup.New(markup.Options{
		ValidatorURI: cfg.Markup.ValidatorURI,
		ContentType:  cfg.Markup.ContentType,
		Trace:        trace,
	})
	if err != nil {
		return nil, err
	}
	c, err := css.New(css.Options{
		ValidatorURI: cfg.CSS.ValidatorURI,
		Params:       cfg.CSS.Params(),
		Trace:        trace,
	})
	if err != nil {
		return nil, err
	}
	return &validators{markup: m, css: c}, nil
}

func (vs *validators) check(ctx context.Context, t target) Report {
	switch t.kind {
	case input.KindCSS:
		var (
			res *css.Result
			err error
		)
		if t.uri != "" {
			res, err = vs.css.ValidateURI(ctx, t.uri)
		} else {
			res, err = vs.css.ValidateText(ctx, t.text)
		}
		if err != nil {
			return failedReport(t, vs.css.ValidatorURI(), err)
		}
		return cssReport(t, vs.css.ValidatorURI(), res)
	default:
		var (
			res *markup.Result
			err error
		)
		if t.uri != "" {
			res, err = vs.markup.ValidateURI(ctx, t.uri)
		} else {
			res, err = vs.markup.ValidateText(ctx, t.text)
		}
		if err != nil {
			return failedReport(t, vs.markup.ValidatorURI(), err)
		}
		return markupReport(t, vs.markup.ValidatorURI(), res)
	}
}

func isContextCanceledErr(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

func humanDurationShort(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	sec := int64(d.Round(time.Second) / time.Second)
	m := sec / 60
	s := sec % 60
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func mustAbsPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
