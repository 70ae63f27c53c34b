package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/w3c-validators/w3c-validators/internal/input"
)

func TestRunCheck_MixedFiles(t *testing.T) {
	f := newFakeServices(t)
	opts := testOptions(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<!DOCTYPE html><html lang=en><title>x</title></html>")
	writeFile(t, filepath.Join(dir, "css", "main.css"), "tbody th{width: /* 25%} */")
	writeFile(t, filepath.Join(dir, "README.md"), "# ignored")

	var out bytes.Buffer
	opts.Stdout = &out
	opts.Inputs = []string{dir}
	err := RunCheck(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 target(s)") {
		t.Fatalf("err=%v", err)
	}
	s := out.String()
	for _, want := range []string{"VALID", "INVALID", "index.html", "main.css", "Parse Error", "tbody th", "1 valid, 1 invalid, 0 not validated"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
	if f.count() != 2 {
		t.Fatalf("requests=%v", f.requests)
	}
}

func TestRunCheck_MarkupURIs(t *testing.T) {
	f := newFakeServices(t)
	opts := testOptions(t)
	var out bytes.Buffer
	opts.Stdout = &out
	opts.Kind = input.KindMarkup
	opts.URIs = []string{"https://example.org/", " ", "https://example.org/about"}
	if err := RunCheck(context.Background(), opts); err != nil {
		t.Fatalf("RunCheck error: %v", err)
	}
	if f.count() != 2 {
		t.Fatalf("requests=%v", f.requests)
	}
	for _, r := range f.requests {
		if !strings.HasPrefix(r, "GET /nu/?doc=https%3A%2F%2Fexample.org%2F") || !strings.Contains(r, "out=json") {
			t.Fatalf("unexpected request %q", r)
		}
	}
	if !strings.Contains(out.String(), "2 valid, 0 invalid") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestRunCheck_ServiceFailureIsNotValidated(t *testing.T) {
	newFakeServices(t)
	opts := testOptions(t)
	var out bytes.Buffer
	opts.Stdout = &out
	opts.Kind = input.KindMarkup
	opts.URIs = []string{"https://unavailable.example/"}
	err := RunCheck(context.Background(), opts)
	if err == nil {
		t.Fatal("expected failure")
	}
	s := out.String()
	if !strings.Contains(s, "NOT VALIDATED") || !strings.Contains(s, "503") {
		t.Fatalf("output:\n%s", s)
	}
}

func TestRunCheck_JSONAndReportFiles(t *testing.T) {
	newFakeServices(t)
	opts := testOptions(t)
	dir := t.TempDir()
	page := writeFile(t, filepath.Join(dir, "page.html"), "<!DOCTYPE html><html lang=en></html>")
	sheet := writeFile(t, filepath.Join(dir, "ok.css"), "body{color:red}")

	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	opts.JSON = true
	opts.OutputDir = filepath.Join(t.TempDir(), "reports")
	opts.Inputs = []string{page, sheet}
	if err := RunCheck(context.Background(), opts); err == nil {
		t.Fatal("expected invalid page to fail the run")
	}

	s := out.String()
	var reports []Report
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("stdout is not a json array: %v\n%s", err, s)
	}
	if !strings.Contains(errOut.String(), "report written: ") || !strings.Contains(errOut.String(), "checked 2 target(s)") {
		t.Fatalf("stderr=%s", errOut.String())
	}
	if len(reports) != 2 {
		t.Fatalf("reports=%+v", reports)
	}
	if r := reports[0]; r.Valid || r.Kind != input.KindMarkup || r.Errors != 1 || r.Messages[0].Context != "<html lang=en>" {
		t.Fatalf("page report=%+v", r)
	}
	if r := reports[1]; !r.Valid || r.Kind != input.KindCSS || r.Size != int64(len("body{color:red}")) {
		t.Fatalf("sheet report=%+v", r)
	}
	if strings.Contains(s, "┬") || strings.Contains(s, "╭") {
		t.Fatalf("json mode must not render tables:\n%s", s)
	}

	files, err := filepath.Glob(filepath.Join(opts.OutputDir, "report_*_*.json"))
	if err != nil || len(files) != 2 {
		t.Fatalf("report files=%v err=%v", files, err)
	}
	var kinds []string
	for _, p := range files {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		var r Report
		if err := json.Unmarshal(b, &r); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if !strings.HasSuffix(p, "_"+string(r.Kind)+".json") {
			t.Fatalf("file %s holds %s report", p, r.Kind)
		}
		kinds = append(kinds, string(r.Kind))
	}
	if strings.Join(kinds, ",") != "css,markup" && strings.Join(kinds, ",") != "markup,css" {
		t.Fatalf("kinds=%v", kinds)
	}
}

func TestRunCheck_JSONVerboseKeepsStdoutClean(t *testing.T) {
	newFakeServices(t)
	opts := testOptions(t)
	sheet := writeFile(t, filepath.Join(t.TempDir(), "ok.css"), "a{color:red}")

	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	opts.JSON = true
	opts.Verbose = true
	opts.Inputs = []string{sheet}
	if err := RunCheck(context.Background(), opts); err != nil {
		t.Fatalf("RunCheck error: %v", err)
	}
	var reports []Report
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil || len(reports) != 1 || !reports[0].Valid {
		t.Fatalf("reports=%+v err=%v stdout=%s", reports, err, out.String())
	}
	if !strings.Contains(errOut.String(), `"event":"http_request"`) {
		t.Fatalf("events not on stderr: %s", errOut.String())
	}
}

func TestRunCheck_VerboseEvents(t *testing.T) {
	newFakeServices(t)
	opts := testOptions(t)
	page := writeFile(t, filepath.Join(t.TempDir(), "a.html"), "<title>t</title>")

	var out bytes.Buffer
	opts.Stdout = &out
	opts.Verbose = true
	opts.Inputs = []string{page}
	if err := RunCheck(context.Background(), opts); err != nil {
		t.Fatalf("RunCheck error: %v", err)
	}
	events := map[string]map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("non-json line %q: %v", line, err)
		}
		events[m["event"].(string)] = m
	}
	for _, name := range []string{"http_request", "http_response", "validation_result", "info"} {
		if _, ok := events[name]; !ok {
			t.Fatalf("missing event %s in %v", name, events)
		}
	}
	if events["http_response"]["status_code"] != float64(200) || events["validation_result"]["valid"] != true {
		t.Fatalf("events=%v", events)
	}
	if !strings.Contains(events["http_request"]["request"].(string), "<title>t</title>") {
		t.Fatalf("request body not traced: %v", events["http_request"])
	}
}

func TestRunCheck_Canceled(t *testing.T) {
	f := newFakeServices(t)
	opts := testOptions(t)
	opts.Stdout = &bytes.Buffer{}
	opts.Kind = input.KindCSS
	opts.URIs = []string{"https://example.org/a.css"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RunCheck(ctx, opts); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if f.count() != 0 {
		t.Fatalf("requests=%v", f.requests)
	}
}

func TestRunCheck_Errors(t *testing.T) {
	newFakeServices(t)

	opts := testOptions(t)
	opts.Stdout = &bytes.Buffer{}
	opts.URIs = []string{"https://example.org/"}
	if err := RunCheck(context.Background(), opts); err == nil || !strings.Contains(err.Error(), "--uri") {
		t.Fatalf("uri without kind: err=%v", err)
	}

	opts = testOptions(t)
	opts.Stdout = &bytes.Buffer{}
	if err := RunCheck(context.Background(), opts); err == nil || !strings.Contains(err.Error(), "nothing to validate") {
		t.Fatalf("no targets: err=%v", err)
	}

	opts = testOptions(t)
	opts.Stdout = &bytes.Buffer{}
	opts.Inputs = []string{filepath.Join(t.TempDir(), "missing.html")}
	if err := RunCheck(context.Background(), opts); err == nil {
		t.Fatal("missing input: expected error")
	}

	opts = testOptions(t)
	opts.Stdout = &bytes.Buffer{}
	opts.Kind = input.KindCSS
	opts.URIs = []string{"https://example.org/a.css"}
	t.Setenv("W3C_CSS_VALIDATOR_URI", "jigsaw.w3.org/css-validator")
	if err := RunCheck(context.Background(), opts); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("bad endpoint: err=%v", err)
	}
}

func TestRunSetEndpoint(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := RunSetEndpoint(context.Background(), envPath, input.KindCSS, "http://localhost:8080/css-validator/validator"); err != nil {
		t.Fatalf("RunSetEndpoint error: %v", err)
	}
	if err := RunSetEndpoint(context.Background(), envPath, input.KindMarkup, "http://localhost:8888/"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, "W3C_CSS_VALIDATOR_URI=") || !strings.Contains(s, "localhost:8888") {
		t.Fatalf(".env content unexpected:\n%s", s)
	}

	if err := RunSetEndpoint(context.Background(), envPath, input.KindMarkup, "localhost:8888"); err == nil {
		t.Fatal("expected error for relative uri")
	}
	if err := RunSetEndpoint(context.Background(), envPath, input.Kind("js"), "http://localhost/"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRunSetEndpoint_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := RunSetEndpoint(context.Background(), "", input.KindMarkup, "https://checker.example/nu/"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(home, ".w3c-validators", ".env"))
	if err != nil || !strings.Contains(string(b), "https://checker.example/nu/") {
		t.Fatalf("content=%q err=%v", b, err)
	}
}
