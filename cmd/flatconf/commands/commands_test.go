package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/flatconf/flatconf/pkg/config"
)

const sampleDocument = `
user:
  name: John
  is_real: false
  age: 39
  height: 1.78
  children: [Huey, Dewey, Louie]
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "user.yaml"), []byte(sampleDocument), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return dir
}

// run executes the CLI with an empty environment unless environ is given.
func run(t *testing.T, environ map[string]string, args ...string) (string, error) {
	t.Helper()
	if environ == nil {
		environ = map[string]string{}
	}

	a := &app{version: "test", flags: &Settings{}, environ: environ}
	cmd := newRootCommand(a, "none", "never")

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "disabled"))

	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(stdout.String()), err
}

func TestGet(t *testing.T) {
	dir := writeSample(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "string", args: []string{"get", "user.name"}, want: "John"},
		{name: "bool", args: []string{"get", "user.is_real", "--type", "bool"}, want: "false"},
		{name: "number", args: []string{"get", "user.age", "--type", "number"}, want: "39"},
		{name: "int widened to float", args: []string{"get", "user.age", "--type", "float"}, want: "39"},
		{name: "float", args: []string{"get", "user.height", "-t", "float"}, want: "1.78"},
		{name: "sequence", args: []string{"get", "user.children", "--type", "sequence"}, want: "[Huey, Dewey, Louie]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, append(tt.args, "-s", dir)...)
			if err != nil {
				t.Fatalf("get error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestGetErrors(t *testing.T) {
	dir := writeSample(t)

	if _, err := run(t, nil, "get", "user.email", "-s", dir); !errors.Is(err, config.ErrKeyNotFound) {
		t.Errorf("missing key error = %v, want ErrKeyNotFound", err)
	}
	if _, err := run(t, nil, "get", "user.height", "--type", "int", "-s", dir); !errors.Is(err, config.ErrTypeMismatch) {
		t.Errorf("narrowing error = %v, want ErrTypeMismatch", err)
	}
	if _, err := run(t, nil, "get", "user.name", "--type", "date", "-s", dir); err == nil {
		t.Error("expected an error for an unknown type")
	}
}

func TestExists(t *testing.T) {
	dir := writeSample(t)

	out, err := run(t, nil, "exists", "user.name", "-s", dir)
	if err != nil || out != "true" {
		t.Errorf("exists user.name = %q, %v", out, err)
	}

	out, err = run(t, nil, "exists", "user.email", "-s", dir)
	if !errors.Is(err, ErrAbsent) {
		t.Errorf("exists user.email error = %v, want ErrAbsent", err)
	}
	if out != "false" {
		t.Errorf("exists user.email output = %q, want false", out)
	}

	out, err = run(t, nil, "exists", "user", "-q", "-s", dir)
	if !errors.Is(err, ErrAbsent) || out != "" {
		t.Errorf("exists -q user = %q, %v", out, err)
	}
}

func TestList(t *testing.T) {
	dir := writeSample(t)

	out, err := run(t, nil, "list", "-s", dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	want := strings.Join([]string{
		"user.age = 39",
		"user.children = [Huey, Dewey, Louie]",
		"user.height = 1.78",
		"user.is_real = false",
		"user.name = John",
	}, "\n")
	if out != want {
		t.Errorf("list output:\n%s\nwant:\n%s", out, want)
	}
}

func TestListJSON(t *testing.T) {
	dir := writeSample(t)

	out, err := run(t, nil, "list", "--json", "-s", dir)
	if err != nil {
		t.Fatalf("list --json error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc["user.name"] != "John" || doc["user.age"] != float64(39) {
		t.Errorf("unexpected document: %v", doc)
	}
	if children, ok := doc["user.children"].([]any); !ok || len(children) != 3 {
		t.Errorf("user.children = %v", doc["user.children"])
	}
}

func TestListJSONNonFiniteFloats(t *testing.T) {
	dir := t.TempDir()
	doc := "limits:\n  max: .inf\n  min: -.inf\n  ratio: .nan\n  steps: [1.5, .inf]\n  rate: 2.5\n"
	if err := os.WriteFile(filepath.Join(dir, "limits.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	out, err := run(t, nil, "list", "--json", "-s", dir)
	if err != nil {
		t.Fatalf("list --json error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	want := map[string]any{
		"limits.max":   ".inf",
		"limits.min":   "-.inf",
		"limits.ratio": ".nan",
		"limits.rate":  2.5,
	}
	for path, w := range want {
		if got[path] != w {
			t.Errorf("%s = %v, want %v", path, got[path], w)
		}
	}
	steps, ok := got["limits.steps"].([]any)
	if !ok || len(steps) != 2 || steps[0] != 1.5 || steps[1] != ".inf" {
		t.Errorf("limits.steps = %v, want [1.5 .inf]", got["limits.steps"])
	}
}

func TestMissingSourceListsNothing(t *testing.T) {
	out, err := run(t, nil, "list", "-s", filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want nothing", out)
	}
}

func TestSourceFromEnvironment(t *testing.T) {
	dir := writeSample(t)
	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "x.yaml"), []byte("user:\n  name: Jane\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{"FLATCONF_SOURCE": dir}

	out, err := run(t, env, "get", "user.name")
	if err != nil || out != "John" {
		t.Errorf("env source: %q, %v", out, err)
	}

	out, err = run(t, env, "get", "user.name", "--source", other)
	if err != nil || out != "Jane" {
		t.Errorf("flag should override env: %q, %v", out, err)
	}
}

func TestSettingsBuilder(t *testing.T) {
	b := newSettingsBuilder()
	b.environ = map[string]string{
		"FLATCONF_LOG_LEVEL":      "debug",
		"FLATCONF_WATCH_DEBOUNCE": "2s",
		"FLATCONF_IGNORE_HIDDEN":  "true",
	}
	settings, err := b.withFlags(&Settings{LogLevel: "warn"}).withEnv().withDefaults().build()
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}

	if settings.LogLevel != "warn" {
		t.Errorf("log level = %q, want the flag value", settings.LogLevel)
	}
	if settings.WatchDebounce != 2*time.Second || !settings.IgnoreHidden {
		t.Errorf("env values not applied: %+v", settings)
	}
	if settings.Source != "." || settings.TraceExporter != "none" {
		t.Errorf("defaults not applied: %+v", settings)
	}
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		flags   Settings
		environ map[string]string
	}{
		{name: "unknown log level", flags: Settings{LogLevel: "chatty"}},
		{name: "unknown exporter", flags: Settings{TraceExporter: "zipkin"}},
		{name: "otlp without endpoint", flags: Settings{TraceExporter: "otlp"}},
		{name: "negative debounce", flags: Settings{WatchDebounce: -time.Second}},
		{name: "malformed env duration", environ: map[string]string{"FLATCONF_WATCH_DEBOUNCE": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSettingsBuilder()
			b.environ = tt.environ
			if b.environ == nil {
				b.environ = map[string]string{}
			}
			flags := tt.flags
			if _, err := b.withFlags(&flags).withEnv().withDefaults().build(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReportsReloads(t *testing.T) {
	dir := writeSample(t)
	extra := filepath.Join(dir, "extra.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &app{version: "test", flags: &Settings{}, environ: map[string]string{}}
	cmd := newRootCommand(a, "none", "never")
	var out syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"watch", "-s", dir, "--log-level", "disabled", "--watch-debounce", "20ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for !strings.Contains(out.String(), ": 6 parameters") {
		select {
		case <-tick.C:
			if strings.Contains(out.String(), ": 5 parameters") {
				_ = os.WriteFile(extra, []byte("extra: 1\n"), 0o644)
			}
		case err := <-done:
			t.Fatalf("watch returned early: %v", err)
		case <-deadline:
			t.Fatalf("no reload reported, output:\n%s", out.String())
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch error = %v", err)
	}
}
