package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/pipeline"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, inputDir, outputDir, apiMapOut = "", "", "", ""
	newLogger = func() *slog.Logger { return slog.New(slog.DiscardHandler) }

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCapture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestSanitizeCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "data")
	writeCapture(t, in, "getmembers.txt", `[{"scout_id": 101, "firstname": "RealName"}]`)
	writeCapture(t, in, "getStartupConfig.txt", `{"fullname": "Real Admin"}`)

	stdout, err := runCLI(t, "sanitize", "--input", in, "--output", out)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if !strings.Contains(stdout, "2 written") {
		t.Errorf("stdout = %q, want summary with 2 written", stdout)
	}

	b, err := os.ReadFile(filepath.Join(out, "startup_config.json"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	if want := "{\n  \"fullname\": \"Admin User\"\n}\n"; string(b) != want {
		t.Errorf("startup_config.json = %q, want %q", b, want)
	}
}

func TestSanitizeCommand_WarnsOnFailedFixtures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeCapture(t, in, "getmembers.txt", `[{"scout_id": 101, "firstname": "RealName"}]`)
	writeCapture(t, in, "getStartupConfig.txt", `{"fullname": "Real Admin"}`)
	// A directory where the fixture file belongs makes its write fail.
	if err := os.MkdirAll(filepath.Join(out, "startup_config.json", "blocker"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	output, err := runCLI(t, "sanitize", "--input", in, "--output", out)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if !strings.Contains(output, "1 written") || !strings.Contains(output, "1 failed") {
		t.Errorf("output = %q, want 1 written and 1 failed", output)
	}
	if !strings.Contains(output, "warning: fixtures not written: getStartupConfig.txt") {
		t.Errorf("output = %q, want a warning naming getStartupConfig.txt", output)
	}
}

func TestSanitizeCommand_MasterMissing(t *testing.T) {
	_, err := runCLI(t, "sanitize", "--input", t.TempDir(), "--output", t.TempDir())
	if !errors.Is(err, pipeline.ErrMasterLoad) {
		t.Fatalf("err = %v, want ErrMasterLoad", err)
	}
}

func TestAPIMapCommand(t *testing.T) {
	in := t.TempDir()
	mapFile := filepath.Join(t.TempDir(), "mocks", "api_map.json")
	writeCapture(t, in, "getPatrols.txt", "GET https://osm.example/ext/members/patrols/?action=getPatrols\n[]")

	stdout, err := runCLI(t, "apimap", "--input", in, "--out", mapFile)
	if err != nil {
		t.Fatalf("apimap: %v", err)
	}
	if !strings.Contains(stdout, "1 entries") {
		t.Errorf("stdout = %q, want 1 entries", stdout)
	}

	b, err := os.ReadFile(mapFile)
	if err != nil {
		t.Fatalf("reading api map: %v", err)
	}
	if !strings.Contains(string(b), `"action": "getPatrols"`) {
		t.Errorf("api map = %s, want getPatrols action", b)
	}
}

func TestLoadConfig_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrubber.yaml")
	if err := os.WriteFile(path, []byte("inputDir: from-file\noutputDir: out-file\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfgPath, inputDir, outputDir, apiMapOut = path, "from-flag", "", ""
	t.Cleanup(func() { cfgPath, inputDir = "", "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.InputDir != "from-flag" {
		t.Errorf("inputDir = %q, want %q", cfg.InputDir, "from-flag")
	}
	if cfg.OutputDir != "out-file" {
		t.Errorf("outputDir = %q, want %q", cfg.OutputDir, "out-file")
	}
}
