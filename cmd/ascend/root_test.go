package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ASCEND_SEED", "")
	t.Setenv("ASCEND_LOG_FILE", "")
	t.Setenv("ASCEND_TELEMETRY", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "ascend dev") {
		t.Errorf("output = %q", out)
	}
}

func TestClassesCommand(t *testing.T) {
	out, err := execute(t, "classes")
	if err != nil {
		t.Fatalf("classes failed: %v", err)
	}
	for _, want := range []string{"Martial Artist", "Qi Cultivator", "Assassin", "ATK"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScriptRun(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "walk.txt")
	body := "# create a character and look around\nLin\n2\nlook\nquit\n"
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	logFile := filepath.Join(dir, "ascend.log")
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("log_file: "+logFile+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--script", script, "--seed", "1", "--config", cfg)
	if err != nil {
		t.Fatalf("script run failed: %v", err)
	}
	for _, want := range []string{"> Lin", "Welcome, Lin.", "== Village ==", "[Goodbye.]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	logged, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	for _, want := range []string{`"msg":"session started"`, `"seed":1`, `"result":"quit"`} {
		if !strings.Contains(string(logged), want) {
			t.Errorf("log missing %s:\n%s", want, logged)
		}
	}
}

func TestScriptRun_MissingScript(t *testing.T) {
	_, err := execute(t, "--script", filepath.Join(t.TempDir(), "nope.txt"), "--plain")
	if err == nil || !strings.Contains(err.Error(), "opening script") {
		t.Errorf("err = %v", err)
	}
}

func TestBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("train_cycles: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", cfg, "--plain")
	if err == nil || !strings.Contains(err.Error(), "train_cycles") {
		t.Errorf("err = %v", err)
	}
}

func TestOpenLogger_Discard(t *testing.T) {
	logger, closeLog, err := openLogger("")
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()
	logger.Info("dropped")
}
