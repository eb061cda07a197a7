package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeRepo(t *testing.T) (root, logPath, configPath string) {
	t.Helper()
	root = t.TempDir()
	for _, dir := range []string{"contracts/CO2_Broken", "contracts/XX_Misnamed"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	logPath = filepath.Join(root, "review.log")
	configPath = filepath.Join(root, "missionreview.toml")
	config := "[output]\nlog = '" + logPath + "'\n"
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, logPath, configPath
}

func TestCheckAndAnnotate(t *testing.T) {
	root, logPath, configPath := writeRepo(t)

	stdout, stderr, err := execute(t, "check", "--root", root, "--config", configPath,
		"--format", "github", "--ui", "off", "--log", "", "--quiet=false")
	var exit exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("check err = %v, want exit status 1", err)
	}
	if !strings.Contains(stderr, "Wrote 3 messages to "+logPath) {
		t.Errorf("stderr = %q", stderr)
	}
	for _, want := range []string{"`mission.sqm` is missing", "Invalid prefix for"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !strings.HasPrefix(stdout, "::error file=contracts/") {
		t.Errorf("expected workflow commands, got %q", stdout)
	}

	stdout, _, err = execute(t, "annotate", "--log", logPath, "--format", "markdown",
		"--changed", "specials/SCO4_Other/mission.sqm", "--fail")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !strings.Contains(stdout, "`APPROVE`") {
		t.Errorf("review should approve unrelated changes:\n%s", stdout)
	}

	stdout, _, err = execute(t, "annotate", "--log", logPath, "--format", "markdown",
		"--changed", "contracts/CO2_Broken/description.ext", "--fail")
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("annotate err = %v, want exit status 1", err)
	}
	if !strings.Contains(stdout, "`REQUEST_CHANGES`") {
		t.Errorf("review should request changes:\n%s", stdout)
	}
}

func TestCheckFilterNoMissions(t *testing.T) {
	root, logPath, configPath := writeRepo(t)
	_, stderr, err := execute(t, "check", "--root", root, "--config", configPath,
		"--format", "none", "--ui", "off", "--log", "", "--quiet=false", "nothing-matches")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(stderr, "Wrote 0 messages to "+logPath) {
		t.Errorf("stderr = %q", stderr)
	}
	data, err := os.ReadFile(logPath)
	if err != nil || len(data) != 0 {
		t.Errorf("log = %q, %v", data, err)
	}
}

func TestCheckFlagErrors(t *testing.T) {
	root, _, configPath := writeRepo(t)
	_, _, err := execute(t, "check", "--root", root, "--config", configPath,
		"--format", "xml", "--ui", "off")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("err = %v", err)
	}
	_, _, err = execute(t, "check", "--root", root, "--config", configPath,
		"--format", "none", "--ui", "sometimes")
	if err == nil || !strings.Contains(err.Error(), "invalid --ui value") {
		t.Errorf("err = %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "description.ext")
	src := "#define AUTHOR \"Synixe\"\nauthor = AUTHOR;\nclass Header { gameType = Coop; };\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := execute(t, "parse", "--format", "pretty", "--tokens=false", "--no-preproc=false", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{`author = "Synixe"`, "class Header", "gameType = Coop"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("tree missing %q:\n%s", want, stdout)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	tests := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range tests {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected error")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Error("explicit modes ignored")
	}
}

func TestVersionJSON(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "missionreview.toml")
	if err := os.WriteFile(configPath, []byte("[rules]\nrequired_shops = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := execute(t, "version", "--format", "json", "--full", "--config", configPath)
	if err != nil {
		t.Fatal(err)
	}
	var report buildReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("version json: %v\n%s", err, stdout)
	}
	if report.Tool != "missionreview" || report.GitCommit != "unknown" || report.Config != configPath {
		t.Errorf("unexpected report %+v", report)
	}
	if len(report.Fingerprint) != 16 {
		t.Errorf("fingerprint %q", report.Fingerprint)
	}

	if err := os.WriteFile(configPath, []byte("[rules]\nrequired_shops = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = execute(t, "version", "--format", "json", "--config", configPath)
	if err != nil {
		t.Fatal(err)
	}
	var changed buildReport
	if err := json.Unmarshal([]byte(stdout), &changed); err != nil {
		t.Fatal(err)
	}
	if changed.Fingerprint == report.Fingerprint {
		t.Error("fingerprint ignores rule settings")
	}
}

func TestVersionPrettyDefaults(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "pretty", "--full=false",
		"--config", "", "--color", "off", "--root", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "config:      "+builtinConfig) || !strings.Contains(stdout, "fingerprint: ") {
		t.Errorf("version output = %s", stdout)
	}
	if strings.Contains(stdout, "commit:") {
		t.Errorf("commit shown without --full: %s", stdout)
	}
}
