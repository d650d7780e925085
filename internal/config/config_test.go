package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".tdfix.yaml", `
scan:
  original_domain: old-domain
  new_domain: new-domain
  exclude: [vendor, node_modules]
  jobs: 4
ui:
  output: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Scan.OriginalDomain == nil || *cfg.Scan.OriginalDomain != "old-domain" {
		t.Fatalf("original_domain not loaded: %+v", cfg.Scan)
	}
	if cfg.Scan.NewDomain == nil || *cfg.Scan.NewDomain != "new-domain" {
		t.Fatalf("new_domain not loaded: %+v", cfg.Scan)
	}
	if cfg.Scan.Excludes == nil || !reflect.DeepEqual(*cfg.Scan.Excludes, []string{"vendor", "node_modules"}) {
		t.Fatalf("excludes not loaded: %+v", cfg.Scan.Excludes)
	}
	if cfg.Scan.Jobs == nil || *cfg.Scan.Jobs != 4 {
		t.Fatalf("jobs not loaded: %+v", cfg.Scan.Jobs)
	}
	if cfg.UI.Output == nil || *cfg.UI.Output != "json" {
		t.Fatalf("output not loaded: %+v", cfg.UI)
	}
}

func TestLoadTOMLWithAliases(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".tdfix.toml", `
[scan]
source_domain = "old"
target_domain = "new"
fix = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Scan.OriginalDomain == nil || *cfg.Scan.OriginalDomain != "old" {
		t.Fatalf("source_domain alias not honored: %+v", cfg.Scan)
	}
	if cfg.Scan.NewDomain == nil || *cfg.Scan.NewDomain != "new" {
		t.Fatalf("target_domain alias not honored: %+v", cfg.Scan)
	}
	if cfg.Scan.Write == nil || !*cfg.Scan.Write {
		t.Fatalf("fix alias not honored: %+v", cfg.Scan.Write)
	}
}

func TestLoadJSONTopLevelKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".tdfix.json",
		`{"original_domain": "old", "new_domain": "new", "output": "csv"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Scan.OriginalDomain == nil || *cfg.Scan.OriginalDomain != "old" {
		t.Fatalf("top-level scan key not routed: %+v", cfg.Scan)
	}
	if cfg.UI.Output == nil || *cfg.UI.Output != "csv" {
		t.Fatalf("top-level ui key not routed: %+v", cfg.UI)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".tdfix.yaml", "scan:\n  bogus: 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown scan key should be rejected")
	}
	path = writeConfig(t, dir, ".tdfix.yml", "mystery: true\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown top-level key should be rejected")
	}
}

func TestLoadRejectsWrongTypes(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".tdfix.yaml", "scan:\n  jobs: not-a-number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("non-integer jobs should be rejected")
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"TDFIX_ORIGINAL_DOMAIN": "old",
		"TDFIX_NEW_DOMAIN":      "new",
		"TDFIX_EXCLUDE":         "vendor,tests",
		"TDFIX_WRITE":           "yes",
		"TDFIX_JOBS":            "8",
	}
	cfg, err := FromEnv(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Scan.OriginalDomain == nil || *cfg.Scan.OriginalDomain != "old" {
		t.Fatalf("env original domain missing: %+v", cfg.Scan)
	}
	if cfg.Scan.Excludes == nil || !reflect.DeepEqual(*cfg.Scan.Excludes, []string{"vendor", "tests"}) {
		t.Fatalf("env excludes missing: %+v", cfg.Scan.Excludes)
	}
	if cfg.Scan.Write == nil || !*cfg.Scan.Write {
		t.Fatalf("env write missing: %+v", cfg.Scan.Write)
	}
	if cfg.Scan.Jobs == nil || *cfg.Scan.Jobs != 8 {
		t.Fatalf("env jobs missing: %+v", cfg.Scan.Jobs)
	}
}

func TestFromEnvInvalidValues(t *testing.T) {
	env := map[string]string{"TDFIX_WRITE": "perhaps"}
	if _, err := FromEnv(func(k string) string { return env[k] }); err == nil {
		t.Fatal("invalid boolean should surface an error")
	}
}

func TestMergePrecedence(t *testing.T) {
	base := ScanSettings{Jobs: 2, Root: "."}
	fileDomain := "file-old"
	envDomain := "env-old"
	envJobs := 16
	merged := MergeScan(base,
		ScanConfig{OriginalDomain: &fileDomain},
		ScanConfig{OriginalDomain: &envDomain, Jobs: &envJobs},
	)
	if merged.OriginalDomain != "env-old" {
		t.Fatalf("later layer should win: %q", merged.OriginalDomain)
	}
	if merged.Jobs != 16 {
		t.Fatalf("unset fields should pass through: %d", merged.Jobs)
	}
	if merged.Root != "." {
		t.Fatalf("root default lost: %q", merged.Root)
	}
}

func TestMergeUIDefaults(t *testing.T) {
	out := MergeUI(UISettings{})
	if out.Output != "table" || out.Color != "auto" {
		t.Fatalf("defaults not applied: %+v", out)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeConfig(t, root, ".tdfix.yaml", "scan: {}\n")

	got, source, err := Find(nested, "", filepath.Join(root, "no-xdg"), filepath.Join(root, "no-home"))
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != want || source != "cwd-up" {
		t.Fatalf("Find = %q (%s), want %q (cwd-up)", got, source, want)
	}
}

func TestFindExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.toml", "[scan]\n")
	got, source, err := Find(dir, path, "", "")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != path || source != "explicit" {
		t.Fatalf("Find = %q (%s)", got, source)
	}
	if _, _, err := Find(dir, filepath.Join(dir, "missing.yaml"), "", ""); err == nil {
		t.Fatal("missing explicit config should error")
	}
}
