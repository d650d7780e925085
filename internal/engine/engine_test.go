package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return full
}

func baseOptions(root string) Options {
	return Options{
		OriginalDomain: "old-domain",
		TargetDomain:   "new-domain",
		RootDir:        root,
		Jobs:           2,
	}
}

func TestRunReportsFindings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plugin.php", "<?php\n__( 'Hello', 'old-domain' );\n_e( 'Bye', 'other' );\n")
	writeFile(t, root, "inc/admin.php", `<?php esc_attr_e( "Label", "old-domain" );`)
	writeFile(t, root, "notes.txt", "__( 'ignored', 'old-domain' );")

	res, err := Run(baseOptions(root))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 findings, got %d: %+v", res.Total, res.Items)
	}
	if res.FilesSeen != 2 {
		t.Fatalf("expected 2 files seen, got %d", res.FilesSeen)
	}
	// sorted by file, then position
	if res.Items[0].File != "inc/admin.php" || res.Items[1].File != "plugin.php" {
		t.Fatalf("unexpected file order: %s, %s", res.Items[0].File, res.Items[1].File)
	}
	if res.Items[1].Span.StartLine != 2 {
		t.Fatalf("expected finding on line 2, got %d", res.Items[1].Span.StartLine)
	}
	if res.FixedCount != 0 {
		t.Fatalf("no fixes expected without write, got %d", res.FixedCount)
	}
	for _, it := range res.Items {
		if it.Fixed {
			t.Fatalf("item marked fixed in scan mode: %+v", it)
		}
		if it.Replacement != "'new-domain'" {
			t.Fatalf("unexpected replacement: %q", it.Replacement)
		}
		if it.Code != "ReplaceDomain" {
			t.Fatalf("unexpected code: %q", it.Code)
		}
	}
}

func TestRunWriteRewritesFiles(t *testing.T) {
	root := t.TempDir()
	full := writeFile(t, root, "plugin.php",
		"<?php\n__( 'One', 'old-domain' );\nesc_html_e( \"Two\", \"old-domain\" );\n_x( 'Three', 'ctx', 'keep' );\n")

	opts := baseOptions(root)
	opts.Write = true
	res, err := Run(opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 2 || res.FixedCount != 2 {
		t.Fatalf("expected 2 fixed findings, got total=%d fixed=%d", res.Total, res.FixedCount)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "<?php\n__( 'One', 'new-domain' );\nesc_html_e( \"Two\", 'new-domain' );\n_x( 'Three', 'ctx', 'keep' );\n"
	if string(data) != want {
		t.Fatalf("rewritten file mismatch:\n got %q\nwant %q", string(data), want)
	}

	// second run over the fixed tree settles
	res, err = Run(opts)
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if res.Total != 0 {
		t.Fatalf("expected no findings after fixing, got %d", res.Total)
	}
}

func TestRunEmptyTargetDomainIsInert(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plugin.php", "<?php __( 'Hello', 'old-domain' );")

	opts := baseOptions(root)
	opts.TargetDomain = ""
	res, err := Run(opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 0 || res.FilesSeen != 0 {
		t.Fatalf("inert run still did work: %+v", res)
	}
}

func TestRunExcludesAndPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.php", "<?php __( 'A', 'old-domain' );")
	writeFile(t, root, "vendor/dep/b.php", "<?php __( 'B', 'old-domain' );")
	writeFile(t, root, "other/c.php", "<?php __( 'C', 'old-domain' );")

	opts := baseOptions(root)
	opts.Excludes = []string{"vendor"}
	res, err := Run(opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("exclude not honored: %+v", res.Items)
	}

	opts = baseOptions(root)
	opts.Paths = []string{"src"}
	res, err = Run(opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 1 || res.Items[0].File != "src/a.php" {
		t.Fatalf("paths not honored: %+v", res.Items)
	}
}

func TestRunSkipsBinaryAndOversizeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bin.php", "<?php __( 'X', 'old-domain' );\x00")
	writeFile(t, root, "big.php", "<?php __( 'Y', 'old-domain' ); "+strings.Repeat("/* pad */", 100))
	writeFile(t, root, "ok.php", "<?php __( 'Z', 'old-domain' );")

	opts := baseOptions(root)
	opts.MaxFileBytes = 64
	res, err := Run(opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Total != 1 || res.Items[0].File != "ok.php" {
		t.Fatalf("binary/oversize files not skipped: %+v", res.Items)
	}
}

func TestRunMissingPathFails(t *testing.T) {
	opts := baseOptions(t.TempDir())
	opts.Paths = []string{"does-not-exist"}
	if _, err := Run(opts); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}
