package opts

import (
	"math"
	"testing"

	"github.com/phyten/tdfix/internal/engine"
)

func TestParseBoolVariants(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", "yes", "On"}
	falseVals := []string{"0", "false", "FALSE", "no", "OFF"}

	for _, tc := range trueVals {
		t.Run("true/"+tc, func(t *testing.T) {
			got, err := ParseBool(tc, "flag")
			if err != nil {
				t.Fatalf("ParseBool(%q) error: %v", tc, err)
			}
			if !got {
				t.Fatalf("ParseBool(%q) = false, want true", tc)
			}
		})
	}

	for _, tc := range falseVals {
		t.Run("false/"+tc, func(t *testing.T) {
			got, err := ParseBool(tc, "flag")
			if err != nil {
				t.Fatalf("ParseBool(%q) error: %v", tc, err)
			}
			if got {
				t.Fatalf("ParseBool(%q) = true, want false", tc)
			}
		})
	}

	if _, err := ParseBool("maybe", "flag"); err == nil {
		t.Fatal("ParseBool should reject unknown values")
	}
}

func TestParseIntInRange(t *testing.T) {
	got, err := ParseIntInRange("42", "jobs", 1, 64)
	if err != nil {
		t.Fatalf("ParseIntInRange error: %v", err)
	}
	if got != 42 {
		t.Fatalf("ParseIntInRange = %d, want 42", got)
	}

	if _, err := ParseIntInRange("-1", "max_file_bytes", 0, math.MinInt); err == nil {
		t.Fatal("ParseIntInRange should reject negative values when min=0")
	}

	if _, err := ParseIntInRange("65", "jobs", 1, 64); err == nil {
		t.Fatal("ParseIntInRange should reject values above max")
	}
}

func TestNormalizeOutput(t *testing.T) {
	for _, v := range []string{"", "table", "TSV", "json", "ndjson", "csv", "Markdown", "html"} {
		if _, err := NormalizeOutput(v); err != nil {
			t.Fatalf("NormalizeOutput(%q) error: %v", v, err)
		}
	}
	if _, err := NormalizeOutput("xml"); err == nil {
		t.Fatal("NormalizeOutput should reject unknown formats")
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	o := Defaults(".")
	o.OriginalDomain = "  old-domain "
	o.TargetDomain = "new-domain"
	o.Paths = []string{" src ", ""}
	if err := NormalizeAndValidate(&o); err != nil {
		t.Fatalf("NormalizeAndValidate error: %v", err)
	}
	if o.OriginalDomain != "old-domain" {
		t.Fatalf("original domain not trimmed: %q", o.OriginalDomain)
	}
	if len(o.Paths) != 1 || o.Paths[0] != "src" {
		t.Fatalf("paths not normalized: %v", o.Paths)
	}

	o = Defaults(".")
	o.TargetDomain = "new-domain"
	if err := NormalizeAndValidate(&o); err == nil {
		t.Fatal("target without original domain should be rejected")
	}

	o = Defaults(".")
	o.Jobs = 0
	if err := NormalizeAndValidate(&o); err == nil {
		t.Fatal("jobs below 1 should be rejected")
	}

	o = Defaults("")
	o.MaxFileBytes = -1
	if err := NormalizeAndValidate(&o); err == nil {
		t.Fatal("negative max_file_bytes should be rejected")
	}
}

func TestWarningsForDegenerateDomains(t *testing.T) {
	o := engine.Options{OriginalDomain: "same", TargetDomain: "same"}
	if got := Warnings(o); len(got) != 1 {
		t.Fatalf("expected a warning, got %v", got)
	}
	o = engine.Options{OriginalDomain: "old", TargetDomain: "new"}
	if got := Warnings(o); len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", got)
	}
}

func TestSplitMulti(t *testing.T) {
	got := SplitMulti([]string{"a, b", "", "c"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("SplitMulti = %v", got)
	}
}
