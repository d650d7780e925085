// Package opts provides shared defaults, parsing helpers and validation for
// engine options coming from CLI flags, environment and config files.
package opts

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/tdfix/internal/engine"
)

const (
	maxJobs = 64
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// Defaults returns the baseline options for a scan rooted at rootDir.
func Defaults(rootDir string) engine.Options {
	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	return engine.Options{
		OriginalDomain: "",
		TargetDomain:   "",
		RootDir:        rootDir,
		Paths:          nil,
		Excludes:       nil,
		Extensions:     nil,
		Write:          false,
		Jobs:           jobs,
		MaxFileBytes:   0,
		Progress:       false,
	}
}

// NormalizeAndValidate ensures the options are canonical and within the
// allowed ranges. A set target domain requires an original domain to look
// for; an unset target domain is valid and makes the whole run inert.
func NormalizeAndValidate(o *engine.Options) error {
	o.OriginalDomain = strings.TrimSpace(o.OriginalDomain)
	o.TargetDomain = strings.TrimSpace(o.TargetDomain)
	if o.TargetDomain != "" && o.OriginalDomain == "" {
		return fmt.Errorf("new_domain is set but original_domain is empty")
	}

	if o.Jobs < 1 || o.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", maxJobs)
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}

	if strings.TrimSpace(o.RootDir) == "" {
		o.RootDir = "."
	}

	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.Extensions = trimSlice(o.Extensions)

	return nil
}

// Warnings returns non-fatal configuration notes (currently the degenerate
// original == target case, which would keep reporting on every run).
func Warnings(o engine.Options) []string {
	var out []string
	if o.TargetDomain != "" && o.TargetDomain == o.OriginalDomain {
		out = append(out, fmt.Sprintf("original_domain and new_domain are both %q; findings will never settle", o.TargetDomain))
	}
	return out
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// NormalizeOutput validates and lower-cases the output format value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "table":
		return "table", nil
	case "tsv", "json", "ndjson", "csv", "markdown", "html":
		return v, nil
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// SplitMulti turns repeated values (and comma-separated values) into a flat slice.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			part := strings.TrimSpace(piece)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
