// Package rule implements the text-domain rewrite check: every call to one
// of the WordPress translation functions must pass the expected text domain
// as its final argument, and a hard-coded legacy domain is reported with a
// replacement fix.
package rule

import (
	"fmt"

	"github.com/phyten/tdfix/internal/phptok"
)

// Code is the diagnostic code attached to every finding.
const Code = "ReplaceDomain"

// Config holds the two domain values for a scan. Values are immutable for
// the lifetime of the scan, so one Config may serve any number of files
// concurrently.
type Config struct {
	// OriginalDomain is the text domain to look for.
	OriginalDomain string
	// TargetDomain is the replacement. When empty the rule is inert.
	TargetDomain string
}

// Reporter is the host's diagnostic and fix surface. ReportFixable returns
// whether the host accepted the proposed fix; only then is ReplaceTokenText
// called with the replacement literal for the token at pos.
type Reporter interface {
	ReportFixable(pos int, message, code string) bool
	ReplaceTokenText(pos int, newText string)
}

// translationFuncs is the closed set of call names that take a trailing
// text-domain argument.
var translationFuncs = map[string]struct{}{
	"__":          {},
	"_e":          {},
	"_x":          {},
	"_n":          {},
	"_nx":         {},
	"esc_html__":  {},
	"esc_html_e":  {},
	"esc_html_x":  {},
	"esc_attr__":  {},
	"esc_attr_e":  {},
	"esc_attr_x":  {},
}

// IsTranslationFunc reports whether name is one of the recognized
// translation functions. Matching is exact and case-sensitive.
func IsTranslationFunc(name string) bool {
	_, ok := translationFuncs[name]
	return ok
}

// Run scans the stream and drives the reporter for every call site whose
// final argument is a string literal equal to cfg.OriginalDomain. Call sites
// are independent: no state is carried between them.
func Run(stream *phptok.Stream, cfg Config, rep Reporter) {
	if cfg.TargetDomain == "" {
		return
	}
	for i := 0; i < stream.Len(); i++ {
		tok := stream.At(i)
		if tok.Kind != phptok.KindIdent {
			continue
		}
		if !IsTranslationFunc(tok.Text) {
			continue
		}
		checkCall(stream, i, cfg, rep)
	}
}

func checkCall(stream *phptok.Stream, ident int, cfg Config, rep Reporter) {
	open := stream.NextOfKind(phptok.KindOpenParen, ident+1)
	if open < 0 {
		// not a call form, nothing to inspect
		return
	}
	literals := splitArgs(stream, open)
	if len(literals) == 0 {
		return
	}
	last := literals[len(literals)-1]
	if stripQuotes(stream.At(last).Text) != cfg.OriginalDomain {
		return
	}
	msg := fmt.Sprintf("Text domain %q in function %s() should be replaced with %q.",
		cfg.OriginalDomain, stream.At(ident).Text, cfg.TargetDomain)
	if rep.ReportFixable(last, msg, Code) {
		rep.ReplaceTokenText(last, "'"+cfg.TargetDomain+"'")
	}
}

// splitArgs partitions the argument list of the call whose opening
// parenthesis sits at open. For each top-level comma-separated argument that
// contains a string literal it records the index of the argument's first
// literal token, in argument order; arguments without a literal contribute
// nothing. Depth 1 is the top level of this call, and the walk stops the
// moment depth returns to 0. A stream that ends before the closing
// parenthesis is malformed and yields nil.
func splitArgs(stream *phptok.Stream, open int) []int {
	depth := 1
	pending := -1
	var out []int
	flush := func() {
		if pending >= 0 {
			out = append(out, pending)
		}
		pending = -1
	}
	for i := open + 1; i < stream.Len(); i++ {
		switch stream.At(i).Kind {
		case phptok.KindOpenParen:
			depth++
		case phptok.KindCloseParen:
			depth--
			if depth == 0 {
				flush()
				return out
			}
		case phptok.KindComma:
			if depth == 1 {
				flush()
			}
		case phptok.KindString:
			if pending < 0 {
				pending = i
			}
		}
	}
	return nil
}

// stripQuotes removes one layer of enclosing quote characters (' or ") from
// raw. No escape decoding happens: the comparison is over the raw source
// text between the quotes.
func stripQuotes(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' || first == '"') && (last == '\'' || last == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
