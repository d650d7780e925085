package output

import (
	"fmt"
	"strings"

	"github.com/phyten/tdfix/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields []Field
}

var fieldRegistry = map[string]string{
	"file":        "FILE",
	"location":    "LOCATION",
	"line":        "LINE",
	"col":         "COL",
	"code":        "CODE",
	"domain":      "DOMAIN",
	"replacement": "REPLACEMENT",
	"message":     "MESSAGE",
	"fixed":       "FIXED",
}

var defaultFieldKeys = []string{"location", "domain", "replacement", "fixed", "message"}

// ResolveFields parses a comma separated field list. An empty string selects
// the default column set.
func ResolveFields(raw string) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	sel := FieldSelection{}
	if raw == "" {
		sel.Fields = make([]Field, 0, len(defaultFieldKeys))
		for _, key := range defaultFieldKeys {
			sel.Fields = append(sel.Fields, Field{Key: key, Header: fieldRegistry[key]})
		}
		return sel, nil
	}

	parts := strings.Split(raw, ",")
	sel.Fields = make([]Field, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		header, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: header})
	}
	return sel, nil
}

func Headers(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Header)
	}
	return out
}

func RowValues(it engine.Item, fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, formatFieldValue(it, f.Key))
	}
	return out
}

func formatFieldValue(it engine.Item, key string) string {
	switch key {
	case "file":
		return it.File
	case "location":
		return fmt.Sprintf("%s:%d:%d", it.File, it.Span.StartLine, it.Span.StartCol)
	case "line":
		return fmt.Sprintf("%d", it.Span.StartLine)
	case "col":
		return fmt.Sprintf("%d", it.Span.StartCol)
	case "code":
		return it.Code
	case "domain":
		return it.Domain
	case "replacement":
		return it.Replacement
	case "message":
		return it.Message
	case "fixed":
		if it.Fixed {
			return "yes"
		}
		return "no"
	default:
		return ""
	}
}
