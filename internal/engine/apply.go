package engine

import (
	"os"
	"sort"
)

// TextEdit replaces the bytes [ByteStart, ByteEnd) with NewText.
type TextEdit struct {
	ByteStart int
	ByteEnd   int
	NewText   string
}

// applyEdits returns a copy of data with all edits applied. Edits are
// applied back to front so earlier offsets stay valid; overlapping edits are
// not expected (one edit per string-literal token).
func applyEdits(data []byte, edits []TextEdit) []byte {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ByteStart > sorted[j].ByteStart })

	out := make([]byte, len(data))
	copy(out, data)
	for _, e := range sorted {
		if e.ByteStart < 0 || e.ByteEnd > len(out) || e.ByteStart > e.ByteEnd {
			continue
		}
		rest := append([]byte(e.NewText), out[e.ByteEnd:]...)
		out = append(out[:e.ByteStart], rest...)
	}
	return out
}

// rewriteFile writes data back to path keeping the file's permission bits.
func rewriteFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
