package stacktrace

import "strings"

// InternalPaths extracts frames pointing at this module's internal packages
// from a raw debug.Stack dump, trimmed to "internal/..." file:line form.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))
	for i := 0; i < len(lines)-1; i++ {
		line := strings.TrimSpace(lines[i+1])
		if !strings.Contains(line, "/internal/") || !strings.Contains(line, ".go") {
			continue
		}
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}
		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}
		short := line[:end]
		if cut := strings.Index(short, "/internal/"); cut != -1 {
			paths = append(paths, short[cut+1:])
		}
	}
	return paths
}
