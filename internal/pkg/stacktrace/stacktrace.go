package stacktrace

import "strings"

// InternalPaths returns the "internal/..." file:line frames of a raw stack
// trace so panics log the bot's own call sites instead of the whole runtime
// stack.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/internal/") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		frame := line
		if end := strings.IndexByte(line[idx:], ' '); end != -1 {
			frame = line[:idx+end]
		}

		internalIdx := strings.Index(frame, "/internal/")
		paths = append(paths, frame[internalIdx+1:])
	}

	return paths
}
