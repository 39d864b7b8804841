// Package chunk splits a unified diff into size-bounded, line-aligned pieces
// for the classifier. Chunks are ordered and lossless: replayed in order and
// concatenated, they reproduce the input up to trailing-newline
// normalization.
package chunk

import "strings"

// Split cuts diff into chunks of at most maxSize bytes. Accumulation is by
// whole lines: the current chunk is closed before a line that would push the
// already-accumulated length past maxSize. A single line longer than maxSize
// is emitted as an oversized one-line chunk rather than split mid-line.
// Every chunk ends with a newline. Empty input yields no chunks.
func Split(diff string, maxSize int) []string {
	if diff == "" {
		return nil
	}

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")

	var chunks []string
	var current strings.Builder
	for _, line := range lines {
		if current.Len() > 0 && current.Len()+len(line) > maxSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
