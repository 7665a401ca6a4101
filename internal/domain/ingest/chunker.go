// Package ingest turns source documents into embedded chunks in a bot's
// vector collection. The pipeline runs in the background and is
// observable through a job handle.
package ingest

import "strings"

// separators, in preference order. Splitting tries to keep paragraphs
// together, then lines, then words; a separator-free run gets hard cut.
var separators = []string{"\n\n", "\n", " "}

// Splitter cuts text into overlapping chunks of at most ChunkSize
// characters. It prefers splitting on coarse separators and only falls
// back to finer ones when a piece is still too large.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter creates a Splitter. Overlap must be smaller than size;
// config validation guarantees that before this runs.
func NewSplitter(chunkSize, chunkOverlap int) Splitter {
	return Splitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Split cuts text into chunks. Empty and whitespace-only input yields no
// chunks.
func (s Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, separators)
}

func (s Splitter) split(text string, seps []string) []string {
	if len(seps) == 0 {
		return s.hardCut(text)
	}
	sep := seps[0]
	if !strings.Contains(text, sep) {
		return s.split(text, seps[1:])
	}

	var chunks, pending []string
	for _, part := range strings.Split(text, sep) {
		if len(part) <= s.ChunkSize {
			pending = append(pending, part)
			continue
		}
		// An oversized part breaks the merge run: flush what we have and
		// recurse into the part with finer separators.
		chunks = append(chunks, s.merge(pending, sep)...)
		pending = nil
		chunks = append(chunks, s.split(part, seps[1:])...)
	}
	return append(chunks, s.merge(pending, sep)...)
}

// merge greedily joins parts into chunks up to ChunkSize, carrying a
// tail of previous parts up to ChunkOverlap into the next chunk.
func (s Splitter) merge(parts []string, sep string) []string {
	var (
		chunks []string
		window []string
		total  int
	)
	flush := func() {
		chunk := strings.Join(window, sep)
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	for _, part := range parts {
		projected := total + len(part) + len(sep)*len(window)
		if projected > s.ChunkSize && len(window) > 0 {
			flush()
			// Keep a tail of the window as overlap for the next chunk.
			for total > s.ChunkOverlap && len(window) > 0 {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, part)
		total += len(part)
	}
	if len(window) > 0 {
		flush()
	}
	return chunks
}

// hardCut slices separator-free text into fixed windows with overlap.
func (s Splitter) hardCut(text string) []string {
	step := s.ChunkSize - s.ChunkOverlap
	if step < 1 {
		step = 1
	}
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
