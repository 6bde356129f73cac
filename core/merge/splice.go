package merge

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Marker text bounding a splice region. A marker line is any line containing
// the text, so each target file uses its own comment syntax.
const (
	BeginMarker = "scaffold:begin"
	EndMarker   = "scaffold:end"
)

var ErrMissingMarkers = errors.New("splice markers missing")

type span struct {
	// start is the offset just past the begin marker line, end the offset of
	// the end marker line.
	start, end int
}

// findSpans locates every begin/end marker pair in content.
func findSpans(content string) ([]span, error) {
	var spans []span
	offset := 0
	open := -1
	for offset < len(content) {
		lineEnd := strings.IndexByte(content[offset:], '\n')
		next := len(content)
		if lineEnd >= 0 {
			next = offset + lineEnd + 1
		}
		line := content[offset:next]

		switch {
		case strings.Contains(line, BeginMarker):
			if open >= 0 {
				return nil, fmt.Errorf("%w: nested %s at offset %d", ErrMissingMarkers, BeginMarker, offset)
			}
			open = next
		case strings.Contains(line, EndMarker):
			if open < 0 {
				return nil, fmt.Errorf("%w: %s without %s", ErrMissingMarkers, EndMarker, BeginMarker)
			}
			spans = append(spans, span{start: open, end: offset})
			open = -1
		}
		offset = next
	}
	if open >= 0 {
		return nil, fmt.Errorf("%w: unterminated %s", ErrMissingMarkers, BeginMarker)
	}
	return spans, nil
}

// blocks returns the text of each marker span in rendered. A rendered file
// without markers is a single block holding all of it.
func blocks(rendered string) ([]string, error) {
	spans, err := findSpans(rendered)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return []string{rendered}, nil
	}
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = rendered[s.start:s.end]
	}
	return out, nil
}

// Splice rewrites existing so that the i-th marker span is replaced by the
// i-th block of rendered. Everything outside the spans is kept byte for byte.
func Splice(existing, rendered string) (string, error) {
	return spliceWith(existing, rendered, func(_, block string) string {
		if block != "" && !strings.HasSuffix(block, "\n") {
			block += "\n"
		}
		return block
	})
}

// Append keeps each marker span of existing and adds the matching rendered
// block after it unless the span already holds that block.
func Append(existing, rendered string) (string, error) {
	return spliceWith(existing, rendered, appendBlock)
}

func spliceWith(existing, rendered string, combine func(current, block string) string) (string, error) {
	spans, err := findSpans(existing)
	if err != nil {
		return "", err
	}
	if len(spans) == 0 {
		return "", fmt.Errorf("%w: expected a %s/%s pair", ErrMissingMarkers, BeginMarker, EndMarker)
	}
	newBlocks, err := blocks(rendered)
	if err != nil {
		return "", err
	}
	if len(newBlocks) != len(spans) {
		return "", fmt.Errorf("%w: existing file has %d regions, rendered file has %d", ErrMissingMarkers, len(spans), len(newBlocks))
	}

	var b strings.Builder
	last := 0
	for i, s := range spans {
		b.WriteString(existing[last:s.start])
		b.WriteString(combine(existing[s.start:s.end], newBlocks[i]))
		last = s.end
	}
	b.WriteString(existing[last:])
	return b.String(), nil
}

// appendBlock adds block to the end of current as one unit. A block already
// present as a run of lines is skipped, and lines of block that repeat the
// tail of current are not written twice. Blank lines and indentation are
// ignored when comparing.
func appendBlock(current, block string) string {
	var lines, want []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, line)
			want = append(want, trimmed)
		}
	}
	have := trimmedLines(current)
	if len(want) == 0 || containsRun(have, want) {
		return current
	}

	overlap := 0
	for k := min(len(have), len(want)); k > 0; k-- {
		if slices.Equal(have[len(have)-k:], want[:k]) {
			overlap = k
			break
		}
	}

	var b strings.Builder
	b.WriteString(current)
	if current != "" && !strings.HasSuffix(current, "\n") {
		b.WriteString("\n")
	}
	for _, line := range lines[overlap:] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func trimmedLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsRun(have, want []string) bool {
	for i := 0; i+len(want) <= len(have); i++ {
		if slices.Equal(have[i:i+len(want)], want) {
			return true
		}
	}
	return false
}
