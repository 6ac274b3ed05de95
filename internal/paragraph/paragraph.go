// internal/paragraph/paragraph.go

// Package paragraph splits plain text into paragraphs: maximal runs of
// non-blank lines separated by one or more blank lines.
package paragraph

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEncoding is returned when the input is not valid UTF-8.
var ErrEncoding = errors.New("input is not valid UTF-8")

// MaxLineLength bounds a single line of input.
const MaxLineLength = 64 << 20

// Paragraph is one unit of pipeline input.
type Paragraph struct {
	// Index is the zero-based position of the paragraph in the source.
	Index int
	// Text holds the raw lines of the paragraph including their line
	// terminators. CRLF and lone CR endings are normalised to LF.
	Text string
}

// Scanner yields paragraphs from a reader in a single forward pass.
// It follows the bufio.Scanner protocol: call Scan until it returns false,
// then check Err.
type Scanner struct {
	lines   *bufio.Scanner
	current Paragraph
	next    int
	line    int // completed lines read so far
	err     error
	done    bool
}

// NewScanner validates r as UTF-8 and drops a leading byte-order mark, if
// present. Lines end at LF, CRLF or a lone CR.
func NewScanner(r io.Reader) *Scanner {
	decoder := transform.Chain(encoding.UTF8Validator, unicode.BOMOverride(transform.Nop))
	lines := bufio.NewScanner(transform.NewReader(r, decoder))
	lines.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	lines.Split(scanLines)
	return &Scanner{lines: lines}
}

// scanLines is a bufio.SplitFunc that keeps the line terminator in the token.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i+1], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i+2], nil
			}
			return i + 1, data[:i+1], nil
		}
		// A CR at the end of the buffer may be the first half of a CRLF.
		if atEOF {
			return i + 1, data[:i+1], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Scan advances to the next paragraph. It returns false at end of input or
// on the first read error.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	var b strings.Builder
	for s.lines.Scan() {
		line := s.lines.Text()
		if strings.HasSuffix(line, "\n") || strings.HasSuffix(line, "\r") {
			s.line++
		}
		line = normaliseEOL(line)
		if strings.TrimSpace(line) != "" {
			b.WriteString(line)
		} else if b.Len() > 0 {
			s.emit(b.String())
			return true
		}
	}

	s.done = true
	if err := s.lines.Err(); err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			err = fmt.Errorf("%w: line %d", ErrEncoding, s.line+1)
		}
		s.err = err
		return false
	}
	if b.Len() > 0 {
		s.emit(b.String())
		return true
	}
	return false
}

// Paragraph returns the paragraph produced by the last successful Scan.
func (s *Scanner) Paragraph() Paragraph { return s.current }

// Err returns the first non-EOF error encountered while reading.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) emit(text string) {
	s.current = Paragraph{Index: s.next, Text: text}
	s.next++
}

// normaliseEOL rewrites a trailing CRLF or lone CR as LF.
func normaliseEOL(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2] + "\n"
	case strings.HasSuffix(line, "\r"):
		return line[:len(line)-1] + "\n"
	}
	return line
}

// Open opens the text file at path and returns a Scanner over it together
// with the file, which the caller must close.
func Open(path string) (*Scanner, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open text file %q: %w", path, err)
	}
	return NewScanner(file), file, nil
}

// ReadAll collects every paragraph from r. It is meant for small inputs and
// tests; the pipeline consumes a Scanner directly.
func ReadAll(r io.Reader) ([]Paragraph, error) {
	s := NewScanner(r)
	var out []Paragraph
	for s.Scan() {
		out = append(out, s.Paragraph())
	}
	return out, s.Err()
}
