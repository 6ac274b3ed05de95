// internal/batch/batch.go

// Package batch groups consecutive paragraphs into fixed-size batches.
package batch

import (
	"errors"
	"fmt"

	"github.com/UCREL/HEC/internal/paragraph"
)

// ErrInvalidConfiguration is returned when a batch size is not a positive integer.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Batch is an ordered group of consecutive paragraphs.
type Batch []paragraph.Paragraph

// Texts returns the paragraph texts of the batch, in order.
func (b Batch) Texts() []string {
	out := make([]string, len(b))
	for i, p := range b {
		out[i] = p.Text
	}
	return out
}

// Source is the forward-only paragraph stream a Batcher reads from.
// *paragraph.Scanner satisfies it.
type Source interface {
	Scan() bool
	Paragraph() paragraph.Paragraph
	Err() error
}

// Batcher lazily groups paragraphs from a Source into batches of at most
// size elements. Only the final batch may be smaller.
type Batcher struct {
	src     Source
	size    int
	current Batch
	err     error
	done    bool
}

// Validate reports whether size can be used as a batch size.
func Validate(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: batch size must be a positive integer, got %d", ErrInvalidConfiguration, size)
	}
	return nil
}

// New returns a Batcher over src.
func New(src Source, size int) (*Batcher, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil paragraph source", ErrInvalidConfiguration)
	}
	return &Batcher{src: src, size: size}, nil
}

// Next reads up to size paragraphs and reports whether a non-empty batch is
// available.
func (b *Batcher) Next() bool {
	if b.done {
		return false
	}

	next := make(Batch, 0, b.size)
	for len(next) < b.size {
		if !b.src.Scan() {
			b.done = true
			if err := b.src.Err(); err != nil {
				b.err = err
				return false
			}
			break
		}
		next = append(next, b.src.Paragraph())
	}

	if len(next) == 0 {
		return false
	}
	b.current = next
	return true
}

// Batch returns the batch produced by the last successful Next.
func (b *Batcher) Batch() Batch { return b.current }

// Err returns the error, if any, reported by the underlying source.
func (b *Batcher) Err() error { return b.err }

// Size returns the configured batch size.
func (b *Batcher) Size() int { return b.size }
