// internal/annotate/annotate.go

// Package annotate defines the named-entity annotation capability the
// pipeline delegates to. Concrete annotators live in sub-packages: an
// offline dictionary matcher (gazetteer) and a client for an HTTP NER
// service (remote). The pipeline depends only on the Annotator interface,
// so model implementations stay outside this repository.
package annotate

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidEntity is returned by Validate for entities whose offsets do not
// describe a span.
var ErrInvalidEntity = errors.New("invalid entity")

// Entity is a single labelled span reported for one paragraph. Start and End
// are character offsets relative to the paragraph text and are passed
// through to the output exactly as the annotator reports them.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Document is the annotation result for one input text.
type Document struct {
	Text     string   `json:"text,omitempty"`
	Entities []Entity `json:"entities"`
}

// Annotator is the interface every NER backend must implement.
type Annotator interface {
	// Name identifies the backend in logs and benchmark results.
	Name() string
	// Annotate returns exactly one Document per input text, in input order.
	Annotate(ctx context.Context, texts []string) ([]Document, error)
	// Close releases any resources held by the annotator.
	Close() error
}

// Func adapts a plain function to the Annotator interface. It is mostly
// useful in tests and for wrapping ad-hoc backends.
type Func func(ctx context.Context, texts []string) ([]Document, error)

// Name implements Annotator.
func (f Func) Name() string { return "func" }

// Annotate implements Annotator.
func (f Func) Annotate(ctx context.Context, texts []string) ([]Document, error) {
	return f(ctx, texts)
}

// Close implements Annotator.
func (f Func) Close() error { return nil }

// Validate checks that an entity has a non-negative, ordered span.
func (e Entity) Validate() error {
	if e.Start < 0 || e.End < e.Start {
		return fmt.Errorf("%w: span [%d,%d) for %q", ErrInvalidEntity, e.Start, e.End, e.Label)
	}
	return nil
}
